package amenity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, a *Amenity) error
	GetByID(ctx context.Context, id string) (*Amenity, error)
	List(ctx context.Context, filter Filter) ([]*Amenity, int, error)
	Update(ctx context.Context, a *Amenity) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Amenity) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.amenities").
		Columns("name", "description", "capacity", "open_minute", "close_minute", "requires_approval", "is_active").
		Values(a.Name, a.Description, a.Capacity, a.OpenMinute, a.CloseMinute, a.RequiresApproval, a.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create amenity query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Amenity, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "description", "capacity", "open_minute", "close_minute",
		"requires_approval", "is_active", "created_at", "updated_at",
	).
		From("public.amenities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get amenity query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var a Amenity
	if err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Capacity, &a.OpenMinute, &a.CloseMinute,
		&a.RequiresApproval, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get amenity failed: %w", err)
	}
	return &a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Amenity, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "description", "capacity", "open_minute", "close_minute",
		"requires_approval", "is_active", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.amenities")

	if !filter.IncludeInactive {
		query = query.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Keyword + "%"})
	}

	// Sorting
	orderBy := "name"
	if filter.SortBy != "" {
		orderBy = filter.SortBy
	}

	orderDir := "ASC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy + " " + orderDir)

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list amenities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list amenities failed: %w", err)
	}
	defer rows.Close()

	var amenities []*Amenity
	var total int

	for rows.Next() {
		var a Amenity
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Description, &a.Capacity, &a.OpenMinute, &a.CloseMinute,
			&a.RequiresApproval, &a.IsActive, &a.CreatedAt, &a.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan amenity failed: %w", err)
		}
		amenities = append(amenities, &a)
	}

	return amenities, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, a *Amenity) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.amenities").
		Set("name", a.Name).
		Set("description", a.Description).
		Set("capacity", a.Capacity).
		Set("open_minute", a.OpenMinute).
		Set("close_minute", a.CloseMinute).
		Set("requires_approval", a.RequiresApproval).
		Set("is_active", a.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": a.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update amenity query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update amenity failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
