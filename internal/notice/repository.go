package notice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, n *Notice) error
	GetByID(ctx context.Context, id string) (*Notice, error)
	List(ctx context.Context, filter Filter) ([]*Notice, int, error)
	Update(ctx context.Context, n *Notice) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, n *Notice) error {
	const query = `
		INSERT INTO public.notices (title, body, category, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, n.Title, n.Body, n.Category, n.CreatedBy).
		Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert notice failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Notice, error) {
	const query = `
		SELECT n.id, n.title, n.body, n.category,
		       n.created_by, COALESCE(u.display_name, u.email),
		       n.created_at, n.updated_at
		FROM public.notices n
		JOIN public.users u ON n.created_by = u.id
		WHERE n.id = $1
	`

	var n Notice
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Title, &n.Body, &n.Category,
		&n.CreatedBy, &n.CreatedByName,
		&n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get notice failed: %w", err)
	}
	return &n, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Notice, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"n.id", "n.title", "n.body", "n.category",
		"n.created_by", "COALESCE(u.display_name, u.email)",
		"n.created_at", "n.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.notices n").
		Join("public.users u ON n.created_by = u.id")

	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"n.category": filter.Category})
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"n.title": pattern},
			squirrel.ILike{"n.body": pattern},
		})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("n.created_at " + orderDir)

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
		return nil, 0, fmt.Errorf("build list notices query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notices failed: %w", err)
	}
	defer rows.Close()

	var notices []*Notice
	var total int

	for rows.Next() {
		var n Notice
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Body, &n.Category,
			&n.CreatedBy, &n.CreatedByName,
			&n.CreatedAt, &n.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan notice failed: %w", err)
		}
		notices = append(notices, &n)
	}

	return notices, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, n *Notice) error {
	const query = `
		UPDATE public.notices
		SET title = $2, body = $3, category = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query, n.ID, n.Title, n.Body, n.Category).Scan(&n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update notice failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM public.notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notice failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
