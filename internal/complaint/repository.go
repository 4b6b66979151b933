package complaint

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id string) (*Complaint, error)
	List(ctx context.Context, filter Filter) ([]*Complaint, int, error)

	// UpdateStatusFrom sets the status to `to` only when the current
	// status is one of `from`. Reports whether a row changed.
	UpdateStatusFrom(ctx context.Context, id string, from []Status, to Status) (bool, error)

	// Resolve closes the complaint with a resolution note and an
	// optional photo. Reports whether a row changed; false means it
	// was already resolved.
	Resolve(ctx context.Context, id, resolverID, note string, photoPath *string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const complaintColumns = `
	c.id, c.user_id, COALESCE(u.display_name, u.email),
	c.category, c.subject, c.description, c.status,
	c.photo_path, c.thumbnail_path,
	c.resolution_note, c.resolution_photo_path, c.resolved_by, c.resolved_at,
	c.created_at, c.updated_at
`

func scanComplaint(row pgx.Row) (*Complaint, error) {
	var c Complaint
	err := row.Scan(
		&c.ID, &c.UserID, &c.UserName,
		&c.Category, &c.Subject, &c.Description, &c.Status,
		&c.PhotoPath, &c.ThumbnailPath,
		&c.ResolutionNote, &c.ResolutionPhotoPath, &c.ResolvedBy, &c.ResolvedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *pgxRepository) Create(ctx context.Context, c *Complaint) error {
	const query = `
		INSERT INTO public.complaints (user_id, category, subject, description, status, photo_path, thumbnail_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		c.UserID, c.Category, c.Subject, c.Description, c.Status, c.PhotoPath, c.ThumbnailPath,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert complaint failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Complaint, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM public.complaints c
		JOIN public.users u ON c.user_id = u.id
		WHERE c.id = $1
	`, complaintColumns)

	c, err := scanComplaint(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get complaint failed: %w", err)
	}
	return c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Complaint, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"c.id", "c.user_id", "COALESCE(u.display_name, u.email)",
		"c.category", "c.subject", "c.description", "c.status",
		"c.photo_path", "c.thumbnail_path",
		"c.resolution_note", "c.resolution_photo_path", "c.resolved_by", "c.resolved_at",
		"c.created_at", "c.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.complaints c").
		Join("public.users u ON c.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"c.user_id": filter.UserID})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"c.category": filter.Category})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"c.status": filter.Status})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("c.created_at " + orderDir)

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
		return nil, 0, fmt.Errorf("build list complaints query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list complaints failed: %w", err)
	}
	defer rows.Close()

	var complaints []*Complaint
	var total int

	for rows.Next() {
		var c Complaint
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.UserName,
			&c.Category, &c.Subject, &c.Description, &c.Status,
			&c.PhotoPath, &c.ThumbnailPath,
			&c.ResolutionNote, &c.ResolutionPhotoPath, &c.ResolvedBy, &c.ResolvedAt,
			&c.CreatedAt, &c.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan complaint failed: %w", err)
		}
		complaints = append(complaints, &c)
	}

	return complaints, total, nil
}

func (r *pgxRepository) UpdateStatusFrom(ctx context.Context, id string, from []Status, to Status) (bool, error) {
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.complaints").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStrs}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update complaint status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update complaint status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) Resolve(ctx context.Context, id, resolverID, note string, photoPath *string) (bool, error) {
	const query = `
		UPDATE public.complaints
		SET status = 'resolved', resolution_note = $2, resolution_photo_path = $3,
		    resolved_by = $4, resolved_at = now(), updated_at = now()
		WHERE id = $1 AND status <> 'resolved'
	`

	ct, err := r.pool.Exec(ctx, query, id, note, photoPath, resolverID)
	if err != nil {
		return false, fmt.Errorf("resolve complaint failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
