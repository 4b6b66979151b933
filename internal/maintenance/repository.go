package maintenance

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts a bill. Returns ErrDuplicateBill when a bill for
	// (user, month, year) already exists.
	Create(ctx context.Context, b *Bill) error

	GetByID(ctx context.Context, id string) (*Bill, error)
	List(ctx context.Context, filter Filter) ([]*Bill, int, error)

	// MarkPaid flips a due bill to paid and stamps paid_at. Reports
	// whether a row changed; false means the bill was already paid.
	MarkPaid(ctx context.Context, id string) (bool, error)

	// ListActiveResidents returns the users that period generation
	// bills: active accounts with the resident role.
	ListActiveResidents(ctx context.Context) ([]Resident, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Bill) error {
	const query = `
		INSERT INTO public.maintenance_bills (user_id, month, year, amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, b.UserID, b.Month, b.Year, b.Amount, b.Status).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicateBill
		}
		return fmt.Errorf("insert bill failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Bill, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"m.id", "m.user_id", "COALESCE(u.display_name, u.email)",
		"m.month", "m.year", "m.amount", "m.status", "m.paid_at", "m.created_at",
	).
		From("public.maintenance_bills m").
		Join("public.users u ON m.user_id = u.id").
		Where(squirrel.Eq{"m.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get bill query failed: %w", err)
	}

	var b Bill
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.UserName,
		&b.Month, &b.Year, &b.Amount, &b.Status, &b.PaidAt, &b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get bill failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Bill, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"m.id", "m.user_id", "COALESCE(u.display_name, u.email)",
		"m.month", "m.year", "m.amount", "m.status", "m.paid_at", "m.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.maintenance_bills m").
		Join("public.users u ON m.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"m.user_id": filter.UserID})
	}
	if filter.Month != 0 {
		query = query.Where(squirrel.Eq{"m.month": filter.Month})
	}
	if filter.Year != 0 {
		query = query.Where(squirrel.Eq{"m.year": filter.Year})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"m.status": filter.Status})
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("m.year "+orderDir, "m.month "+orderDir)

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
		return nil, 0, fmt.Errorf("build list bills query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bills failed: %w", err)
	}
	defer rows.Close()

	var bills []*Bill
	var total int

	for rows.Next() {
		var b Bill
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UserName,
			&b.Month, &b.Year, &b.Amount, &b.Status, &b.PaidAt, &b.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan bill failed: %w", err)
		}
		bills = append(bills, &b)
	}

	return bills, total, nil
}

func (r *pgxRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE public.maintenance_bills
		SET status = 'paid', paid_at = now()
		WHERE id = $1 AND status = 'due'
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark bill paid failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) ListActiveResidents(ctx context.Context) ([]Resident, error) {
	const query = `
		SELECT id, COALESCE(display_name, email)
		FROM public.users
		WHERE role = 'resident' AND is_active = true
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active residents failed: %w", err)
	}
	defer rows.Close()

	var residents []Resident
	for rows.Next() {
		var res Resident
		if err := rows.Scan(&res.ID, &res.Name); err != nil {
			return nil, fmt.Errorf("scan resident failed: %w", err)
		}
		residents = append(residents, res)
	}
	return residents, nil
}
