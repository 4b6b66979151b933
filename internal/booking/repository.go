package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// CreateAdmitted inserts the booking if and only if the amenity
	// still has capacity for the requested slot. The capacity check
	// and the insert run in one transaction holding a row lock on the
	// amenity, so concurrent requests for the same amenity are
	// serialized. Returns ErrCapacityExceeded when the slot is full.
	CreateAdmitted(ctx context.Context, b *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListActiveForAmenityDate(ctx context.Context, amenityID string, date time.Time) ([]*Booking, error)

	// UpdateStatusFrom sets the booking status to `to` only when the
	// current status is one of `from`. Reports whether a row changed.
	UpdateStatusFrom(ctx context.Context, id string, from []Status, to Status) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateAdmitted(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin admission tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the amenity row: admission for one amenity is serialized.
	const lockQuery = `SELECT capacity FROM public.amenities WHERE id = $1 FOR UPDATE`

	var capacity int
	if err := tx.QueryRow(ctx, lockQuery, b.AmenityID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAmenityNotFound
		}
		return fmt.Errorf("lock amenity failed: %w", err)
	}

	// Count capacity-relevant bookings overlapping the half-open slot.
	const countQuery = `
		SELECT count(*)
		FROM public.bookings
		WHERE amenity_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		  AND start_minute < $3
		  AND end_minute > $4
	`

	var overlapping int
	if err := tx.QueryRow(ctx, countQuery, b.AmenityID, b.Date, b.EndMinute, b.StartMinute).Scan(&overlapping); err != nil {
		return fmt.Errorf("count overlapping bookings failed: %w", err)
	}
	if overlapping >= capacity {
		return ErrCapacityExceeded
	}

	const insertQuery = `
		INSERT INTO public.bookings (user_id, amenity_id, booking_date, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := tx.QueryRow(
		ctx, insertQuery,
		b.UserID, b.AmenityID, b.Date, b.StartMinute, b.EndMinute, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit admission tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"b.id", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.amenity_id", "a.name",
		"b.booking_date", "b.start_minute", "b.end_minute", "b.status",
		"b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.amenities a ON b.amenity_id = a.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var b Booking
	if err := row.Scan(
		&b.ID, &b.UserID, &b.UserName,
		&b.AmenityID, &b.AmenityName,
		&b.Date, &b.StartMinute, &b.EndMinute, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.amenity_id", "a.name",
		"b.booking_date", "b.start_minute", "b.end_minute", "b.status",
		"b.created_at", "b.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.amenities a ON b.amenity_id = a.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.AmenityID != "" {
		query = query.Where(squirrel.Eq{"b.amenity_id": filter.AmenityID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"b.booking_date": *filter.Date})
	}

	// Sorting
	orderBy := "b.booking_date"
	if filter.SortBy != "" {
		orderBy = "b." + filter.SortBy
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}

	query = query.OrderBy(orderBy+" "+orderDir, "b.start_minute ASC")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UserName,
			&b.AmenityID, &b.AmenityName,
			&b.Date, &b.StartMinute, &b.EndMinute, &b.Status,
			&b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListActiveForAmenityDate(ctx context.Context, amenityID string, date time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"b.id", "b.user_id", "COALESCE(u.display_name, u.email)",
		"b.amenity_id", "a.name",
		"b.booking_date", "b.start_minute", "b.end_minute", "b.status",
		"b.created_at", "b.updated_at",
	).
		From("public.bookings b").
		Join("public.users u ON b.user_id = u.id").
		Join("public.amenities a ON b.amenity_id = a.id").
		Where(squirrel.Eq{"b.amenity_id": amenityID}).
		Where(squirrel.Eq{"b.booking_date": date}).
		Where(squirrel.Eq{"b.status": []string{string(StatusPending), string(StatusConfirmed)}}).
		OrderBy("b.start_minute ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build amenity day query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list amenity day bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.UserName,
			&b.AmenityID, &b.AmenityName,
			&b.Date, &b.StartMinute, &b.EndMinute, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}

func (r *pgxRepository) UpdateStatusFrom(ctx context.Context, id string, from []Status, to Status) (bool, error) {
	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": fromStrs}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
