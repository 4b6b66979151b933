package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepository interface {
	// Register stores a device token for a user. Re-registering an
	// existing token reassigns it to the given user.
	Register(ctx context.Context, t *DeviceToken) error
	Remove(ctx context.Context, userID, token string) error
	TokensByUserIDs(ctx context.Context, userIDs []string) ([]string, error)
}

type pgxTokenRepository struct {
	pool *pgxpool.Pool
}

func NewPgxTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &pgxTokenRepository{pool: pool}
}

func (r *pgxTokenRepository) Register(ctx context.Context, t *DeviceToken) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.device_tokens").
		Columns("user_id", "token", "platform").
		Values(t.UserID, t.Token, t.Platform).
		Suffix("ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform").
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build register token query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("register token failed, unknown user: %w", err)
		}
		return fmt.Errorf("register token failed: %w", err)
	}
	return nil
}

func (r *pgxTokenRepository) Remove(ctx context.Context, userID, token string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.device_tokens").
		Where(squirrel.Eq{"user_id": userID, "token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build remove token query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove token failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *pgxTokenRepository) TokensByUserIDs(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("token").
		From("public.device_tokens").
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tokens query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tokens failed: %w", err)
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan token failed: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}
