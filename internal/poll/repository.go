package poll

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
	// Create inserts the poll and its options in one transaction.
	Create(ctx context.Context, p *Poll, options []string) error

	// GetByID loads the poll with its options and per-option vote counts.
	GetByID(ctx context.Context, id string) (*Poll, error)

	List(ctx context.Context, filter Filter) ([]*Poll, int, error)

	// Vote records one user's vote. Returns ErrAlreadyVoted when the
	// user has voted in this poll before, ErrOptionNotFound when the
	// option belongs to a different poll, and ErrPollClosed when the
	// poll no longer accepts votes.
	Vote(ctx context.Context, pollID, optionID, userID string) error

	// UserVote returns the option the user voted for, or "" if they
	// have not voted.
	UserVote(ctx context.Context, pollID, userID string) (string, error)

	// Close marks the poll closed. Reports whether a row changed.
	Close(ctx context.Context, id string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, p *Poll, options []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create poll tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertPoll = `
		INSERT INTO public.polls (question, closes_at, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, insertPoll, p.Question, p.ClosesAt, p.CreatedBy).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("insert poll failed: %w", err)
	}

	const insertOption = `
		INSERT INTO public.poll_options (poll_id, text, position)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	p.Options = make([]Option, len(options))
	for i, text := range options {
		var optionID string
		if err := tx.QueryRow(ctx, insertOption, p.ID, text, i).Scan(&optionID); err != nil {
			return fmt.Errorf("insert poll option failed: %w", err)
		}
		p.Options[i] = Option{ID: optionID, Text: text}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create poll tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Poll, error) {
	const pollQuery = `
		SELECT p.id, p.question, p.is_closed, p.closes_at,
		       p.created_by, COALESCE(u.display_name, u.email),
		       p.created_at
		FROM public.polls p
		JOIN public.users u ON p.created_by = u.id
		WHERE p.id = $1
	`

	var p Poll
	if err := r.pool.QueryRow(ctx, pollQuery, id).Scan(
		&p.ID, &p.Question, &p.IsClosed, &p.ClosesAt,
		&p.CreatedBy, &p.CreatedByName,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get poll failed: %w", err)
	}

	if err := r.loadOptions(ctx, []*Poll{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Poll, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"p.id", "p.question", "p.is_closed", "p.closes_at",
		"p.created_by", "COALESCE(u.display_name, u.email)",
		"p.created_at",
		"count(*) OVER() as total_count",
	).
		From("public.polls p").
		Join("public.users u ON p.created_by = u.id")

	if !filter.IncludeClosed {
		query = query.Where(squirrel.Eq{"p.is_closed": false})
		query = query.Where("(p.closes_at IS NULL OR p.closes_at > now())")
	}

	orderDir := "DESC"
	if filter.SortOrder != "" {
		orderDir = filter.SortOrder
	}
	query = query.OrderBy("p.created_at " + orderDir)

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
		return nil, 0, fmt.Errorf("build list polls query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list polls failed: %w", err)
	}
	defer rows.Close()

	var polls []*Poll
	var total int

	for rows.Next() {
		var p Poll
		if err := rows.Scan(
			&p.ID, &p.Question, &p.IsClosed, &p.ClosesAt,
			&p.CreatedBy, &p.CreatedByName,
			&p.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan poll failed: %w", err)
		}
		polls = append(polls, &p)
	}
	rows.Close()

	if err := r.loadOptions(ctx, polls); err != nil {
		return nil, 0, err
	}
	return polls, total, nil
}

// loadOptions fills Options and TotalVotes for the given polls.
func (r *pgxRepository) loadOptions(ctx context.Context, polls []*Poll) error {
	if len(polls) == 0 {
		return nil
	}

	byID := make(map[string]*Poll, len(polls))
	ids := make([]string, len(polls))
	for i, p := range polls {
		byID[p.ID] = p
		ids[i] = p.ID
		p.Options = nil
		p.TotalVotes = 0
	}

	const query = `
		SELECT o.poll_id, o.id, o.text, count(v.id)
		FROM public.poll_options o
		LEFT JOIN public.poll_votes v ON v.option_id = o.id
		WHERE o.poll_id = ANY($1)
		GROUP BY o.poll_id, o.id, o.text, o.position
		ORDER BY o.poll_id, o.position ASC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load poll options failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID string
		var o Option
		if err := rows.Scan(&pollID, &o.ID, &o.Text, &o.Votes); err != nil {
			return fmt.Errorf("scan poll option failed: %w", err)
		}
		if p, ok := byID[pollID]; ok {
			p.Options = append(p.Options, o)
			p.TotalVotes += o.Votes
		}
	}
	return nil
}

func (r *pgxRepository) Vote(ctx context.Context, pollID, optionID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin vote tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const optionQuery = `
		SELECT p.is_closed OR (p.closes_at IS NOT NULL AND p.closes_at <= now())
		FROM public.poll_options o
		JOIN public.polls p ON o.poll_id = p.id
		WHERE o.id = $1 AND o.poll_id = $2
	`

	var closed bool
	if err := tx.QueryRow(ctx, optionQuery, optionID, pollID).Scan(&closed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOptionNotFound
		}
		return fmt.Errorf("check poll option failed: %w", err)
	}
	if closed {
		return ErrPollClosed
	}

	const insertVote = `
		INSERT INTO public.poll_votes (poll_id, option_id, user_id)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertVote, pollID, optionID, userID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyVoted
		}
		return fmt.Errorf("insert vote failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit vote tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UserVote(ctx context.Context, pollID, userID string) (string, error) {
	const query = `
		SELECT option_id FROM public.poll_votes
		WHERE poll_id = $1 AND user_id = $2
	`

	var optionID string
	if err := r.pool.QueryRow(ctx, query, pollID, userID).Scan(&optionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get user vote failed: %w", err)
	}
	return optionID, nil
}

func (r *pgxRepository) Close(ctx context.Context, id string) (bool, error) {
	const query = `
		UPDATE public.polls
		SET is_closed = true
		WHERE id = $1 AND is_closed = false
	`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("close poll failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
