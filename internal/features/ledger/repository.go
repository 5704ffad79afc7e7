// Package ledger — repository.go runs the users/points_log queries.
// Mutations are wrapped in a database transaction so the balance update and
// the log entry commit together.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"p2e.club/discord-bot/internal/common"
)

// Repository implements Store on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Apply upserts the account, adds delta and appends a log entry.
// It returns the new balance.
func (r *Repository) Apply(ctx context.Context, userID string, delta int64, action string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (user_id, points)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET points = users.points + EXCLUDED.points, updated_at = NOW()
		RETURNING points
	`, userID, delta).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("update balance: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO points_log (user_id, action, points)
		VALUES ($1, $2, $3)
	`, userID, action, delta)
	if err != nil {
		return 0, fmt.Errorf("append points log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return total, nil
}

// Reset zeroes the balance and logs the negated previous balance.
// Unknown users are a no-op returning 0.
func (r *Repository) Reset(ctx context.Context, userID, action string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var previous int64
	err = tx.QueryRow(ctx, `SELECT points FROM users WHERE user_id = $1 FOR UPDATE`, userID).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lock balance: %w", err)
	}
	if previous == 0 {
		return 0, nil
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET points = 0, updated_at = NOW() WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("reset balance: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO points_log (user_id, action, points)
		VALUES ($1, $2, $3)
	`, userID, action, -previous); err != nil {
		return 0, fmt.Errorf("append points log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return previous, nil
}

// Balance returns the current balance, 0 for unknown users.
func (r *Repository) Balance(ctx context.Context, userID string) (int64, error) {
	var points int64
	err := r.db.QueryRow(ctx, `SELECT points FROM users WHERE user_id = $1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return points, nil
}

// History returns the latest log entries for a user, newest first.
func (r *Repository) History(ctx context.Context, userID string, limit int) ([]LogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, points, timestamp
		FROM points_log
		WHERE user_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[LogEntry])
	if err != nil {
		return nil, fmt.Errorf("scan log entry: %w", err)
	}
	return entries, nil
}

// Leaderboard returns accounts ordered by points.
func (r *Repository) Leaderboard(ctx context.Context, offset, limit int) ([]Account, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, points
		FROM users
		ORDER BY points DESC, user_id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer rows.Close()

	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[Account])
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return accounts, nil
}

func (r *Repository) CountAccounts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// Rank returns the 1-based position and balance of a user.
func (r *Repository) Rank(ctx context.Context, userID string) (int, int64, error) {
	var (
		position int
		points   int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT position, points FROM (
			SELECT user_id, points, ROW_NUMBER() OVER (ORDER BY points DESC, user_id) AS position
			FROM users
		) ranked
		WHERE user_id = $1
	`, userID).Scan(&position, &points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, common.ErrUserNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get rank: %w", err)
	}
	return position, points, nil
}
