// Package members — repository.go handles the members table.
package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"p2e.club/discord-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Upsert records a join. A rejoin refreshes the names and the join time but
// keeps the registration timestamp.
func (r *Repository) Upsert(ctx context.Context, m *Member) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO members (user_id, username, display_name, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    display_name = EXCLUDED.display_name,
		    joined_at = EXCLUDED.joined_at,
		    updated_at = NOW()
	`, m.UserID, m.Username, m.DisplayName, m.JoinedAt)
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", m.UserID, err)
	}
	return nil
}

func (r *Repository) MarkRegistered(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE members SET registered_at = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, at)
	if err != nil {
		return fmt.Errorf("mark registered %s: %w", userID, err)
	}
	return nil
}

// Get returns common.ErrUserNotFound when the member was never recorded.
func (r *Repository) Get(ctx context.Context, userID string) (*Member, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, username, display_name, joined_at, registered_at, updated_at
		FROM members WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get member %s: %w", userID, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Member])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan member %s: %w", userID, err)
	}
	return &m, nil
}
