package milestones

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record inserts the achievement unless it already exists. The unique
// (user_id, milestone_name) index makes concurrent calls insert once;
// only the caller that inserted gets true.
func (r *Repository) Record(ctx context.Context, userID, name string, required int64) (bool, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO milestone_achievements (user_id, milestone_name, points_required)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, milestone_name) DO NOTHING
		RETURNING id
	`, userID, name, required).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record milestone: %w", err)
	}
	return true, nil
}

// List returns a user's achievements in unlock order.
func (r *Repository) List(ctx context.Context, userID string) ([]Achievement, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, milestone_name, points_required, achieved_at
		FROM milestone_achievements
		WHERE user_id = $1
		ORDER BY points_required, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Achievement])
	if err != nil {
		return nil, fmt.Errorf("scan milestone: %w", err)
	}
	return out, nil
}
