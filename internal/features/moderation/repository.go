// Package moderation — repository.go works with the user_status and
// suspicious_activity tables.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Suspend replaces the user's status with a suspension ending at until.
// Warnings are reset to zero.
func (r *Repository) Suspend(ctx context.Context, userID string, until time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_status (user_id, warnings, points_suspended, suspension_end)
		VALUES ($1, 0, TRUE, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET warnings = 0, points_suspended = TRUE, suspension_end = EXCLUDED.suspension_end
	`, userID, until)
	if err != nil {
		return fmt.Errorf("suspend %s: %w", userID, err)
	}
	return nil
}

// Unsuspend clears the flag and reports whether a row was changed.
func (r *Repository) Unsuspend(ctx context.Context, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_status SET points_suspended = FALSE
		WHERE user_id = $1 AND points_suspended
	`, userID)
	if err != nil {
		return false, fmt.Errorf("unsuspend %s: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClearWarnings zeroes warnings and returns how many there were.
func (r *Repository) ClearWarnings(ctx context.Context, userID string) (int, error) {
	var previous int
	err := r.db.QueryRow(ctx, `
		UPDATE user_status s SET warnings = 0
		FROM (SELECT warnings FROM user_status WHERE user_id = $1) old
		WHERE s.user_id = $1
		RETURNING old.warnings
	`, userID).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("clear warnings %s: %w", userID, err)
	}
	return previous, nil
}

// Get returns the user's status, or nil when no row exists.
func (r *Repository) Get(ctx context.Context, userID string) (*Status, error) {
	var s Status
	err := r.db.QueryRow(ctx, `
		SELECT user_id, warnings, points_suspended, suspension_end, last_activity
		FROM user_status WHERE user_id = $1
	`, userID).Scan(&s.UserID, &s.Warnings, &s.Suspended, &s.SuspensionEnd, &s.LastActivity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get status %s: %w", userID, err)
	}
	return &s, nil
}

// Touch records the time of the user's latest earning activity and returns
// the resulting status.
func (r *Repository) Touch(ctx context.Context, userID string, at time.Time) (*Status, error) {
	var s Status
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_status (user_id, last_activity)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_activity = EXCLUDED.last_activity
		RETURNING user_id, warnings, points_suspended, suspension_end, last_activity
	`, userID, at).Scan(&s.UserID, &s.Warnings, &s.Suspended, &s.SuspensionEnd, &s.LastActivity)
	if err != nil {
		return nil, fmt.Errorf("touch %s: %w", userID, err)
	}
	return &s, nil
}

func (r *Repository) RecordSuspicious(ctx context.Context, userID, activityType, details string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO suspicious_activity (user_id, activity_type, details)
		VALUES ($1, $2, $3)
	`, userID, activityType, details)
	if err != nil {
		return fmt.Errorf("record suspicious activity: %w", err)
	}
	return nil
}

// LiftExpired clears every suspension whose end is not after now and
// returns the affected user ids.
func (r *Repository) LiftExpired(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE user_status SET points_suspended = FALSE
		WHERE points_suspended AND suspension_end IS NOT NULL AND suspension_end <= $1
		RETURNING user_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("lift expired suspensions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect lifted ids: %w", err)
	}
	return ids, nil
}

func (r *Repository) CountSuspended(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_status
		WHERE points_suspended AND (suspension_end IS NULL OR suspension_end > $1)
	`, now).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count suspended: %w", err)
	}
	return n, nil
}
