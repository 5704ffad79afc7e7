// Package admin — repository.go runs the read-only reporting queries.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"p2e.club/discord-bot/internal/features/ledger"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Stats counts rows across the schema. dayStart marks the beginning of
// "today" in the configured timezone.
func (r *Repository) Stats(ctx context.Context, dayStart, now time.Time) (*Stats, error) {
	var s Stats
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(points), 0) FROM points_log WHERE points > 0),
			(SELECT COUNT(*) FROM points_log WHERE timestamp >= $1),
			(SELECT COUNT(*) FROM suspicious_activity),
			(SELECT COUNT(*) FROM suspicious_activity WHERE timestamp >= $1),
			(SELECT COUNT(*) FROM resource_submissions WHERE status = 'pending'),
			(SELECT COUNT(*) FROM user_status
			 WHERE points_suspended AND (suspension_end IS NULL OR suspension_end > $2))
	`, dayStart, now).Scan(
		&s.TotalUsers, &s.PointsDistributed, &s.TodayActivity,
		&s.SuspiciousTotal, &s.SuspiciousToday, &s.PendingResources, &s.SuspendedUsers,
	)
	if err != nil {
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	return &s, nil
}

// Activity returns the newest points_log rows written after since.
func (r *Repository) Activity(ctx context.Context, since time.Time, limit int) ([]ledger.LogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, action, points, timestamp
		FROM points_log
		WHERE timestamp > $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[ledger.LogEntry])
	if err != nil {
		return nil, fmt.Errorf("scan activity: %w", err)
	}
	return entries, nil
}
