// Package postgres — queries.go builds the read-only database report printed
// by the "inspect" CLI command.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InspectedTables lists the tables counted by Inspect, in display order.
var InspectedTables = []string{
	"users",
	"points_log",
	"rewards",
	"redemptions",
	"milestone_achievements",
	"resource_submissions",
	"user_status",
	"suspicious_activity",
	"members",
}

// TableCount is a row count for one table.
type TableCount struct {
	Table string
	Rows  int64
}

// UserPoints is one leaderboard row.
type UserPoints struct {
	UserID string
	Points int64
}

// RewardRow is one catalog row.
type RewardRow struct {
	ID   int64
	Name string
	Cost int64
}

// ActivityRow is one points_log row.
type ActivityRow struct {
	UserID    string
	Action    string
	Points    int64
	Timestamp time.Time
}

// Report is a snapshot of the database contents.
type Report struct {
	Tables          []TableCount
	TopUsers        []UserPoints
	Rewards         []RewardRow
	RecentActivity  []ActivityRow
	SuspiciousTotal int64
}

// Inspect collects table counts, the top 5 users, the reward catalog,
// the last 5 ledger entries and the suspicious activity total.
func Inspect(ctx context.Context, pool *pgxpool.Pool) (*Report, error) {
	rep := &Report{}

	for _, table := range InspectedTables {
		var n int64
		// table names come from the fixed list above
		if err := pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		rep.Tables = append(rep.Tables, TableCount{Table: table, Rows: n})
	}

	rows, err := pool.Query(ctx, `SELECT user_id, points FROM users ORDER BY points DESC, user_id LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	for rows.Next() {
		var u UserPoints
		if err := rows.Scan(&u.UserID, &u.Points); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan top user: %w", err)
		}
		rep.TopUsers = append(rep.TopUsers, u)
	}
	rows.Close()

	rows, err = pool.Query(ctx, `SELECT id, name, cost FROM rewards ORDER BY cost, id`)
	if err != nil {
		return nil, fmt.Errorf("rewards: %w", err)
	}
	for rows.Next() {
		var r RewardRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Cost); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rep.Rewards = append(rep.Rewards, r)
	}
	rows.Close()

	rows, err = pool.Query(ctx, `
		SELECT user_id, action, points, timestamp
		FROM points_log
		ORDER BY timestamp DESC, id DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	for rows.Next() {
		var a ActivityRow
		if err := rows.Scan(&a.UserID, &a.Action, &a.Points, &a.Timestamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		rep.RecentActivity = append(rep.RecentActivity, a)
	}
	rows.Close()

	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM suspicious_activity`).Scan(&rep.SuspiciousTotal); err != nil {
		return nil, fmt.Errorf("suspicious total: %w", err)
	}
	return rep, nil
}
