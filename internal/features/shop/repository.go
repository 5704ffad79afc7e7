// Package shop — repository.go reads the catalog and performs redemptions.
// A redemption locks the account row before checking the balance so two
// concurrent redemptions cannot both spend the same points.
package shop

import (
	"context"
	"errors"
	"fmt"

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

// SeedDefaults inserts rewards only when the catalog is empty.
// It returns the number of rows inserted.
func (r *Repository) SeedDefaults(ctx context.Context, rewards []Reward) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// serialize concurrent seeders
	if _, err := tx.Exec(ctx, `LOCK TABLE rewards IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("lock rewards: %w", err)
	}

	var n int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM rewards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rewards: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for _, rw := range rewards {
		if _, err := tx.Exec(ctx, `INSERT INTO rewards (name, cost) VALUES ($1, $2)`, rw.Name, rw.Cost); err != nil {
			return 0, fmt.Errorf("insert reward %q: %w", rw.Name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rewards), nil
}

// Catalog lists rewards by ascending cost.
func (r *Repository) Catalog(ctx context.Context) ([]Reward, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, cost FROM rewards ORDER BY cost, id`)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Reward])
	if err != nil {
		return nil, fmt.Errorf("scan reward: %w", err)
	}
	return out, nil
}

// Redeem deducts the reward cost and records the redemption in one transaction.
func (r *Repository) Redeem(ctx context.Context, userID string, rewardID int64) (*Receipt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var reward Reward
	err = tx.QueryRow(ctx, `SELECT id, name, cost FROM rewards WHERE id = $1`, rewardID).
		Scan(&reward.ID, &reward.Name, &reward.Cost)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrRewardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}

	var balance int64
	err = tx.QueryRow(ctx, `SELECT points FROM users WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrInsufficientPoints
	}
	if err != nil {
		return nil, fmt.Errorf("lock balance: %w", err)
	}
	if balance < reward.Cost {
		return nil, common.ErrInsufficientPoints
	}

	var remaining int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET points = points - $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING points
	`, userID, reward.Cost).Scan(&remaining)
	if err != nil {
		return nil, fmt.Errorf("deduct points: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO points_log (user_id, action, points)
		VALUES ($1, $2, $3)
	`, userID, RedeemAction(reward), -reward.Cost); err != nil {
		return nil, fmt.Errorf("append points log: %w", err)
	}

	var redemptionID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO redemptions (user_id, reward_id)
		VALUES ($1, $2)
		RETURNING id
	`, userID, reward.ID).Scan(&redemptionID); err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &Receipt{RedemptionID: redemptionID, Reward: reward, Remaining: remaining}, nil
}
