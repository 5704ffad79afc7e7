// Package shop manages the reward catalog and redemptions.
package shop

import "time"

// Reward is a catalog item.
type Reward struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Cost int64  `db:"cost"`
}

// Redemption is a row of redemptions.
type Redemption struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	RewardID  int64     `db:"reward_id"`
	Timestamp time.Time `db:"timestamp"`
}

// Receipt is the result of a successful redemption.
type Receipt struct {
	RedemptionID int64
	Reward       Reward
	Remaining    int64
}

// DefaultRewards seed an empty catalog.
var DefaultRewards = []Reward{
	{Name: "Resume Review", Cost: 300},
	{Name: "Mentorship Call", Cost: 500},
	{Name: "Exclusive Career Webinar Access", Cost: 400},
	{Name: "P2E Hat", Cost: 800},
}

// RedeemAction is the points_log label for a redemption.
func RedeemAction(r Reward) string {
	return "Redeemed " + r.Name
}
