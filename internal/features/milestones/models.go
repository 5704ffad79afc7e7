// Package milestones unlocks incentives when a balance crosses fixed
// thresholds. Each (user, milestone) pair is recorded at most once.
package milestones

import "time"

// Milestone is a points threshold that unlocks an incentive.
type Milestone struct {
	Name   string
	Points int64
}

// Milestones are checked in ascending order.
var Milestones = []Milestone{
	{Name: "Azure Certification", Points: 50},
	{Name: "Resume Review", Points: 75},
	{Name: "Hackathon", Points: 100},
}

// Achievement is a row of milestone_achievements.
type Achievement struct {
	ID             int64     `db:"id"`
	UserID         string    `db:"user_id"`
	MilestoneName  string    `db:"milestone_name"`
	PointsRequired int64     `db:"points_required"`
	AchievedAt     time.Time `db:"achieved_at"`
}
