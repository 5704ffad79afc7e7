// Package ledger owns point balances and the append-only points log.
// Every balance change goes through one transaction that updates the users
// row and appends a points_log row with the same delta, so a balance always
// equals the sum of its log entries.
package ledger

import "time"

// Account is a row of the users table.
type Account struct {
	UserID string `db:"user_id"`
	Points int64  `db:"points"`
}

// LogEntry is a row of points_log.
type LogEntry struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Action    string    `db:"action"`
	Points    int64     `db:"points"`
	Timestamp time.Time `db:"timestamp"`
}

// Activity is a point-earning action with a fixed reward.
type Activity struct {
	Key    string
	Label  string // written to points_log.action
	Points int64
}

var (
	ActivityMessage  = Activity{Key: "message", Label: "Message sent", Points: 1}
	ActivityReaction = Activity{Key: "reaction", Label: "Liking/interacting", Points: 2}
	ActivityResume   = Activity{Key: "resume", Label: "Resume upload", Points: 20}
	ActivityEvent    = Activity{Key: "event", Label: "Event attendance", Points: 15}
	ActivityLinkedIn = Activity{Key: "linkedin", Label: "LinkedIn update", Points: 5}
)

// ResourceSharePoints is the default award for an approved resource.
const ResourceSharePoints int64 = 10

// Activities lists the fixed earning actions in display order.
var Activities = []Activity{
	ActivityMessage,
	ActivityReaction,
	ActivityResume,
	ActivityEvent,
	ActivityLinkedIn,
}

// Change describes a committed balance mutation.
type Change struct {
	UserID string
	Delta  int64
	Action string
	Total  int64
	At     time.Time
}

// RankedAccount is an account with its 1-based leaderboard position.
type RankedAccount struct {
	Position int
	UserID   string
	Points   int64
}

// LeaderboardPage is one page of the leaderboard.
type LeaderboardPage struct {
	Page       int
	TotalPages int
	Entries    []RankedAccount
}
