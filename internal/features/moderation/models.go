// Package moderation tracks per-user standing: warnings, temporary point
// suspensions and the suspicious_activity audit trail.
package moderation

import "time"

// Activity types written to suspicious_activity.
const (
	ActivityEarnedWhileSuspended  = "earned_while_suspended"
	ActivityBlockedWhileSuspended = "blocked_while_suspended"
)

// Status is a row of user_status.
type Status struct {
	UserID        string     `db:"user_id"`
	Warnings      int        `db:"warnings"`
	Suspended     bool       `db:"points_suspended"`
	SuspensionEnd *time.Time `db:"suspension_end"`
	LastActivity  *time.Time `db:"last_activity"`
}

// SuspendedAt reports whether the suspension is in force at now.
// A flagged row whose end has passed counts as lifted.
func (s *Status) SuspendedAt(now time.Time) bool {
	if s == nil || !s.Suspended {
		return false
	}
	return s.SuspensionEnd == nil || now.Before(*s.SuspensionEnd)
}

// SuspiciousActivity is a row of suspicious_activity.
type SuspiciousActivity struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"activity_type"`
	Details   string    `db:"details"`
	Timestamp time.Time `db:"timestamp"`
}
