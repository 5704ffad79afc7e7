// Package admin implements the administrator commands: manual point
// adjustments, statistics, top users and the recent activity log.
package admin

import "time"

const (
	// DefaultTopUsers is used when !topusers has no limit.
	DefaultTopUsers = 10
	// MaxTopUsers keeps the reply within one embed.
	MaxTopUsers = 25
	// DefaultActivityHours is the !activitylog window without an argument.
	DefaultActivityHours = 24
	// MaxActivityHours bounds the window to 30 days.
	MaxActivityHours = 30 * 24
	// ActivityLogLimit is how many rows !activitylog shows.
	ActivityLogLimit = 20
)

// Stats is the snapshot shown by !stats and the daily summary.
type Stats struct {
	TotalUsers        int
	PointsDistributed int64 // sum of positive log entries
	TodayActivity     int
	SuspiciousTotal   int
	SuspiciousToday   int
	PendingResources  int
	SuspendedUsers    int
	StartedAt         time.Time
}

// Points log labels for manual adjustments.
func GrantAction(adminName string) string { return "Points added by " + adminName }
func DeductAction(adminName string) string { return "Points removed by " + adminName }
func ResetAction(adminName string) string { return "Points reset by " + adminName }
