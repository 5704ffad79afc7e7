// Package resources implements the resource-sharing review workflow:
// members submit a description, admins approve (awarding points) or reject.
// A submission moves from pending to approved or rejected exactly once.
package resources

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MinDescriptionLength is counted in characters after trimming.
const MinDescriptionLength = 10

// DefaultRejectReason is used when an admin gives no reason.
const DefaultRejectReason = "No reason provided"

// Submission is a row of resource_submissions.
type Submission struct {
	ID            int64      `db:"id"`
	UserID        string     `db:"user_id"`
	Description   string     `db:"resource_description"`
	Status        string     `db:"status"`
	SubmittedAt   time.Time  `db:"submitted_at"`
	ReviewedBy    *string    `db:"reviewed_by"`
	ReviewedAt    *time.Time `db:"reviewed_at"`
	PointsAwarded int64      `db:"points_awarded"`
	ReviewNotes   *string    `db:"review_notes"`
}

// Review is the decision an admin records on the latest pending submission.
type Review struct {
	Status     string
	ReviewerID string
	Points     int64
	Notes      string
}

// ApprovalAction is the points_log label for an approved resource.
func ApprovalAction(reviewerName string) string {
	return "Resource share approved by " + reviewerName
}
