package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"p2e.club/discord-bot/internal/common"
)

const submissionColumns = `id, user_id, resource_description, status, submitted_at,
	reviewed_by, reviewed_at, points_awarded, review_notes`

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanSubmission(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(&s.ID, &s.UserID, &s.Description, &s.Status, &s.SubmittedAt,
		&s.ReviewedBy, &s.ReviewedAt, &s.PointsAwarded, &s.ReviewNotes)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, userID, description string) (*Submission, error) {
	s, err := scanSubmission(r.db.QueryRow(ctx, `
		INSERT INTO resource_submissions (user_id, resource_description)
		VALUES ($1, $2)
		RETURNING `+submissionColumns, userID, description))
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return s, nil
}

// ReviewLatest applies rv to the user's most recent pending submission and
// returns it. Concurrent reviewers never claim the same row.
func (r *Repository) ReviewLatest(ctx context.Context, userID string, rv Review) (*Submission, error) {
	s, err := scanSubmission(r.db.QueryRow(ctx, `
		UPDATE resource_submissions
		SET status = $2, reviewed_by = $3, reviewed_at = NOW(),
		    points_awarded = $4, review_notes = $5
		WHERE id = (
			SELECT id FROM resource_submissions
			WHERE user_id = $1 AND status = 'pending'
			ORDER BY submitted_at DESC, id DESC
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+submissionColumns,
		userID, rv.Status, rv.ReviewerID, rv.Points, rv.Notes))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNoPendingSubmission
	}
	if err != nil {
		return nil, fmt.Errorf("review submission: %w", err)
	}
	return s, nil
}

// Reopen puts a submission back to pending after a failed approval.
func (r *Repository) Reopen(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE resource_submissions
		SET status = 'pending', reviewed_by = NULL, reviewed_at = NULL,
		    points_awarded = 0, review_notes = NULL
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("reopen submission %d: %w", id, err)
	}
	return nil
}

// ListPending returns the oldest pending submissions first.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]Submission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM resource_submissions
		WHERE status = 'pending'
		ORDER BY submitted_at, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM resource_submissions WHERE status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending: %w", err)
	}
	return n, nil
}
