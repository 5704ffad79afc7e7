package resources

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"p2e.club/discord-bot/internal/common"
	"p2e.club/discord-bot/internal/discord"
	"p2e.club/discord-bot/internal/features/ledger"
)

// PendingListLimit caps !pendingresources (an embed holds at most 25 fields).
const PendingListLimit = 25

type Store interface {
	Create(ctx context.Context, userID, description string) (*Submission, error)
	ReviewLatest(ctx context.Context, userID string, rv Review) (*Submission, error)
	Reopen(ctx context.Context, id int64) error
	ListPending(ctx context.Context, limit int) ([]Submission, error)
}

// Crediter is satisfied by ledger.Service.
type Crediter interface {
	Apply(ctx context.Context, userID string, delta int64, action string) (int64, error)
}

type Service struct {
	store     Store
	ledger    Crediter
	runner    ledger.Runner
	messenger discord.Messenger
	adminIDs  []string
	admins    discord.AdminLister
}

// NewService builds the review service. Submission alerts go to adminIDs
// and to every guild Administrator reported by admins, which may be nil.
func NewService(store Store, crediter Crediter, runner ledger.Runner, messenger discord.Messenger, adminIDs []string, admins discord.AdminLister) *Service {
	return &Service{
		store:     store,
		ledger:    crediter,
		runner:    runner,
		messenger: messenger,
		adminIDs:  adminIDs,
		admins:    admins,
	}
}

// Submit stores a pending submission and notifies the reviewers.
func (s *Service) Submit(ctx context.Context, userID, authorName, description string) (*Submission, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) < MinDescriptionLength {
		return nil, common.ErrDescriptionTooShort
	}

	sub, err := s.store.Create(ctx, userID, description)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"user_id":       userID,
		"submission_id": sub.ID,
	}).Info("resource submitted")

	embed := newSubmissionEmbed(sub, authorName)
	s.runner.Go("resource_admin_alert", func(context.Context) error {
		for _, adminID := range s.reviewers() {
			s.runner.Go("resource_admin_dm", func(context.Context) error {
				return s.messenger.DirectEmbed(adminID, embed)
			})
		}
		return nil
	})
	return sub, nil
}

// reviewers is ADMIN_IDS followed by the guild Administrators, without
// duplicates. A failed guild lookup falls back to ADMIN_IDS alone.
func (s *Service) reviewers() []string {
	ids := append([]string(nil), s.adminIDs...)
	if s.admins != nil {
		guildAdmins, err := s.admins.Administrators()
		if err != nil {
			log.WithError(err).Warn("listing guild administrators failed")
		}
		ids = append(ids, guildAdmins...)
	}

	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		log.Warn("no reviewers to notify about resource submission")
	}
	return out
}

// Approve awards points for the user's latest pending submission.
// If crediting fails the submission is reopened so it can be reviewed again.
func (s *Service) Approve(ctx context.Context, userID, reviewerID, reviewerName string, points int64, notes string) (*Submission, int64, error) {
	if points <= 0 {
		return nil, 0, common.ErrInvalidAmount
	}

	sub, err := s.store.ReviewLatest(ctx, userID, Review{
		Status:     StatusApproved,
		ReviewerID: reviewerID,
		Points:     points,
		Notes:      strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledger.Apply(ctx, userID, points, ApprovalAction(reviewerName))
	if err != nil {
		if rerr := s.store.Reopen(ctx, sub.ID); rerr != nil {
			log.WithError(rerr).WithField("submission_id", sub.ID).Error("reopen after failed approval")
		}
		return nil, 0, fmt.Errorf("credit approved resource: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"submission_id": sub.ID,
		"reviewer":      reviewerID,
		"points":        points,
	}).Info("resource approved")

	embed := approvedEmbed(points, notes)
	s.runner.Go("resource_approved_dm", func(context.Context) error {
		return s.messenger.DirectEmbed(userID, embed)
	})
	return sub, total, nil
}

// Reject closes the user's latest pending submission without points.
func (s *Service) Reject(ctx context.Context, userID, reviewerID, reason string) (*Submission, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}

	sub, err := s.store.ReviewLatest(ctx, userID, Review{
		Status:     StatusRejected,
		ReviewerID: reviewerID,
		Notes:      reason,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"submission_id": sub.ID,
		"reviewer":      reviewerID,
	}).Info("resource rejected")

	embed := rejectedEmbed(reason)
	s.runner.Go("resource_rejected_dm", func(context.Context) error {
		return s.messenger.DirectEmbed(userID, embed)
	})
	return sub, nil
}

func (s *Service) Pending(ctx context.Context) ([]Submission, error) {
	return s.store.ListPending(ctx, PendingListLimit)
}
