// Package backend talks to the community web backend: it registers new
// Discord members and mirrors every point change. All calls are best-effort;
// callers run them on the notify dispatcher and only log failures.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// IdempotencyHeader carries a fresh UUID on every request so the backend can
// discard duplicates if a proxy replays it.
const IdempotencyHeader = "X-Idempotency-Key"

// ErrDisabled is returned by callers that need the backend when BACKEND_ENABLED is off.
var ErrDisabled = errors.New("backend integration is disabled")

// Doer is the subset of heimdall's client used here.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PointsUpdate is the body of POST /api/users/{id}/add-points/.
type PointsUpdate struct {
	Points    int64  `json:"points"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

// Registration is the body of POST /api/users/register/.
type Registration struct {
	DiscordID   string `json:"discord_id"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	JoinedAt    string `json:"joined_at"`
}

// StatusError is returned when the backend answers with an unexpected status.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: unexpected status %d: %s", e.Op, e.Code, e.Body)
}

// Client is a thin JSON client for the backend API.
type Client struct {
	baseURL string
	http    Doer
}

// New builds a client with the given per-request timeout and no retries.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithDoer(baseURL, httpclient.NewClient(
		httpclient.WithHTTPTimeout(timeout),
		httpclient.WithRetryCount(0),
	))
}

// NewWithDoer builds a client on top of an existing HTTP doer.
func NewWithDoer(baseURL string, doer Doer) *Client {
	return &Client{baseURL: baseURL, http: doer}
}

// SyncPoints mirrors one committed point change. 200 is success.
func (c *Client) SyncPoints(ctx context.Context, discordID string, delta int64, action string, at time.Time) error {
	body := PointsUpdate{
		Points:    delta,
		Action:    action,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
	path := fmt.Sprintf("/api/users/%s/add-points/", url.PathEscape(discordID))

	code, err := c.post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("sync points: %w", err)
	}
	if code != http.StatusOK {
		return &StatusError{Op: "sync points", Code: code}
	}

	log.WithFields(log.Fields{
		"user_id": discordID,
		"points":  delta,
		"action":  action,
	}).Debug("points synced to backend")
	return nil
}

// RegisterUser announces a member to the backend. 201 (created) and
// 409 (already registered) are both success.
func (c *Client) RegisterUser(ctx context.Context, reg Registration) error {
	code, err := c.post(ctx, "/api/users/register/", reg)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	switch code {
	case http.StatusCreated:
		log.WithField("user_id", reg.DiscordID).Info("user registered with backend")
		return nil
	case http.StatusConflict:
		log.WithField("user_id", reg.DiscordID).Debug("user already registered with backend")
		return nil
	default:
		return &StatusError{Op: "register user", Code: code}
	}
}

func (c *Client) post(ctx context.Context, path string, payload any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if resp != nil {
		defer resp.Body.Close()
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	}
	if err != nil {
		if resp != nil {
			return resp.StatusCode, nil
		}
		return 0, err
	}
	return resp.StatusCode, nil
}
