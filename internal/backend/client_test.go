package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPoints(t *testing.T) {
	var (
		gotPath string
		gotBody PointsUpdate
		gotKey  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(IdempotencyHeader)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := c.SyncPoints(context.Background(), "123456789", 20, "Resume upload", at)
	require.NoError(t, err)

	assert.Equal(t, "/api/users/123456789/add-points/", gotPath)
	assert.Equal(t, PointsUpdate{Points: 20, Action: "Resume upload", Timestamp: "2024-05-01T12:00:00Z"}, gotBody)
	_, err = uuid.Parse(gotKey)
	assert.NoError(t, err)
}

func TestSyncPointsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).SyncPoints(context.Background(), "1", 1, "Message sent", time.Now())
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestSyncPointsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).SyncPoints(context.Background(), "1", 1, "Message sent", time.Now())
	require.Error(t, err)
}

func TestRegisterUserAcceptsCreatedAndConflict(t *testing.T) {
	for _, code := range []int{http.StatusCreated, http.StatusConflict} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/users/register/", r.URL.Path)
			var reg Registration
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &reg))
			assert.Equal(t, "42", reg.DiscordID)
			assert.Equal(t, "ada", reg.Username)
			w.WriteHeader(code)
		}))

		err := New(srv.URL, time.Second).RegisterUser(context.Background(), Registration{
			DiscordID:   "42",
			DisplayName: "Ada",
			Username:    "ada",
			JoinedAt:    "2024-05-01T12:00:00Z",
		})
		assert.NoError(t, err, "status %d", code)
		srv.Close()
	}
}

func TestRegisterUserRejectsOtherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).RegisterUser(context.Background(), Registration{DiscordID: "42"})
	require.Error(t, err)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, 200*time.Millisecond).SyncPoints(context.Background(), "1", 1, "Message sent", time.Now())
	require.Error(t, err)
}
