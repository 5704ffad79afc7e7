package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2e.club/discord-bot/internal/db/postgres"
)

func TestPrintReport(t *testing.T) {
	rep := &postgres.Report{
		Tables:   []postgres.TableCount{{Table: "users", Rows: 1200}},
		TopUsers: []postgres.UserPoints{{UserID: "42", Points: 350}},
		Rewards:  []postgres.RewardRow{{ID: 1, Name: "Resume Review", Cost: 500}},
		RecentActivity: []postgres.ActivityRow{
			{UserID: "42", Action: "Message sent", Points: 1, Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		},
		SuspiciousTotal: 3,
	}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "#1 Resume Review")
	assert.Contains(t, out, "2024-05-01 12:00 42: Message sent")
	assert.Contains(t, out, "+1")
	assert.Contains(t, out, "Suspicious activities:")
}
