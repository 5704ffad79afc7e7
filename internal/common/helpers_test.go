package common

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:             "0",
		999:           "999",
		1000:          "1,000",
		2350:          "2,350",
		1000001:       "1,000,001",
		-45210:        "-45,210",
		-7:            "-7",
		math.MinInt64: "-9,223,372,036,854,775,808",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "1 point", FormatPoints(1))
	assert.Equal(t, "0 points", FormatPoints(0))
	assert.Equal(t, "1,500 points", FormatPoints(1500))
}

func TestFormatSignedPoints(t *testing.T) {
	assert.Equal(t, "+10 points", FormatSignedPoints(10))
	assert.Equal(t, "+1 point", FormatSignedPoints(1))
	assert.Equal(t, "-1 point", FormatSignedPoints(-1))
	assert.Equal(t, "-300 points", FormatSignedPoints(-300))
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 9, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09 22:30", FormatDateTime(ts, nil))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, "2024-03-10 07:30", FormatDateTime(ts, tokyo))
}

func TestDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", DiscordTimestamp(ts, "R"))
	assert.Equal(t, "<t:1700000000>", DiscordTimestamp(ts, ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
