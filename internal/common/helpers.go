// Package common holds small helpers used across the project:
// point formatting, number grouping and time rendering.
package common

import (
	"fmt"
	"time"
)

// PluralizePoints returns "point" for ±1 and "points" otherwise.
func PluralizePoints(n int64) string {
	if n == 1 || n == -1 {
		return "point"
	}
	return "points"
}

// FormatPoints renders a balance, e.g. FormatPoints(1500) → "1,500 points".
func FormatPoints(n int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(n), PluralizePoints(n))
}

// FormatDateTime renders t in loc as "2006-01-02 15:04".
// A nil loc means UTC.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// DiscordTimestamp returns the <t:unix:style> markup Discord renders in the
// reader's local time. Style "R" gives relative output ("in 5 minutes").
func DiscordTimestamp(t time.Time, style string) string {
	if style == "" {
		return fmt.Sprintf("<t:%d>", t.Unix())
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
