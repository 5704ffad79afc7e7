// Package common — pluralize.go formats signed point amounts and groups digits.
package common

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSignedPoints renders a delta with an explicit sign.
//
//	FormatSignedPoints(10)  → "+10 points"
//	FormatSignedPoints(-1)  → "-1 point"
func FormatSignedPoints(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%s %s", FormatNumber(amount), PluralizePoints(amount))
	}
	return fmt.Sprintf("%s %s", FormatNumber(amount), PluralizePoints(amount))
}

// FormatNumber groups thousands with commas: 2350 → "2,350".
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}
