package discord

import (
	"strconv"
	"strings"
)

// ParseUserID accepts "<@123>", "<@!123>" or a bare numeric ID.
func ParseUserID(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<@") && strings.HasSuffix(arg, ">") {
		arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
		arg = strings.TrimPrefix(arg, "!")
	}
	if arg == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(arg, 10, 64); err != nil {
		return "", false
	}
	return arg, true
}

// Mention renders a user mention.
func Mention(userID string) string {
	return "<@" + userID + ">"
}
