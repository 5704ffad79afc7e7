package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CommandParser splits "!cmd arg1 arg2" into its parts.
type CommandParser struct {
	prefix string
}

func NewCommandParser(prefix string) *CommandParser {
	return &CommandParser{prefix: prefix}
}

// ParseCommand returns the lower-cased command word, the whitespace-split
// arguments and the raw text after the command word.
func (p *CommandParser) ParseCommand(text string) (cmd string, args []string, raw string, ok bool) {
	text = strings.TrimSpace(text)
	if p.prefix == "" || !strings.HasPrefix(text, p.prefix) {
		return "", nil, "", false
	}
	text = strings.TrimPrefix(text, p.prefix)

	// "! points" is not a command
	first, _ := utf8.DecodeRuneInString(text)
	if text == "" || unicode.IsSpace(first) {
		return "", nil, "", false
	}

	word := strings.Fields(text)[0]
	raw = strings.TrimSpace(text[len(word):])
	if raw != "" {
		args = strings.Fields(raw)
	}
	return strings.ToLower(word), args, raw, true
}
