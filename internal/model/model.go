package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMessageLen is the longest task message accepted by the client and the server, in runes.
const MaxMessageLen = 50

type Task struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Completed bool      `json:"completed"`
	Favorite  bool      `json:"favorite"`
	Created   time.Time `json:"created"`
}

// NormalizeMessage trims surrounding whitespace and folds newlines into spaces.
// Task messages are single-line.
func NormalizeMessage(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// MessageLen counts runes, not bytes.
func MessageLen(s string) int {
	return utf8.RuneCountInString(s)
}
