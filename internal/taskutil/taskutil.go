package taskutil

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"scheduler-cli/internal/model"
)

var ErrEmptyMessage = errors.New("invalid message: empty")

// ValidateMessage normalizes a task message and enforces the length bound.
func ValidateMessage(s string) (string, error) {
	s = model.NormalizeMessage(s)
	if s == "" {
		return "", ErrEmptyMessage
	}
	if n := model.MessageLen(s); n > model.MaxMessageLen {
		return "", fmt.Errorf("invalid message: %d characters (max %d)", n, model.MaxMessageLen)
	}
	return s, nil
}

// SortByDate orders tasks newest first. Ties keep their input order.
func SortByDate(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Created.After(out[j].Created)
	})
	return out
}

// SortByGroup returns a copy ordered as: active favorites, active, completed favorites, completed.
// Each group is newest first.
func SortByGroup(tasks []model.Task) []model.Task {
	groups := make([][]model.Task, 4)
	for _, t := range tasks {
		groups[groupOf(t)] = append(groups[groupOf(t)], t)
	}
	out := make([]model.Task, 0, len(tasks))
	for _, g := range groups {
		out = append(out, SortByDate(g)...)
	}
	return out
}

func groupOf(t model.Task) int {
	switch {
	case !t.Completed && t.Favorite:
		return 0
	case !t.Completed:
		return 1
	case t.Favorite:
		return 2
	default:
		return 3
	}
}

// MatchesFilter reports whether the message contains q, ignoring case.
// Whitespace in q is significant; only an empty filter matches everything.
func MatchesFilter(t model.Task, q string) bool {
	q = strings.ToLower(q)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Message), q)
}

func Filter(tasks []model.Task, q string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if MatchesFilter(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func Incomplete(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// AllCompleted is false for an empty list.
func AllCompleted(tasks []model.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

func FindByID(tasks []model.Task, id string) (model.Task, bool) {
	id = strings.TrimSpace(id)
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}
