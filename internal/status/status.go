package status

import (
	"strings"

	"github.com/AlenaMolokova/smmpanel/internal/constants"
)

// Normalize maps a free-text provider status onto the internal enum. The
// provider vocabulary is not contractually fixed, so every status string the
// rest of the code ever interprets goes through here. "Partial" is checked
// before "completed": a partially completed order is still in progress.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return constants.StatusUnknown
	}

	switch {
	case strings.Contains(s, "cancel"):
		return constants.StatusCanceled
	case strings.Contains(s, "partial"),
		strings.Contains(s, "processing"),
		strings.Contains(s, "progress"):
		return constants.StatusInProgress
	case strings.Contains(s, "completed"):
		return constants.StatusCompleted
	case strings.Contains(s, "pending"),
		strings.Contains(s, "queued"),
		strings.Contains(s, "waiting"):
		return constants.StatusPending
	default:
		return constants.StatusUnknown
	}
}

// Terminal reports whether no further transition is permitted from s.
func Terminal(s string) bool {
	return s == constants.StatusCompleted || s == constants.StatusCanceled
}
