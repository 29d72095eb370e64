package services

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the option closest to name, or "" when nothing is close.
// Matching is case-insensitive. A case-only difference always matches.
func Suggest(name string, options []string) string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return ""
	}

	// Allow roughly one edit per three characters, at least two.
	maxDistance := len(needle) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	best := ""
	bestDistance := maxDistance + 1
	for _, option := range options {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(option))
		if d < bestDistance {
			best = option
			bestDistance = d
		}
	}
	return best
}
