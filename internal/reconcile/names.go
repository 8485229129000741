package reconcile

import (
	"fmt"
	"strconv"
	"strings"
)

const additionalMarker = "(Additional Print #"

// GroupName formats a group label such as "Collage (Print #2)" or "Single (Additional Print #4)".
func GroupName(templateName string, ordinal int, additional bool) string {
	if additional {
		return fmt.Sprintf("%s (Additional Print #%d)", templateName, ordinal)
	}
	return fmt.Sprintf("%s (Print #%d)", templateName, ordinal)
}

// IsAdditional reports whether a group label marks a print added beyond the package default.
func IsAdditional(groupName string) bool {
	return strings.Contains(groupName, additionalMarker)
}

// PrintNumber extracts N from a label ending in "Print #N)". It reports false for other labels.
func PrintNumber(groupName string) (int, bool) {
	i := strings.LastIndex(groupName, "Print #")
	if i < 0 || !strings.HasSuffix(groupName, ")") {
		return 0, false
	}
	n, err := strconv.Atoi(groupName[i+len("Print #") : len(groupName)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// nextOrdinal returns the number for a group appended to groups: one past both the group count
// and the highest number already used in a label, so removals never cause a repeated label.
func nextOrdinal(groups []Group) int {
	next := len(groups)
	for _, g := range groups {
		if n, ok := PrintNumber(g.Name); ok && n > next {
			next = n
		}
	}
	return next + 1
}
