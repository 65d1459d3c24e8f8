package app

import "strings"

const maxTracedQueryLength = 512

// formatDBQueryForTrace collapses whitespace and truncates long statements
// before they are attached to db spans.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
