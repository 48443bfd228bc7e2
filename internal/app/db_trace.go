package app

import (
	"regexp"
	"strings"
)

// The chunked fact insert interpolates hundreds of bind markers, so traced
// statements are collapsed and capped before they reach the span attribute.
const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace is the otelsql query formatter for the warehouse
// connection.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flattened := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(flattened) <= maxTracedQueryLength {
		return flattened
	}

	return flattened[:maxTracedQueryLength] + "..."
}
