package services

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultSuggestionLimit is used when Suggest is called with a non-positive limit.
const DefaultSuggestionLimit = 3

// Suggest returns the names whose case-folded form starts with the case-folded
// query, in input order, truncated to limit. An empty query yields nothing.
func Suggest(query string, names []string, limit int) []string {
	if query == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	fold := cases.Fold()
	prefix := fold.String(query)

	out := make([]string, 0, limit)
	for _, name := range names {
		if strings.HasPrefix(fold.String(name), prefix) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
