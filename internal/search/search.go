// Package search runs best-effort web searches and renders the results as
// plain text findings suitable for embedding in a prompt.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSearch matches every search failure.
	ErrSearch = errors.New("search failed")

	// ErrNoResults is returned when a search succeeded but found nothing.
	ErrNoResults = fmt.Errorf("%w: no results", ErrSearch)
)

// Searcher returns findings for a query.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Observer receives search outcomes. Implementations must be safe for
// concurrent use.
type Observer interface {
	ObserveSearch(outcome string, seconds float64)
	ObserveSearchCache(hit bool)
}

// Result is one web result.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Format renders results as a numbered list.
func Format(results []Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "   Source: %s\n", r.URL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
