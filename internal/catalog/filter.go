package catalog

import (
	"strings"
)

// Filter returns the books matching the active selector and search query.
// A book is included iff the selector is All or equals the book's category,
// and the query is empty or is a case-insensitive substring of the title or
// the author. The result preserves the input order and is never nil.
func Filter(books []Book, selector Category, query string) []Book {
	q := strings.ToLower(query)

	out := make([]Book, 0, len(books))
	for _, b := range books {
		if selector != All && b.Category != selector {
			continue
		}
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) {
			continue
		}
		out = append(out, b)
	}
	return out
}
