package storage

import (
	"sort"
	"strings"
	"time"
)

// Paginate returns the total number of matches and the requested page.
// The total is counted before the page bounds apply, so callers always see
// how many records matched. An offset past the end yields an empty page.
func Paginate[T any](items []T, page Page) (int, []T) {
	total := len(items)
	if page.Offset >= total {
		return total, nil
	}
	items = items[page.Offset:]
	if page.Limit != nil && *page.Limit < len(items) {
		if *page.Limit <= 0 {
			return total, nil
		}
		items = items[:*page.Limit]
	}
	return total, items
}

// SortByCreation orders a listing by creation time (ID as tiebreak) so
// pagination over map-backed stores is deterministic.
func SortByCreation[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if a.Equal(b) {
			return id(items[i]) < id(items[j])
		}
		return a.Before(b)
	})
}

// MatchSubstring reports whether text occurs in any of the fields,
// case-folded unless caseSensitive. All backends route substring search
// through this helper so their results agree.
func MatchSubstring(text string, caseSensitive bool, fields ...string) bool {
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	for _, field := range fields {
		if !caseSensitive {
			field = strings.ToLower(field)
		}
		if strings.Contains(field, text) {
			return true
		}
	}
	return false
}
