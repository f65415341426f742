package domain

import "strings"

const MaxSearchHistory = 8

// SearchHistory is ordered most-recent-first.
type SearchHistory []string

// Add moves query to the front, dropping any case-insensitive duplicate and
// anything beyond MaxSearchHistory. Blank queries leave the history as is.
func (h SearchHistory) Add(query string) SearchHistory {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return h
	}

	result := make(SearchHistory, 0, MaxSearchHistory)
	result = append(result, trimmed)
	for _, entry := range h {
		if len(result) == MaxSearchHistory {
			break
		}
		if strings.EqualFold(entry, trimmed) {
			continue
		}
		result = append(result, entry)
	}

	return result
}
