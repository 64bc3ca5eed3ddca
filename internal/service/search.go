package service

import "strings"

// DefaultMaxResults bounds one search page when the caller does not ask for
// a size.
const DefaultMaxResults = 100

// PaginateMatches slices a full ordered match list by offset/limit:
// disjoint contiguous pages in document order, exact total, HasMore false
// only on the last page.
func PaginateMatches(matches []SearchMatch, maxResults, offset int) *SearchResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	total := len(matches)
	if offset > total {
		offset = total
	}
	end := min(offset+maxResults, total)
	result := &SearchResult{
		Matches:    matches[offset:end],
		TotalFound: total,
		HasMore:    end < total,
	}
	if result.Matches == nil {
		result.Matches = []SearchMatch{}
	}
	if result.HasMore {
		result.NextOffset = end
	}
	return result
}

// MatchesTerm applies the search flags to one cell value.
func MatchesTerm(value, term string, matchCase, entireCell bool) bool {
	if !matchCase {
		value = strings.ToLower(value)
		term = strings.ToLower(term)
	}
	if entireCell {
		return value == term
	}
	return strings.Contains(value, term)
}
