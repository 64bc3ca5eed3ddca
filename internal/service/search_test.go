package service

import "testing"

func searchFixture(n int) []SearchMatch {
	matches := make([]SearchMatch, n)
	for i := range matches {
		matches[i] = SearchMatch{SheetID: 0, Address: "A" + string(rune('1'+i)), Value: "v"}
	}
	return matches
}

func TestPaginateMatches(t *testing.T) {
	matches := make([]SearchMatch, 7)
	for i := range matches {
		matches[i].Address = "A" + string(rune('1'+i))
	}

	first := PaginateMatches(matches, 3, 0)
	if len(first.Matches) != 3 || first.TotalFound != 7 || !first.HasMore || first.NextOffset != 3 {
		t.Fatalf("first page = %+v", first)
	}
	second := PaginateMatches(matches, 3, first.NextOffset)
	if len(second.Matches) != 3 || !second.HasMore || second.NextOffset != 6 {
		t.Fatalf("second page = %+v", second)
	}
	last := PaginateMatches(matches, 3, second.NextOffset)
	if len(last.Matches) != 1 || last.HasMore || last.NextOffset != 0 {
		t.Fatalf("last page = %+v", last)
	}

	// Pages must be disjoint and in order.
	if first.Matches[2].Address == second.Matches[0].Address {
		t.Fatal("pages overlap")
	}
	if second.Matches[0].Address != matches[3].Address {
		t.Fatalf("second page starts at %s", second.Matches[0].Address)
	}
}

func TestPaginateMatchesEdges(t *testing.T) {
	// Offset past the end yields an empty, non-nil page.
	r := PaginateMatches(searchFixture(2), 10, 5)
	if r.Matches == nil || len(r.Matches) != 0 || r.HasMore || r.TotalFound != 2 {
		t.Fatalf("past-end page = %+v", r)
	}

	// No matches at all.
	r = PaginateMatches(nil, 10, 0)
	if r.Matches == nil || len(r.Matches) != 0 || r.TotalFound != 0 {
		t.Fatalf("empty page = %+v", r)
	}

	// maxResults <= 0 falls back to the default page size.
	r = PaginateMatches(searchFixture(5), 0, 0)
	if len(r.Matches) != 5 || r.HasMore {
		t.Fatalf("default-limit page = %+v", r)
	}
}

func TestMatchesTerm(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		term       string
		matchCase  bool
		entireCell bool
		want       bool
	}{
		{"substring", "Gross Revenue", "revenue", false, false, true},
		{"substring case sensitive miss", "Gross Revenue", "revenue", true, false, false},
		{"substring case sensitive hit", "Gross Revenue", "Revenue", true, false, true},
		{"entire cell hit", "total", "Total", false, true, true},
		{"entire cell miss on substring", "subtotal", "total", false, true, false},
		{"no match", "abc", "xyz", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesTerm(tt.value, tt.term, tt.matchCase, tt.entireCell)
			if got != tt.want {
				t.Fatalf("MatchesTerm(%q, %q, %v, %v) = %v", tt.value, tt.term, tt.matchCase, tt.entireCell, got)
			}
		})
	}
}
