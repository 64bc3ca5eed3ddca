package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
)

func mustRange(t *testing.T, a1 string) addr.Range {
	t.Helper()
	r, err := addr.ParseRange(a1)
	if err != nil {
		t.Fatalf("ParseRange(%q): %v", a1, err)
	}
	return r
}

func rangeStrings(rs []addr.Range) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

func TestSplitByCellLimit(t *testing.T) {
	tests := []struct {
		name     string
		ranges   []string
		limit    int
		wantTake []string
		wantNext []string
	}{
		{
			name:     "fits whole",
			ranges:   []string{"A1:C10"},
			limit:    100,
			wantTake: []string{"A1:C10"},
		},
		{
			name:     "split at row boundary",
			ranges:   []string{"A1:C10"},
			limit:    25,
			wantTake: []string{"A1:C8"},
			wantNext: []string{"A9:C10"},
		},
		{
			name:     "minimum one row of progress",
			ranges:   []string{"A1:J2"},
			limit:    5,
			wantTake: []string{"A1:J1"},
			wantNext: []string{"A2:J2"},
		},
		{
			name:     "second range sliced",
			ranges:   []string{"A1:B3", "D1:D10"},
			limit:    10,
			wantTake: []string{"A1:B3", "D1:D4"},
			wantNext: []string{"D5:D10"},
		},
		{
			name:     "budget exhausted exactly",
			ranges:   []string{"A1:B3", "D1:D2"},
			limit:    6,
			wantTake: []string{"A1:B3"},
			wantNext: []string{"D1:D2"},
		},
		{
			name:     "wide range deferred with followers",
			ranges:   []string{"A1:B3", "D1:Z1", "F5:F6"},
			limit:    10,
			wantTake: []string{"A1:B3"},
			wantNext: []string{"D1:Z1", "F5:F6"},
		},
		{
			name:     "zero limit uses default",
			ranges:   []string{"A1:C10"},
			limit:    0,
			wantTake: []string{"A1:C10"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := make([]addr.Range, len(tt.ranges))
			for i, s := range tt.ranges {
				parsed[i] = mustRange(t, s)
			}
			page := SplitByCellLimit(parsed, tt.limit)
			if got := rangeStrings(page.Take); !reflect.DeepEqual(got, tt.wantTake) {
				t.Fatalf("Take = %v, want %v", got, tt.wantTake)
			}
			if got := page.NextRangeStrings(); !reflect.DeepEqual(got, tt.wantNext) {
				t.Fatalf("Next = %v, want %v", got, tt.wantNext)
			}
			if page.HasMore != (len(tt.wantNext) > 0) {
				t.Fatalf("HasMore = %v with next %v", page.HasMore, tt.wantNext)
			}
		})
	}
}

func TestSplitByCellLimitNoDoubleCount(t *testing.T) {
	// Walking the cursor to exhaustion must visit every cell exactly once.
	ranges := []addr.Range{mustRange(t, "A1:E7"), mustRange(t, "G1:G9")}
	total := 0
	for len(ranges) > 0 {
		page := SplitByCellLimit(ranges, 8)
		if len(page.Take) == 0 {
			t.Fatal("page made no progress")
		}
		for _, r := range page.Take {
			total += r.Cells()
		}
		ranges = page.Next
	}
	if total != 5*7+9 {
		t.Fatalf("visited %d cells, want %d", total, 5*7+9)
	}
}

func TestParseRanges(t *testing.T) {
	parsed, err := ParseRanges([]string{"A1", "B2:C3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 2 || parsed[1].String() != "B2:C3" {
		t.Fatalf("parsed = %v", parsed)
	}

	_, err = ParseRanges([]string{"A1", "nope"})
	if err == nil {
		t.Fatal("want error for invalid range")
	}
	var se *Error
	if !errors.As(err, &se) || se.Kind != KindValidation || se.Field != "ranges[1]" {
		t.Fatalf("got %#v", err)
	}
}
