package service

import (
	"github.com/martinsione/spreadsheets-agent/internal/addr"
)

// Page is the outcome of budgeting a read: the range slices to fetch now and
// the remainder to hand back to the caller for a follow-up request.
type Page struct {
	Take    []addr.Range
	Next    []addr.Range
	HasMore bool
}

// NextRangeStrings formats the unprocessed remainder as A1 strings.
func (p Page) NextRangeStrings() []string {
	if len(p.Next) == 0 {
		return nil
	}
	out := make([]string, len(p.Next))
	for i, r := range p.Next {
		out[i] = r.String()
	}
	return out
}

// SplitByCellLimit consumes ranges in order against a cell budget. Ranges
// are cut at row boundaries only; a row is never split across pages and no
// cell appears twice. A range too tall for the remaining budget is sliced:
// the fitting rows go into Take and the rest is returned verbatim
// (row-sliced) in Next. When even a single row exceeds the whole budget, one
// row is taken anyway so every call makes progress.
func SplitByCellLimit(ranges []addr.Range, limit int) Page {
	if limit <= 0 {
		limit = DefaultCellLimit
	}
	page := Page{}
	budget := limit
	for i, r := range ranges {
		if budget <= 0 {
			page.Next = append(page.Next, ranges[i:]...)
			break
		}
		rowsFit := budget / r.Cols()
		if rowsFit < 1 && len(page.Take) == 0 {
			rowsFit = 1
		}
		if rowsFit >= r.Rows() {
			page.Take = append(page.Take, r)
			budget -= r.Cells()
			continue
		}
		if rowsFit >= 1 {
			taken := r
			taken.EndRow = r.StartRow + rowsFit - 1
			rest := r
			rest.StartRow = taken.EndRow + 1
			page.Take = append(page.Take, taken)
			page.Next = append(page.Next, rest)
			budget -= taken.Cells()
		} else {
			page.Next = append(page.Next, r)
		}
		if i+1 < len(ranges) {
			page.Next = append(page.Next, ranges[i+1:]...)
		}
		break
	}
	page.HasMore = len(page.Next) > 0
	return page
}

// ParseRanges parses every range string, failing on the first invalid one
// with its index in the field path.
func ParseRanges(ranges []string) ([]addr.Range, error) {
	parsed := make([]addr.Range, len(ranges))
	for i, s := range ranges {
		r, err := addr.ParseRange(s)
		if err != nil {
			return nil, Validationf(fieldIndex("ranges", i), "%v", err)
		}
		parsed[i] = r
	}
	return parsed, nil
}
