// Package addr implements A1-notation range parsing and column letter math.
// All coordinates are zero-based and ranges are inclusive on both ends.
package addr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Conventional grid bounds. Open-ended ranges ("A:C", "5:10" and the mixed
// forms) resolve to these limits; adapters clamp to the used range before
// touching the host.
const (
	MaxRows    = 1048576
	MaxColumns = 16384
)

// Range is a parsed A1 range.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Rows returns the number of rows the range spans.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns the range spans.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// Cells returns the total cell count of the range.
func (r Range) Cells() int { return r.Rows() * r.Cols() }

// Contains reports whether the cell at (row, col) lies within the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.StartRow && row <= r.EndRow && col >= r.StartCol && col <= r.EndCol
}

// Clamp restricts the range to the given bounds. Open-ended ranges are cut
// down to the used range this way.
func (r Range) Clamp(maxRow, maxCol int) Range {
	if r.EndRow > maxRow {
		r.EndRow = maxRow
	}
	if r.EndCol > maxCol {
		r.EndCol = maxCol
	}
	if r.StartRow > r.EndRow {
		r.StartRow = r.EndRow
	}
	if r.StartCol > r.EndCol {
		r.StartCol = r.EndCol
	}
	return r
}

// String formats the range back to A1 notation. Single cells collapse to a
// bare cell reference.
func (r Range) String() string {
	from := CellName(r.StartRow, r.StartCol)
	to := CellName(r.EndRow, r.EndCol)
	if from == to {
		return from
	}
	return from + ":" + to
}

// cellPartRe matches one side of a range: a cell ref, a bare column, or a
// bare row. Dollar locks are accepted and ignored.
var cellPartRe = regexp.MustCompile(`^(?:\$?([A-Z]{1,3}))?(?:\$?([1-9][0-9]*))?$`)

type rangePart struct {
	row, col int
	hasRow   bool
	hasCol   bool
}

func parsePart(s string) (rangePart, error) {
	m := cellPartRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return rangePart{}, fmt.Errorf("invalid cell reference %q", s)
	}
	var p rangePart
	if m[1] != "" {
		p.col = LetterToColumn(m[1])
		p.hasCol = true
		if p.col >= MaxColumns {
			return rangePart{}, fmt.Errorf("column %s out of bounds", m[1])
		}
	}
	if m[2] != "" {
		row, err := strconv.Atoi(m[2])
		if err != nil || row > MaxRows {
			return rangePart{}, fmt.Errorf("row %s out of bounds", m[2])
		}
		p.row = row - 1
		p.hasRow = true
	}
	return p, nil
}

// ParseRange parses the six surface grammars: "A1", "A1:C10", "A:C", "5:10",
// "A1:B" and "A:1". Column letters are case-insensitive and whitespace is
// stripped. Missing bounds resolve to the grid limits; reversed ranges are
// normalized so StartRow <= EndRow and StartCol <= EndCol.
func ParseRange(a1 string) (Range, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(a1), ""))
	if s == "" {
		return Range{}, fmt.Errorf("empty range")
	}
	from, to, hasColon := strings.Cut(s, ":")
	if !hasColon {
		to = from
	}
	first, err := parsePart(from)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", a1, err)
	}
	second, err := parsePart(to)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", a1, err)
	}
	if !hasColon && (!first.hasRow || !first.hasCol) {
		return Range{}, fmt.Errorf("invalid range %q: single reference must name a cell", a1)
	}

	r := Range{EndRow: MaxRows - 1, EndCol: MaxColumns - 1}
	if first.hasRow {
		r.StartRow = first.row
	}
	if first.hasCol {
		r.StartCol = first.col
	}
	if second.hasRow {
		r.EndRow = second.row
	}
	if second.hasCol {
		r.EndCol = second.col
	}
	if r.StartRow > r.EndRow {
		r.StartRow, r.EndRow = r.EndRow, r.StartRow
	}
	if r.StartCol > r.EndCol {
		r.StartCol, r.EndCol = r.EndCol, r.StartCol
	}
	return r, nil
}

// ColumnToLetter converts a zero-based column index to its letter form
// (0 -> "A", 25 -> "Z", 26 -> "AA").
func ColumnToLetter(index int) string {
	n := index + 1
	result := ""
	for n > 0 {
		n--
		result = string(rune('A'+n%26)) + result
		n /= 26
	}
	return result
}

// LetterToColumn converts column letters to a zero-based index ("A" -> 0).
// Inverse of ColumnToLetter for any valid letter string.
func LetterToColumn(letters string) int {
	col := 0
	for _, c := range strings.ToUpper(letters) {
		col = col*26 + int(c-'A'+1)
	}
	return col - 1
}

// CellName formats a zero-based (row, col) pair as a cell reference.
func CellName(row, col int) string {
	return ColumnToLetter(col) + strconv.Itoa(row+1)
}

// ParseCell parses a single cell reference like "B2" into zero-based
// coordinates.
func ParseCell(a1 string) (row, col int, err error) {
	r, err := ParseRange(a1)
	if err != nil {
		return 0, 0, err
	}
	if r.StartRow != r.EndRow || r.StartCol != r.EndCol {
		return 0, 0, fmt.Errorf("not a single cell: %s", a1)
	}
	return r.StartRow, r.StartCol, nil
}
