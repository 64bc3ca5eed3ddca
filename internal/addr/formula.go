package addr

import (
	"regexp"
	"strconv"
	"strings"
)

var cellRefRe = regexp.MustCompile(`(\$?)([A-Za-z]{1,3})(\$?)([1-9][0-9]*)`)

// TranslateFormula shifts the relative cell references of a formula by
// (rowDelta, colDelta), the same way spreadsheet hosts translate formulas on
// copy ("=B2" copied one row down becomes "=B3"). Dollar-locked parts stay
// fixed, references inside string literals are left alone, and references
// shifted off the grid become #REF!.
func TranslateFormula(formula string, rowDelta, colDelta int) string {
	if rowDelta == 0 && colDelta == 0 {
		return formula
	}
	var out strings.Builder
	inString := false
	segStart := 0
	for i := 0; i < len(formula); i++ {
		if formula[i] != '"' {
			continue
		}
		if inString {
			// Doubled quotes escape a literal quote inside the string.
			if i+1 < len(formula) && formula[i+1] == '"' {
				i++
				continue
			}
			out.WriteString(formula[segStart : i+1])
			segStart = i + 1
			inString = false
		} else {
			out.WriteString(translateSegment(formula[segStart:i], rowDelta, colDelta))
			out.WriteByte('"')
			segStart = i + 1
			inString = true
		}
	}
	if inString {
		out.WriteString(formula[segStart:])
	} else {
		out.WriteString(translateSegment(formula[segStart:], rowDelta, colDelta))
	}
	return out.String()
}

func translateSegment(seg string, rowDelta, colDelta int) string {
	matches := cellRefRe.FindAllStringSubmatchIndex(seg, -1)
	if matches == nil {
		return seg
	}
	var out strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !isRefBoundary(seg, start, end) {
			continue
		}
		out.WriteString(seg[last:start])

		colLock := seg[m[2]:m[3]] == "$"
		letters := seg[m[4]:m[5]]
		rowLock := seg[m[6]:m[7]] == "$"
		digits := seg[m[8]:m[9]]

		col := LetterToColumn(letters)
		row, _ := strconv.Atoi(digits)
		row--
		if !colLock {
			col += colDelta
		}
		if !rowLock {
			row += rowDelta
		}
		if row < 0 || col < 0 || row >= MaxRows || col >= MaxColumns {
			out.WriteString("#REF!")
			last = end
			continue
		}
		if colLock {
			out.WriteByte('$')
		}
		out.WriteString(ColumnToLetter(col))
		if rowLock {
			out.WriteByte('$')
		}
		out.WriteString(strconv.Itoa(row + 1))
		last = end
	}
	out.WriteString(seg[last:])
	return out.String()
}

// isRefBoundary rejects matches embedded in identifiers (e.g. the "G10" in
// "LOG10") and matches immediately followed by "(", which are function calls.
func isRefBoundary(seg string, start, end int) bool {
	if start > 0 {
		c := seg[start-1]
		if isIdentByte(c) || c == '$' {
			return false
		}
	}
	if end < len(seg) {
		c := seg[end]
		if isIdentByte(c) || c == '(' {
			return false
		}
	}
	return true
}

func isIdentByte(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '.'
}
