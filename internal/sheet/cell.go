// Package sheet holds the host-agnostic spreadsheet data model: cells,
// sparse styles, borders and the chart/pivot object variants. All entities
// are transient views over live host state; nothing here caches.
package sheet

import "strings"

// Metadata describes a worksheet. MaxRows/MaxColumns reflect the used range
// (0 for an empty sheet) and go stale after any structural edit, so callers
// re-fetch after such writes.
type Metadata struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	MaxRows    int    `json:"maxRows"`
	MaxColumns int    `json:"maxColumns"`
}

// Cell is the write-side input unit. A formula takes precedence over a value
// for what gets stored; the computed result is reported back separately.
type Cell struct {
	Value        any        `json:"value,omitempty" zog:"value"`
	Formula      string     `json:"formula,omitempty" zog:"formula"`
	Note         string     `json:"note,omitempty" zog:"note"`
	CellStyles   *StyleSet  `json:"cellStyles,omitempty" zog:"cellStyles"`
	BorderStyles *BorderSet `json:"borderStyles,omitempty" zog:"borderStyles"`
}

// IsEmpty reports whether the cell carries nothing to write.
func (c Cell) IsEmpty() bool {
	return c.Value == nil && c.Formula == "" && c.Note == "" && c.CellStyles == nil && c.BorderStyles == nil
}

// CanonicalFormula returns the formula with the leading "=" guaranteed.
// Formulas without it are tolerated on input but "=..." is the canonical
// form.
func (c Cell) CanonicalFormula() string {
	if c.Formula == "" || strings.HasPrefix(c.Formula, "=") {
		return c.Formula
	}
	return "=" + c.Formula
}

// EncodeCell produces the read-side cell encoding: the bare value when there
// is neither formula nor note, [value, formula] when a formula is present,
// and [value, formula, note] when a note is present. The formula is included
// only when it is non-empty and starts with "=".
func EncodeCell(value any, formula, note string) any {
	if !strings.HasPrefix(formula, "=") {
		formula = ""
	}
	if note != "" {
		return []any{value, formula, note}
	}
	if formula != "" {
		return []any{value, formula}
	}
	return value
}

// RangeResult is the per-worksheet read bundle. Cells with an empty value
// and no formula are omitted from the maps entirely.
type RangeResult struct {
	Name      string                `json:"name"`
	SheetID   int                   `json:"sheetId"`
	Dimension string                `json:"dimension"`
	Cells     map[string]any        `json:"cells"`
	Styles    map[string]*StyleSet  `json:"styles,omitempty"`
	Borders   map[string]*BorderSet `json:"borders,omitempty"`
}
