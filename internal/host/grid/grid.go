// Package grid implements the spreadsheet service against an in-memory
// workbook component backed by excelize. Reads and writes are synchronous;
// batched mutations defer dimension bookkeeping and formula recalculation so
// dependent formulas compute once at the end of the batch, not cell-by-cell.
package grid

import (
	"context"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

type Grid struct {
	file *excelize.File
}

// New wraps an open excelize workbook.
func New(file *excelize.File) *Grid {
	return &Grid{file: file}
}

// Open opens a workbook file and returns the adapter with its release
// function.
func Open(path string) (*Grid, func(), error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, func() {}, err
	}
	return New(file), func() { file.Close() }, nil
}

func (g *Grid) BackendName() string { return "grid" }

// File exposes the underlying workbook for saving by the caller.
func (g *Grid) File() *excelize.File { return g.file }

// sheetName resolves a sheet id (zero-based worksheet position) to its name.
func (g *Grid) sheetName(sheetID int) (string, error) {
	list := g.file.GetSheetList()
	if sheetID < 0 || sheetID >= len(list) {
		return "", service.NotFoundf("sheet %d not found", sheetID)
	}
	return list[sheetID], nil
}

// usedRange parses the sheet dimension into a zero-based range. ok is false
// for an empty sheet. The dimension string is maintained by batch.done and
// stays authoritative even when every cell value is cleared; cells may still
// carry styles.
func (g *Grid) usedRange(name string) (addr.Range, bool, error) {
	dim, err := g.file.GetSheetDimension(name)
	if err != nil {
		return addr.Range{}, false, service.HostErr("get dimension", err)
	}
	if dim == "" {
		return addr.Range{}, false, nil
	}
	r, err := addr.ParseRange(dim)
	if err != nil {
		return addr.Range{}, false, nil
	}
	if r.Cells() == 1 && r.StartRow == 0 && r.StartCol == 0 {
		// A bare A1 dimension is what a fresh sheet reports; it counts as
		// used only when the cell actually holds something.
		value, _ := g.file.GetCellValue(name, "A1")
		formula, _ := g.file.GetCellFormula(name, "A1")
		styleID, _ := g.file.GetCellStyle(name, "A1")
		if value == "" && formula == "" && styleID == 0 {
			return addr.Range{}, false, nil
		}
	}
	return r, true, nil
}

func (g *Grid) GetSheets(ctx context.Context) ([]sheet.Metadata, error) {
	list := g.file.GetSheetList()
	metas := make([]sheet.Metadata, len(list))
	for i, name := range list {
		meta := sheet.Metadata{ID: i, Name: name}
		if used, ok, err := g.usedRange(name); err == nil && ok {
			meta.MaxRows = used.EndRow + 1
			meta.MaxColumns = used.EndCol + 1
		}
		metas[i] = meta
	}
	return metas, nil
}

// batch groups a run of mutations: the sheet dimension is maintained once at
// the end instead of per cell, and formula recalculation is deferred until
// done is called. done must run on every exit path or the workbook is left
// with a stale dimension.
type batch struct {
	g       *Grid
	sheet   string
	minRow  int
	minCol  int
	maxRow  int
	maxCol  int
	touched bool
}

func (g *Grid) beginBatch(sheetName string) *batch {
	return &batch{g: g, sheet: sheetName}
}

func (b *batch) touch(row, col int) {
	if !b.touched {
		b.minRow, b.maxRow = row, row
		b.minCol, b.maxCol = col, col
		b.touched = true
		return
	}
	b.minRow = min(b.minRow, row)
	b.maxRow = max(b.maxRow, row)
	b.minCol = min(b.minCol, col)
	b.maxCol = max(b.maxCol, col)
}

// done extends the sheet dimension over everything the batch touched.
func (b *batch) done() {
	if !b.touched {
		return
	}
	ext := addr.Range{StartRow: b.minRow, StartCol: b.minCol, EndRow: b.maxRow, EndCol: b.maxCol}
	if used, ok, _ := b.g.usedRange(b.sheet); ok {
		ext.StartRow = min(ext.StartRow, used.StartRow)
		ext.StartCol = min(ext.StartCol, used.StartCol)
		ext.EndRow = max(ext.EndRow, used.EndRow)
		ext.EndCol = max(ext.EndCol, used.EndCol)
	}
	_ = b.g.file.SetSheetDimension(b.sheet, ext.String())
}

// recalc computes the given formula cells once after a batch of writes and
// returns their values keyed by A1 address.
func (g *Grid) recalc(sheetName string, cells []string) map[string]any {
	if len(cells) == 0 {
		return nil
	}
	results := make(map[string]any, len(cells))
	for _, cell := range cells {
		value, err := g.file.CalcCellValue(sheetName, cell)
		if err != nil {
			results[cell] = nil
			continue
		}
		results[cell] = parseScalar(value)
	}
	return results
}

// parseScalar turns excelize's string cell values into typed scalars.
func parseScalar(value string) any {
	if value == "" {
		return ""
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	switch value {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	return value
}

// cellName converts zero-based coordinates to the 1-based excelize form.
func cellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

// ActivateSheet makes the sheet active. Missing sheets are ignored: this is
// a UI hint, not a mutation.
func (g *Grid) ActivateSheet(ctx context.Context, sheetID int) error {
	if sheetID >= 0 && sheetID < len(g.file.GetSheetList()) {
		g.file.SetActiveSheet(sheetID)
	}
	return nil
}

// SelectRange is a no-op: the in-memory component has no selection state.
func (g *Grid) SelectRange(ctx context.Context, sheetID int, rangeA1 string) error {
	return nil
}

// ClearSelection is a no-op for the same reason.
func (g *Grid) ClearSelection(ctx context.Context) error {
	return nil
}

func canonicalFormula(formula string) string {
	if strings.HasPrefix(formula, "=") {
		return formula
	}
	return "=" + formula
}
