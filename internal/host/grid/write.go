package grid

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

// SetCellRange writes the grid in the contract order: values, then
// formulas, then styles/borders/notes, then the copy-to expansion, then
// resize. Recalculation runs once at the end; dependent formulas are not
// recomputed per cell.
func (g *Grid) SetCellRange(ctx context.Context, p service.WriteParams) (*service.WriteResult, error) {
	name, err := g.sheetName(p.SheetID)
	if err != nil {
		return nil, err
	}
	r, err := addr.ParseRange(p.Range)
	if err != nil {
		return nil, service.Validationf("range", "%v", err)
	}

	b := g.beginBatch(name)
	defer b.done()

	var formulaCells []string
	partial := func(step string, err error) (*service.WriteResult, error) {
		return &service.WriteResult{
			Partial: true,
			Message: fmt.Sprintf("write interrupted during %s; earlier cells were already written", step),
		}, service.HostErr(step, err)
	}

	// Values first.
	for i, row := range p.Cells {
		for j, c := range row {
			if c.Formula != "" || c.Value == nil {
				continue
			}
			cell := cellName(r.StartRow+i, r.StartCol+j)
			if err := g.file.SetCellValue(name, cell, c.Value); err != nil {
				return partial("value write", err)
			}
			b.touch(r.StartRow+i, r.StartCol+j)
		}
	}
	// Then formulas.
	for i, row := range p.Cells {
		for j, c := range row {
			if c.Formula == "" {
				continue
			}
			cell := cellName(r.StartRow+i, r.StartCol+j)
			if err := g.file.SetCellFormula(name, cell, c.CanonicalFormula()); err != nil {
				return partial("formula write", err)
			}
			formulaCells = append(formulaCells, cell)
			b.touch(r.StartRow+i, r.StartCol+j)
		}
	}
	// Then styles, borders and notes.
	for i, row := range p.Cells {
		for j, c := range row {
			cell := cellName(r.StartRow+i, r.StartCol+j)
			if c.CellStyles != nil || c.BorderStyles != nil {
				if err := g.applyStyle(name, cell, c.CellStyles, c.BorderStyles); err != nil {
					return partial("style write", err)
				}
				b.touch(r.StartRow+i, r.StartCol+j)
			}
			if c.Note != "" {
				if err := g.setNote(name, cell, c.Note); err != nil {
					return partial("note write", err)
				}
			}
		}
	}
	// Then the optional pattern expansion.
	if p.CopyToRange != "" {
		if err := g.copyRange(name, r, p.CopyToRange, b); err != nil {
			return &service.WriteResult{
				Partial: true,
				Message: "cells were written but the copy-to step failed",
			}, err
		}
	}
	// Resize runs last.
	if p.ResizeWidth != nil || p.ResizeHeight != nil {
		err := g.ResizeRange(ctx, service.ResizeParams{
			SheetID: p.SheetID,
			Range:   p.Range,
			Type:    service.ResizePoints,
			Width:   p.ResizeWidth,
			Height:  p.ResizeHeight,
		})
		if err != nil {
			return &service.WriteResult{
				Partial: true,
				Message: "cells were written but the resize step failed",
			}, err
		}
	}

	b.done()
	return &service.WriteResult{
		FormulaResults: g.recalc(name, formulaCells),
		Message:        "range written",
	}, nil
}

func (g *Grid) setNote(sheetName, cell, note string) error {
	// Replace rather than stack comments on rewrite.
	_ = g.file.DeleteComment(sheetName, cell)
	return g.file.AddComment(sheetName, excelize.Comment{
		Cell: cell,
		Text: note,
	})
}

func (g *Grid) CopyTo(ctx context.Context, sheetID int, sourceRange, destinationRange string) error {
	name, err := g.sheetName(sheetID)
	if err != nil {
		return err
	}
	src, err := addr.ParseRange(sourceRange)
	if err != nil {
		return service.Validationf("sourceRange", "%v", err)
	}
	b := g.beginBatch(name)
	defer b.done()
	return g.copyRange(name, src, destinationRange, b)
}

// copyRange tiles the source block over the destination. The component has
// no native range-copy primitive, so the pattern expansion is explicit:
// dst(r, c) = src(r % srcRows, c % srcCols), with relative formula
// references shifted by the copy offset the way a host-native copy would.
func (g *Grid) copyRange(sheetName string, src addr.Range, destination string, b *batch) error {
	dst, err := addr.ParseRange(destination)
	if err != nil {
		return service.Validationf("destinationRange", "%v", err)
	}

	type sourceCell struct {
		value   any
		formula string
		styleID int
	}
	srcCells := make([]sourceCell, src.Cells())
	for row := 0; row < src.Rows(); row++ {
		for col := 0; col < src.Cols(); col++ {
			cell := cellName(src.StartRow+row, src.StartCol+col)
			sc := sourceCell{}
			sc.formula, _ = g.file.GetCellFormula(sheetName, cell)
			if sc.formula == "" {
				// Raw values avoid number formatting, but string cells must be
				// resolved through the shared string table.
				raw, _ := g.file.GetCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
				ct, err := g.file.GetCellType(sheetName, cell)
				if err == nil && (ct == excelize.CellTypeSharedString || ct == excelize.CellTypeInlineString) {
					sc.value, _ = g.file.GetCellValue(sheetName, cell)
				} else {
					sc.value = parseScalar(raw)
				}
			}
			sc.styleID, _ = g.file.GetCellStyle(sheetName, cell)
			srcCells[row*src.Cols()+col] = sc
		}
	}

	for row := 0; row <= dst.EndRow-dst.StartRow; row++ {
		for col := 0; col <= dst.EndCol-dst.StartCol; col++ {
			sc := srcCells[(row%src.Rows())*src.Cols()+col%src.Cols()]
			dstRow := dst.StartRow + row
			dstCol := dst.StartCol + col
			cell := cellName(dstRow, dstCol)
			if sc.formula != "" {
				rowDelta := dstRow - (src.StartRow + row%src.Rows())
				colDelta := dstCol - (src.StartCol + col%src.Cols())
				translated := addr.TranslateFormula(canonicalFormula(sc.formula), rowDelta, colDelta)
				if err := g.file.SetCellFormula(sheetName, cell, translated); err != nil {
					return service.HostErr("copy formula", err)
				}
			} else if err := g.file.SetCellValue(sheetName, cell, sc.value); err != nil {
				return service.HostErr("copy value", err)
			}
			if sc.styleID != 0 {
				if err := g.file.SetCellStyle(sheetName, cell, cell, sc.styleID); err != nil {
					return service.HostErr("copy style", err)
				}
			}
			b.touch(dstRow, dstCol)
		}
	}
	return nil
}

func (g *Grid) ClearCellRange(ctx context.Context, sheetID int, rangeA1 string, clear service.ClearType) error {
	name, err := g.sheetName(sheetID)
	if err != nil {
		return err
	}
	r, err := addr.ParseRange(rangeA1)
	if err != nil {
		return service.Validationf("range", "%v", err)
	}
	if used, ok, _ := g.usedRange(name); ok {
		r = r.Clamp(used.EndRow, used.EndCol)
	} else {
		return nil
	}

	for row := r.StartRow; row <= r.EndRow; row++ {
		for col := r.StartCol; col <= r.EndCol; col++ {
			cell := cellName(row, col)
			if clear == service.ClearContents || clear == service.ClearAll {
				if err := g.file.SetCellFormula(name, cell, ""); err != nil {
					return service.HostErr("clear formula", err)
				}
				if err := g.file.SetCellValue(name, cell, nil); err != nil {
					return service.HostErr("clear value", err)
				}
				_ = g.file.DeleteComment(name, cell)
			}
			if clear == service.ClearFormats || clear == service.ClearAll {
				if err := g.clearFormats(name, cell); err != nil {
					return service.HostErr("clear formats", err)
				}
			}
		}
	}
	return nil
}

func (g *Grid) ResizeRange(ctx context.Context, p service.ResizeParams) error {
	name, err := g.sheetName(p.SheetID)
	if err != nil {
		return err
	}
	if p.Type == service.ResizeAutofit {
		// The in-memory component has no text measurement, so autofit would
		// be a guess. Refuse instead of producing wrong widths.
		return service.Unsupportedf("autofit resize is not supported by the grid backend")
	}
	r := addr.Range{EndRow: addr.MaxRows - 1, EndCol: addr.MaxColumns - 1}
	if p.Range != "" {
		if r, err = addr.ParseRange(p.Range); err != nil {
			return service.Validationf("range", "%v", err)
		}
	}
	if used, ok, _ := g.usedRange(name); ok {
		r = r.Clamp(used.EndRow, used.EndCol)
	}

	width, height := p.Width, p.Height
	if p.Type == service.ResizeStandard {
		std := defaultColWidth
		stdH := defaultRowHeight
		width, height = &std, &stdH
	}
	if width != nil {
		start := addr.ColumnToLetter(r.StartCol)
		end := addr.ColumnToLetter(r.EndCol)
		if err := g.file.SetColWidth(name, start, end, *width); err != nil {
			return service.HostErr("set column width", err)
		}
	}
	if height != nil {
		for row := r.StartRow; row <= r.EndRow; row++ {
			if err := g.file.SetRowHeight(name, row+1, *height); err != nil {
				return service.HostErr("set row height", err)
			}
		}
	}
	return nil
}

// Component defaults for the standard resize.
const (
	defaultColWidth  = 8.43
	defaultRowHeight = 15.0
)
