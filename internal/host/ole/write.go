package ole

import (
	"context"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

func (d *Desktop) SetCellRange(ctx context.Context, p service.WriteParams) (*service.WriteResult, error) {
	ws, err := d.sheet(p.SheetID)
	if err != nil {
		return nil, err
	}
	defer ws.Release()
	r, err := addr.ParseRange(p.Range)
	if err != nil {
		return nil, service.Validationf("range", "%v", err)
	}

	partial := func(step string, err error) (*service.WriteResult, error) {
		return &service.WriteResult{
			Partial: true,
			Message: fmt.Sprintf("write interrupted during %s; earlier cells were already written", step),
		}, service.HostErr(step, err)
	}

	var formulaCells []string
	// Values first.
	for i, row := range p.Cells {
		for j, c := range row {
			if c.Formula != "" || c.Value == nil {
				continue
			}
			if err := putCell(ws, addr.CellName(r.StartRow+i, r.StartCol+j), "Value", c.Value); err != nil {
				return partial("value write", err)
			}
		}
	}
	// Then formulas.
	for i, row := range p.Cells {
		for j, c := range row {
			if c.Formula == "" {
				continue
			}
			cell := addr.CellName(r.StartRow+i, r.StartCol+j)
			if err := putCell(ws, cell, "Formula", c.CanonicalFormula()); err != nil {
				return partial("formula write", err)
			}
			formulaCells = append(formulaCells, cell)
		}
	}
	// Then styles, borders and notes.
	for i, row := range p.Cells {
		for j, c := range row {
			cell := addr.CellName(r.StartRow+i, r.StartCol+j)
			if c.CellStyles != nil || c.BorderStyles != nil {
				rng, err := rangeOf(ws, cell)
				if err != nil {
					return partial("style write", err)
				}
				err = applyStyle(rng, c.CellStyles, c.BorderStyles)
				rng.Release()
				if err != nil {
					return partial("style write", err)
				}
			}
			if c.Note != "" {
				if err := setNote(ws, cell, c.Note); err != nil {
					return partial("note write", err)
				}
			}
		}
	}
	// Then the optional copy expansion, then resize.
	if p.CopyToRange != "" {
		if err := copyNative(ws, r.String(), p.CopyToRange); err != nil {
			return &service.WriteResult{
				Partial: true,
				Message: "cells were written but the copy-to step failed",
			}, err
		}
	}
	if p.ResizeWidth != nil || p.ResizeHeight != nil {
		err := d.ResizeRange(ctx, service.ResizeParams{
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

	return &service.WriteResult{
		FormulaResults: formulaResults(ws, formulaCells),
		Message:        "range written",
	}, nil
}

func putCell(ws *ole.IDispatch, cell, property string, value any) error {
	rng, err := rangeOf(ws, cell)
	if err != nil {
		return err
	}
	defer rng.Release()
	_, err = oleutil.PutProperty(rng, property, value)
	return err
}

// formulaResults reads the computed values back after the host recalculates.
func formulaResults(ws *ole.IDispatch, cells []string) map[string]any {
	if len(cells) == 0 {
		return nil
	}
	results := make(map[string]any, len(cells))
	for _, cell := range cells {
		rng, err := rangeOf(ws, cell)
		if err != nil {
			results[cell] = nil
			continue
		}
		results[cell] = cellValue(rng)
		rng.Release()
	}
	return results
}

func setNote(ws *ole.IDispatch, cell, note string) error {
	rng, err := rangeOf(ws, cell)
	if err != nil {
		return err
	}
	defer rng.Release()
	// Drop any existing comment so the note replaces instead of failing.
	if v, err := oleutil.GetProperty(rng, "Comment"); err == nil && v.VT != ole.VT_NULL && v.VT != ole.VT_EMPTY {
		if comment := v.ToIDispatch(); comment != nil {
			oleutil.CallMethod(comment, "Delete")
			comment.Release()
		}
	}
	_, err = oleutil.CallMethod(rng, "AddComment", note)
	return err
}

func (d *Desktop) CopyTo(ctx context.Context, sheetID int, sourceRange, destinationRange string) error {
	ws, err := d.sheet(sheetID)
	if err != nil {
		return err
	}
	defer ws.Release()
	if _, err := addr.ParseRange(sourceRange); err != nil {
		return service.Validationf("sourceRange", "%v", err)
	}
	if _, err := addr.ParseRange(destinationRange); err != nil {
		return service.Validationf("destinationRange", "%v", err)
	}
	return copyNative(ws, sourceRange, destinationRange)
}

// copyNative uses the host's own range copy, so relative references
// translate and a larger destination tiles the source.
func copyNative(ws *ole.IDispatch, sourceRange, destinationRange string) error {
	src, err := rangeOf(ws, sourceRange)
	if err != nil {
		return err
	}
	defer src.Release()
	dst, err := rangeOf(ws, destinationRange)
	if err != nil {
		return err
	}
	defer dst.Release()
	if _, err := oleutil.CallMethod(src, "Copy", dst); err != nil {
		return service.HostErr("copy", err)
	}
	return nil
}

func (d *Desktop) ClearCellRange(ctx context.Context, sheetID int, rangeA1 string, clear service.ClearType) error {
	ws, err := d.sheet(sheetID)
	if err != nil {
		return err
	}
	defer ws.Release()
	if _, err := addr.ParseRange(rangeA1); err != nil {
		return service.Validationf("range", "%v", err)
	}
	rng, err := rangeOf(ws, rangeA1)
	if err != nil {
		return err
	}
	defer rng.Release()

	method := "Clear"
	switch clear {
	case service.ClearContents:
		method = "ClearContents"
	case service.ClearFormats:
		method = "ClearFormats"
	}
	if _, err := oleutil.CallMethod(rng, method); err != nil {
		return service.HostErr("clear", err)
	}
	return nil
}

func (d *Desktop) ResizeRange(ctx context.Context, p service.ResizeParams) error {
	ws, err := d.sheet(p.SheetID)
	if err != nil {
		return err
	}
	defer ws.Release()

	reference := p.Range
	if reference == "" {
		if used, ok := usedRange(ws); ok {
			reference = used.String()
		} else {
			return nil
		}
	} else if _, err := addr.ParseRange(reference); err != nil {
		return service.Validationf("range", "%v", err)
	}
	rng, err := rangeOf(ws, reference)
	if err != nil {
		return err
	}
	defer rng.Release()

	columns := oleutil.MustGetProperty(rng, "EntireColumn").ToIDispatch()
	defer columns.Release()
	rows := oleutil.MustGetProperty(rng, "EntireRow").ToIDispatch()
	defer rows.Release()

	switch p.Type {
	case service.ResizeAutofit:
		if _, err := oleutil.CallMethod(columns, "AutoFit"); err != nil {
			return service.HostErr("autofit", err)
		}
		_, _ = oleutil.CallMethod(rows, "AutoFit")
	case service.ResizeStandard:
		oleutil.PutProperty(columns, "UseStandardWidth", true)
		oleutil.PutProperty(rows, "UseStandardHeight", true)
	default:
		if p.Width != nil {
			if _, err := oleutil.PutProperty(columns, "ColumnWidth", *p.Width); err != nil {
				return service.HostErr("set column width", err)
			}
		}
		if p.Height != nil {
			if _, err := oleutil.PutProperty(rows, "RowHeight", *p.Height); err != nil {
				return service.HostErr("set row height", err)
			}
		}
	}
	return nil
}
