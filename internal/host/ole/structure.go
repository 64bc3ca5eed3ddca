package ole

import (
	"context"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

func (d *Desktop) ModifySheetStructure(ctx context.Context, p service.StructureParams) error {
	ws, err := d.sheet(p.SheetID)
	if err != nil {
		return err
	}
	defer ws.Release()

	switch p.Operation {
	case service.StructInsert:
		return insertSpan(ws, p)
	case service.StructDelete:
		span, err := entireSpan(ws, p.Reference, p.Dimension)
		if err != nil {
			return err
		}
		defer span.Release()
		if _, err := oleutil.CallMethod(span, "Delete"); err != nil {
			return service.HostErr("delete", err)
		}
	case service.StructHide, service.StructUnhide:
		span, err := entireSpan(ws, p.Reference, p.Dimension)
		if err != nil {
			return err
		}
		defer span.Release()
		if _, err := oleutil.PutProperty(span, "Hidden", p.Operation == service.StructHide); err != nil {
			return service.HostErr("set visibility", err)
		}
	case service.StructFreeze:
		return d.freeze(ws, p.Dimension, p.Count)
	case service.StructUnfreeze:
		return d.unfreeze(ws)
	default:
		return service.Validationf("operation", "unknown operation %q", p.Operation)
	}
	return nil
}

// entireSpan resolves a reference ("2:5" or "B:C") to the EntireRow or
// EntireColumn range it names.
func entireSpan(ws *ole.IDispatch, reference string, dim service.Dimension) (*ole.IDispatch, error) {
	if _, err := addr.ParseRange(reference); err != nil {
		return nil, service.Validationf("reference", "%v", err)
	}
	rng, err := rangeOf(ws, reference)
	if err != nil {
		return nil, err
	}
	defer rng.Release()
	property := "EntireRow"
	if dim == service.DimColumns {
		property = "EntireColumn"
	}
	return oleutil.MustGetProperty(rng, property).ToIDispatch(), nil
}

func insertSpan(ws *ole.IDispatch, p service.StructureParams) error {
	r, err := addr.ParseRange(p.Reference)
	if err != nil {
		return service.Validationf("reference", "%v", err)
	}
	count := p.Count
	if count <= 0 {
		if p.Dimension == service.DimRows {
			count = r.Rows()
		} else {
			count = r.Cols()
		}
	}
	// The host inserts before the anchor; "after" moves the anchor past the
	// referenced span.
	var anchor string
	if p.Dimension == service.DimRows {
		row := r.StartRow
		if p.Position == "after" {
			row = r.EndRow + 1
		}
		anchor = fmt.Sprintf("%d:%d", row+1, row+count)
	} else {
		col := r.StartCol
		if p.Position == "after" {
			col = r.EndCol + 1
		}
		anchor = fmt.Sprintf("%s:%s", addr.ColumnToLetter(col), addr.ColumnToLetter(col+count-1))
	}
	span, err := entireSpan(ws, anchor, p.Dimension)
	if err != nil {
		return err
	}
	defer span.Release()
	if _, err := oleutil.CallMethod(span, "Insert"); err != nil {
		return service.HostErr("insert", err)
	}
	return nil
}

// freeze splits the active window below/right of the given row or column
// count. The sheet must be active for the window split to land on it.
func (d *Desktop) freeze(ws *ole.IDispatch, dim service.Dimension, count int) error {
	_, _ = oleutil.CallMethod(ws, "Activate")
	window := oleutil.MustGetProperty(d.application, "ActiveWindow").ToIDispatch()
	defer window.Release()
	oleutil.MustPutProperty(window, "FreezePanes", false)
	if dim == service.DimRows {
		oleutil.MustPutProperty(window, "SplitRow", count)
		oleutil.MustPutProperty(window, "SplitColumn", 0)
	} else {
		oleutil.MustPutProperty(window, "SplitRow", 0)
		oleutil.MustPutProperty(window, "SplitColumn", count)
	}
	oleutil.MustPutProperty(window, "FreezePanes", true)
	return nil
}

func (d *Desktop) unfreeze(ws *ole.IDispatch) error {
	_, _ = oleutil.CallMethod(ws, "Activate")
	window := oleutil.MustGetProperty(d.application, "ActiveWindow").ToIDispatch()
	defer window.Release()
	oleutil.MustPutProperty(window, "FreezePanes", false)
	oleutil.MustPutProperty(window, "Split", false)
	return nil
}

func (d *Desktop) ModifyWorkbookStructure(ctx context.Context, p service.WorkbookParams) (*service.WorkbookResult, error) {
	worksheets := oleutil.MustGetProperty(d.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()
	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)

	switch p.Operation {
	case service.WbCreate:
		last := oleutil.MustGetProperty(worksheets, "Item", count).ToIDispatch()
		defer last.Release()
		v, err := oleutil.CallMethod(worksheets, "Add", nil, last)
		if err != nil {
			return nil, service.HostErr("create sheet", err)
		}
		ws := v.ToIDispatch()
		defer ws.Release()
		if _, err := oleutil.PutProperty(ws, "Name", p.SheetName); err != nil {
			return nil, service.HostErr("name sheet", err)
		}
		if p.TabColor != "" {
			setTabColor(ws, p.TabColor)
		}
		return &service.WorkbookResult{
			SheetID: count,
			Name:    p.SheetName,
			Message: fmt.Sprintf("sheet %q created", p.SheetName),
		}, nil
	case service.WbDelete:
		if count == 1 {
			return nil, service.Validationf("sheetId", "cannot delete the only sheet")
		}
		ws, err := d.sheet(*p.SheetID)
		if err != nil {
			return nil, err
		}
		defer ws.Release()
		name := oleutil.MustGetProperty(ws, "Name").ToString()
		// Suppress the confirmation dialog around the delete.
		oleutil.MustPutProperty(d.application, "DisplayAlerts", false)
		_, err = oleutil.CallMethod(ws, "Delete")
		oleutil.MustPutProperty(d.application, "DisplayAlerts", true)
		if err != nil {
			return nil, service.HostErr("delete sheet", err)
		}
		return &service.WorkbookResult{Name: name, Message: fmt.Sprintf("sheet %q deleted", name)}, nil
	case service.WbRename:
		ws, err := d.sheet(*p.SheetID)
		if err != nil {
			return nil, err
		}
		defer ws.Release()
		name := oleutil.MustGetProperty(ws, "Name").ToString()
		if _, err := oleutil.PutProperty(ws, "Name", p.NewName); err != nil {
			return nil, service.HostErr("rename sheet", err)
		}
		if p.TabColor != "" {
			setTabColor(ws, p.TabColor)
		}
		return &service.WorkbookResult{
			SheetID: *p.SheetID,
			Name:    p.NewName,
			Message: fmt.Sprintf("sheet %q renamed to %q", name, p.NewName),
		}, nil
	case service.WbDuplicate:
		ws, err := d.sheet(*p.SheetID)
		if err != nil {
			return nil, err
		}
		defer ws.Release()
		name := oleutil.MustGetProperty(ws, "Name").ToString()
		if _, err := oleutil.CallMethod(ws, "Copy", nil, ws); err != nil {
			return nil, service.HostErr("duplicate sheet", err)
		}
		copied := oleutil.MustGetProperty(worksheets, "Item", *p.SheetID+2).ToIDispatch()
		defer copied.Release()
		copyName := p.NewName
		if copyName != "" {
			if _, err := oleutil.PutProperty(copied, "Name", copyName); err != nil {
				return nil, service.HostErr("name copied sheet", err)
			}
		} else {
			copyName = oleutil.MustGetProperty(copied, "Name").ToString()
		}
		return &service.WorkbookResult{
			SheetID: *p.SheetID + 1,
			Name:    copyName,
			Message: fmt.Sprintf("sheet %q duplicated as %q", name, copyName),
		}, nil
	}
	return nil, service.Validationf("operation", "unknown operation %q", p.Operation)
}

func setTabColor(ws *ole.IDispatch, color string) {
	tab := oleutil.MustGetProperty(ws, "Tab").ToIDispatch()
	defer tab.Release()
	oleutil.PutProperty(tab, "Color", rgbToBgr(color))
}
