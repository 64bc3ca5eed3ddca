package grid

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

// refSpan resolves a structure reference ("2:5" or "B:C") to a start index
// and count along the given dimension, both zero-based.
func refSpan(reference string, dim service.Dimension) (int, int, error) {
	r, err := addr.ParseRange(reference)
	if err != nil {
		return 0, 0, service.Validationf("reference", "%v", err)
	}
	if dim == service.DimRows {
		return r.StartRow, r.Rows(), nil
	}
	return r.StartCol, r.Cols(), nil
}

func (g *Grid) ModifySheetStructure(ctx context.Context, p service.StructureParams) error {
	name, err := g.sheetName(p.SheetID)
	if err != nil {
		return err
	}

	switch p.Operation {
	case service.StructInsert:
		start, count, err := refSpan(p.Reference, p.Dimension)
		if err != nil {
			return err
		}
		if p.Count > 0 {
			count = p.Count
		}
		// Insertion lands before the reference by default; "after" shifts
		// the anchor past the referenced span.
		after := p.Position == "after"
		if p.Dimension == service.DimRows {
			row := start + 1
			if after {
				r, _ := addr.ParseRange(p.Reference)
				row = r.EndRow + 2
			}
			if err := g.file.InsertRows(name, row, count); err != nil {
				return service.HostErr("insert rows", err)
			}
		} else {
			col := start
			if after {
				r, _ := addr.ParseRange(p.Reference)
				col = r.EndCol + 1
			}
			if err := g.file.InsertCols(name, addr.ColumnToLetter(col), count); err != nil {
				return service.HostErr("insert columns", err)
			}
		}
	case service.StructDelete:
		start, count, err := refSpan(p.Reference, p.Dimension)
		if err != nil {
			return err
		}
		// Delete back to front so indexes stay stable.
		for i := count - 1; i >= 0; i-- {
			if p.Dimension == service.DimRows {
				err = g.file.RemoveRow(name, start+i+1)
			} else {
				err = g.file.RemoveCol(name, addr.ColumnToLetter(start+i))
			}
			if err != nil {
				return service.HostErr("delete", err)
			}
		}
	case service.StructHide, service.StructUnhide:
		start, count, err := refSpan(p.Reference, p.Dimension)
		if err != nil {
			return err
		}
		visible := p.Operation == service.StructUnhide
		for i := 0; i < count; i++ {
			if p.Dimension == service.DimRows {
				err = g.file.SetRowVisible(name, start+i+1, visible)
			} else {
				err = g.file.SetColVisible(name, addr.ColumnToLetter(start+i), visible)
			}
			if err != nil {
				return service.HostErr("set visibility", err)
			}
		}
	case service.StructFreeze:
		return g.freeze(name, p.Dimension, p.Count)
	case service.StructUnfreeze:
		if err := g.file.SetPanes(name, &excelize.Panes{Freeze: false}); err != nil {
			return service.HostErr("unfreeze panes", err)
		}
	default:
		return service.Validationf("operation", "unknown operation %q", p.Operation)
	}
	return nil
}

func (g *Grid) freeze(sheetName string, dim service.Dimension, count int) error {
	panes := &excelize.Panes{Freeze: true, ActivePane: "bottomRight"}
	if dim == service.DimRows {
		panes.YSplit = count
		panes.TopLeftCell = cellName(count, 0)
	} else {
		panes.XSplit = count
		panes.TopLeftCell = cellName(0, count)
	}
	if err := g.file.SetPanes(sheetName, panes); err != nil {
		return service.HostErr("freeze panes", err)
	}
	return nil
}

func (g *Grid) ModifyWorkbookStructure(ctx context.Context, p service.WorkbookParams) (*service.WorkbookResult, error) {
	switch p.Operation {
	case service.WbCreate:
		idx, err := g.file.NewSheet(p.SheetName)
		if err != nil {
			return nil, service.HostErr("create sheet", err)
		}
		if p.TabColor != "" {
			if err := g.setTabColor(p.SheetName, p.TabColor); err != nil {
				return nil, err
			}
		}
		return &service.WorkbookResult{
			SheetID: g.positionOf(idx),
			Name:    p.SheetName,
			Message: fmt.Sprintf("sheet %q created", p.SheetName),
		}, nil
	case service.WbDelete:
		name, err := g.sheetName(*p.SheetID)
		if err != nil {
			return nil, err
		}
		if len(g.file.GetSheetList()) == 1 {
			return nil, service.Validationf("sheetId", "cannot delete the only sheet")
		}
		if err := g.file.DeleteSheet(name); err != nil {
			return nil, service.HostErr("delete sheet", err)
		}
		return &service.WorkbookResult{Name: name, Message: fmt.Sprintf("sheet %q deleted", name)}, nil
	case service.WbRename:
		name, err := g.sheetName(*p.SheetID)
		if err != nil {
			return nil, err
		}
		if err := g.file.SetSheetName(name, p.NewName); err != nil {
			return nil, service.HostErr("rename sheet", err)
		}
		if p.TabColor != "" {
			if err := g.setTabColor(p.NewName, p.TabColor); err != nil {
				return nil, err
			}
		}
		return &service.WorkbookResult{
			SheetID: *p.SheetID,
			Name:    p.NewName,
			Message: fmt.Sprintf("sheet %q renamed to %q", name, p.NewName),
		}, nil
	case service.WbDuplicate:
		name, err := g.sheetName(*p.SheetID)
		if err != nil {
			return nil, err
		}
		copyName := p.NewName
		if copyName == "" {
			copyName = name + " (2)"
		}
		idx, err := g.file.NewSheet(copyName)
		if err != nil {
			return nil, service.HostErr("duplicate sheet", err)
		}
		srcIdx, err := g.file.GetSheetIndex(name)
		if err != nil {
			return nil, service.HostErr("duplicate sheet", err)
		}
		if err := g.file.CopySheet(srcIdx, idx); err != nil {
			return nil, service.HostErr("duplicate sheet", err)
		}
		return &service.WorkbookResult{
			SheetID: g.positionOf(idx),
			Name:    copyName,
			Message: fmt.Sprintf("sheet %q duplicated as %q", name, copyName),
		}, nil
	}
	return nil, service.Validationf("operation", "unknown operation %q", p.Operation)
}

func (g *Grid) setTabColor(sheetName, color string) error {
	rgb := normalizeColor(color)
	rgb = rgb[1:] // SetSheetProps takes the hex without the #
	err := g.file.SetSheetProps(sheetName, &excelize.SheetPropsOptions{TabColorRGB: &rgb})
	if err != nil {
		return service.HostErr("set tab color", err)
	}
	return nil
}

// positionOf converts an excelize sheet index to the zero-based position in
// the visible sheet list, which is what sheet ids mean here.
func (g *Grid) positionOf(index int) int {
	name := g.file.GetSheetName(index)
	for i, n := range g.file.GetSheetList() {
		if n == name {
			return i
		}
	}
	return index
}
