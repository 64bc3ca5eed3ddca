package remote

import (
	"context"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

func (c *Client) SetCellRange(ctx context.Context, p service.WriteParams) (*service.WriteResult, error) {
	if _, err := c.sheetMeta(ctx, p.SheetID); err != nil {
		return nil, err
	}
	r, err := addr.ParseRange(p.Range)
	if err != nil {
		return nil, service.Validationf("range", "%v", err)
	}

	rows := make([][]wireCell, len(p.Cells))
	var formulaCells []string
	for i, row := range p.Cells {
		rows[i] = make([]wireCell, len(row))
		for j, cell := range row {
			wc := wireCell{
				Note:    cell.Note,
				Styles:  cell.CellStyles,
				Borders: cell.BorderStyles,
			}
			if cell.Formula != "" {
				wc.Formula = cell.CanonicalFormula()
				formulaCells = append(formulaCells, addr.CellName(r.StartRow+i, r.StartCol+j))
			} else {
				wc.Value = cell.Value
			}
			rows[i][j] = wc
		}
	}

	// The server applies queued commands in submission order, which keeps
	// the value/formula/style ordering; the flush commits everything at
	// once.
	err = c.call(ctx, "range.write", map[string]any{
		"sheetId": p.SheetID,
		"range":   p.Range,
		"cells":   rows,
	}, nil)
	if err != nil {
		return nil, err
	}
	if p.CopyToRange != "" {
		err := c.call(ctx, "range.copy", map[string]any{
			"sheetId":     p.SheetID,
			"source":      p.Range,
			"destination": p.CopyToRange,
		}, nil)
		if err != nil {
			return &service.WriteResult{
				Partial: true,
				Message: "cells were queued but the copy-to step failed",
			}, err
		}
	}
	if p.ResizeWidth != nil || p.ResizeHeight != nil {
		err := c.queueResize(ctx, service.ResizeParams{
			SheetID: p.SheetID,
			Range:   p.Range,
			Type:    service.ResizePoints,
			Width:   p.ResizeWidth,
			Height:  p.ResizeHeight,
		})
		if err != nil {
			return &service.WriteResult{
				Partial: true,
				Message: "cells were queued but the resize step failed",
			}, err
		}
	}
	if err := c.flush(ctx); err != nil {
		return &service.WriteResult{
			Partial: true,
			Message: "flush failed; queued mutations may be lost",
		}, err
	}

	result := &service.WriteResult{Message: "range written"}
	if len(formulaCells) > 0 {
		values := map[string]any{}
		err := c.call(ctx, "cells.values", map[string]any{
			"sheetId": p.SheetID,
			"cells":   formulaCells,
		}, &values)
		if err == nil {
			result.FormulaResults = values
		}
	}
	return result, nil
}

func (c *Client) CopyTo(ctx context.Context, sheetID int, sourceRange, destinationRange string) error {
	if _, err := addr.ParseRange(sourceRange); err != nil {
		return service.Validationf("sourceRange", "%v", err)
	}
	if _, err := addr.ParseRange(destinationRange); err != nil {
		return service.Validationf("destinationRange", "%v", err)
	}
	err := c.call(ctx, "range.copy", map[string]any{
		"sheetId":     sheetID,
		"source":      sourceRange,
		"destination": destinationRange,
	}, nil)
	if err != nil {
		return err
	}
	return c.flush(ctx)
}

func (c *Client) ClearCellRange(ctx context.Context, sheetID int, rangeA1 string, clear service.ClearType) error {
	if _, err := addr.ParseRange(rangeA1); err != nil {
		return service.Validationf("range", "%v", err)
	}
	err := c.call(ctx, "range.clear", map[string]any{
		"sheetId": sheetID,
		"range":   rangeA1,
		"mode":    string(clear),
	}, nil)
	if err != nil {
		return err
	}
	return c.flush(ctx)
}

func (c *Client) ResizeRange(ctx context.Context, p service.ResizeParams) error {
	if err := c.queueResize(ctx, p); err != nil {
		return err
	}
	return c.flush(ctx)
}

func (c *Client) queueResize(ctx context.Context, p service.ResizeParams) error {
	if p.Range != "" {
		if _, err := addr.ParseRange(p.Range); err != nil {
			return service.Validationf("range", "%v", err)
		}
	}
	params := map[string]any{
		"sheetId": p.SheetID,
		"range":   p.Range,
		"type":    string(p.Type),
	}
	if p.Width != nil {
		params["width"] = *p.Width
	}
	if p.Height != nil {
		params["height"] = *p.Height
	}
	return c.call(ctx, "range.resize", params, nil)
}

func (c *Client) ModifySheetStructure(ctx context.Context, p service.StructureParams) error {
	err := c.call(ctx, "sheet.structure", map[string]any{
		"sheetId":   p.SheetID,
		"operation": string(p.Operation),
		"dimension": string(p.Dimension),
		"reference": p.Reference,
		"position":  p.Position,
		"count":     p.Count,
	}, nil)
	if err != nil {
		return err
	}
	return c.flush(ctx)
}

func (c *Client) ModifyWorkbookStructure(ctx context.Context, p service.WorkbookParams) (*service.WorkbookResult, error) {
	params := map[string]any{
		"operation": string(p.Operation),
		"sheetName": p.SheetName,
		"newName":   p.NewName,
		"tabColor":  p.TabColor,
	}
	if p.SheetID != nil {
		params["sheetId"] = *p.SheetID
	}
	var result service.WorkbookResult
	if err := c.call(ctx, "workbook.structure", params, &result); err != nil {
		return nil, err
	}
	if err := c.flush(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAllObjects lists charts. The scripting endpoint cannot enumerate pivot
// tables, so the list is partial rather than padded with guesses.
func (c *Client) GetAllObjects(ctx context.Context, p service.ObjectQuery) ([]sheet.Object, error) {
	params := map[string]any{}
	if p.SheetID != nil {
		if _, err := c.sheetMeta(ctx, *p.SheetID); err != nil {
			return nil, err
		}
		params["sheetId"] = *p.SheetID
	}
	objects := []sheet.Object{}
	if err := c.call(ctx, "objects.list", params, &objects); err != nil {
		return nil, err
	}
	if p.ID != "" {
		for _, obj := range objects {
			if obj.ID == p.ID {
				return []sheet.Object{obj}, nil
			}
		}
		return nil, service.NotFoundf("object %q not found", p.ID)
	}
	return objects, nil
}

func (c *Client) ModifyObject(ctx context.Context, p service.ObjectParams) (*service.ObjectResult, error) {
	params := map[string]any{
		"operation": string(p.Operation),
		"sheetId":   p.SheetID,
		"type":      string(p.Type),
	}
	if p.ID != "" {
		params["id"] = p.ID
	}
	if p.Chart != nil {
		params["chart"] = p.Chart
	}
	if p.Pivot != nil {
		params["pivotTable"] = p.Pivot
	}
	var result service.ObjectResult
	if err := c.call(ctx, "objects.modify", params, &result); err != nil {
		return nil, err
	}
	if err := c.flush(ctx); err != nil {
		return nil, err
	}
	return &result, nil
}
