package remote

import (
	"context"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

type wireSheet struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// wireCell is one cell as the scripting endpoint reports it. Styles come
// back fully resolved; the diff against server defaults happens here.
type wireCell struct {
	Value   any              `json:"v,omitempty"`
	Formula string           `json:"f,omitempty"`
	Note    string           `json:"n,omitempty"`
	Styles  *sheet.StyleSet  `json:"s,omitempty"`
	Borders *sheet.BorderSet `json:"b,omitempty"`
}

func (c *Client) GetSheets(ctx context.Context) ([]sheet.Metadata, error) {
	var sheets []wireSheet
	if err := c.call(ctx, "workbook.sheets", nil, &sheets); err != nil {
		return nil, err
	}
	metas := make([]sheet.Metadata, len(sheets))
	for i, s := range sheets {
		metas[i] = sheet.Metadata{ID: s.ID, Name: s.Name, MaxRows: s.Rows, MaxColumns: s.Columns}
	}
	return metas, nil
}

// sheetMeta resolves a sheet id against the server's sheet list.
func (c *Client) sheetMeta(ctx context.Context, sheetID int) (*wireSheet, error) {
	var sheets []wireSheet
	if err := c.call(ctx, "workbook.sheets", nil, &sheets); err != nil {
		return nil, err
	}
	for _, s := range sheets {
		if s.ID == sheetID {
			return &s, nil
		}
	}
	return nil, service.NotFoundf("sheet %d not found", sheetID)
}

func (c *Client) GetCellRanges(ctx context.Context, p service.ReadParams) (*service.ReadResult, error) {
	meta, err := c.sheetMeta(ctx, p.SheetID)
	if err != nil {
		return nil, err
	}
	ranges, err := service.ParseRanges(p.Ranges)
	if err != nil {
		return nil, err
	}

	result := &service.ReadResult{
		Result: sheet.RangeResult{
			Name:    meta.Name,
			SheetID: p.SheetID,
			Cells:   map[string]any{},
		},
	}
	if meta.Rows == 0 || meta.Columns == 0 {
		return result, nil
	}
	used := addr.Range{EndRow: meta.Rows - 1, EndCol: meta.Columns - 1}
	result.Result.Dimension = used.String()

	clamped := make([]addr.Range, 0, len(ranges))
	for _, r := range ranges {
		if r.StartRow > used.EndRow || r.StartCol > used.EndCol {
			continue
		}
		clamped = append(clamped, r.Clamp(used.EndRow, used.EndCol))
	}

	page := service.SplitByCellLimit(clamped, p.CellLimit)
	result.HasMore = page.HasMore
	result.NextRanges = page.NextRangeStrings()

	if p.IncludeStyles {
		result.Result.Styles = map[string]*sheet.StyleSet{}
		result.Result.Borders = map[string]*sheet.BorderSet{}
	}

	for _, r := range page.Take {
		var rows [][]wireCell
		err := c.call(ctx, "range.read", map[string]any{
			"sheetId":       p.SheetID,
			"range":         r.String(),
			"includeStyles": p.IncludeStyles,
		}, &rows)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			for j, wc := range row {
				cell := addr.CellName(r.StartRow+i, r.StartCol+j)
				if wc.Value != nil || wc.Formula != "" || wc.Note != "" {
					result.Result.Cells[cell] = sheet.EncodeCell(wc.Value, wc.Formula, wc.Note)
				}
				if p.IncludeStyles && wc.Styles != nil {
					if diff := sheet.DiffStyle(*wc.Styles, sheet.ServerDefaults); diff != nil {
						result.Result.Styles[cell] = diff
					}
				}
				if p.IncludeStyles && wc.Borders != nil {
					result.Result.Borders[cell] = wc.Borders
				}
			}
		}
	}
	if p.IncludeStyles && len(result.Result.Styles) == 0 {
		result.Result.Styles = nil
	}
	if p.IncludeStyles && len(result.Result.Borders) == 0 {
		result.Result.Borders = nil
	}
	return result, nil
}

func (c *Client) SearchData(ctx context.Context, p service.SearchParams) (*service.SearchResult, error) {
	params := map[string]any{
		"term":       p.Term,
		"matchCase":  p.MatchCase,
		"entireCell": p.MatchEntireCell,
	}
	if p.SheetID != nil {
		if _, err := c.sheetMeta(ctx, *p.SheetID); err != nil {
			if service.IsNotFound(err) {
				return &service.SearchResult{
					Matches: []service.SearchMatch{},
					Message: "sheet not found; searched nothing",
				}, nil
			}
			return nil, err
		}
		params["sheetId"] = *p.SheetID
	}
	if p.Range != "" {
		if _, err := addr.ParseRange(p.Range); err != nil {
			return nil, service.Validationf("range", "%v", err)
		}
		params["range"] = p.Range
	}

	var matches []service.SearchMatch
	if err := c.call(ctx, "search", params, &matches); err != nil {
		return nil, err
	}
	return service.PaginateMatches(matches, p.MaxResults, p.Offset), nil
}
