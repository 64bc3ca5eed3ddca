package grid

import (
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

func (g *Grid) GetCellRanges(ctx context.Context, p service.ReadParams) (*service.ReadResult, error) {
	name, err := g.sheetName(p.SheetID)
	if err != nil {
		return nil, err
	}
	ranges, err := service.ParseRanges(p.Ranges)
	if err != nil {
		return nil, err
	}

	result := &service.ReadResult{
		Result: sheet.RangeResult{
			Name:    name,
			SheetID: p.SheetID,
			Cells:   map[string]any{},
		},
	}
	used, ok, err := g.usedRange(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return result, nil
	}
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

	notes, err := g.noteMap(name)
	if err != nil {
		return nil, err
	}
	if p.IncludeStyles {
		result.Result.Styles = map[string]*sheet.StyleSet{}
		result.Result.Borders = map[string]*sheet.BorderSet{}
	}

	for _, r := range page.Take {
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				cell := cellName(row, col)
				encoded, populated, err := g.readCell(name, cell, notes[cell])
				if err != nil {
					return nil, err
				}
				if populated {
					result.Result.Cells[cell] = encoded
				}
				if p.IncludeStyles {
					live, borders, err := g.liveStyle(name, cell)
					if err == nil {
						if diff := sheet.DiffStyle(live, sheet.DesktopDefaults); diff != nil {
							result.Result.Styles[cell] = diff
						}
						if borders != nil {
							result.Result.Borders[cell] = borders
						}
					}
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

// readCell produces the sparse cell encoding. populated is false for cells
// with no value, no formula and no note; those are omitted from the result.
func (g *Grid) readCell(sheetName, cell, note string) (any, bool, error) {
	formula, err := g.file.GetCellFormula(sheetName, cell)
	if err != nil {
		return nil, false, service.HostErr("get formula", err)
	}
	var value any
	if formula != "" {
		formula = canonicalFormula(formula)
		computed, err := g.file.CalcCellValue(sheetName, cell)
		if err == nil {
			value = parseScalar(computed)
		}
	} else {
		raw, err := g.file.GetCellValue(sheetName, cell)
		if err != nil {
			return nil, false, service.HostErr("get value", err)
		}
		if raw == "" && note == "" {
			return nil, false, nil
		}
		value = g.typedValue(sheetName, cell, raw)
	}
	return sheet.EncodeCell(value, formula, note), true, nil
}

// typedValue keeps text cells as strings and parses everything else into
// scalars.
func (g *Grid) typedValue(sheetName, cell, raw string) any {
	cellType, err := g.file.GetCellType(sheetName, cell)
	if err == nil {
		switch cellType {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
			return raw
		case excelize.CellTypeBool:
			return raw == "TRUE"
		}
	}
	return parseScalar(raw)
}

func (g *Grid) noteMap(sheetName string) (map[string]string, error) {
	comments, err := g.file.GetComments(sheetName)
	if err != nil {
		return nil, service.HostErr("get comments", err)
	}
	notes := make(map[string]string, len(comments))
	for _, c := range comments {
		text := c.Text
		if text == "" {
			var parts []string
			for _, run := range c.Paragraph {
				parts = append(parts, run.Text)
			}
			text = strings.Join(parts, "")
		}
		notes[c.Cell] = text
	}
	return notes, nil
}

func (g *Grid) SearchData(ctx context.Context, p service.SearchParams) (*service.SearchResult, error) {
	var names []string
	var ids []int
	list := g.file.GetSheetList()
	if p.SheetID != nil {
		if *p.SheetID < 0 || *p.SheetID >= len(list) {
			return &service.SearchResult{
				Matches: []service.SearchMatch{},
				Message: "sheet not found; searched nothing",
			}, nil
		}
		names = []string{list[*p.SheetID]}
		ids = []int{*p.SheetID}
	} else {
		names = list
		ids = make([]int, len(list))
		for i := range list {
			ids[i] = i
		}
	}

	var scope *addr.Range
	if p.Range != "" {
		r, err := addr.ParseRange(p.Range)
		if err != nil {
			return nil, service.Validationf("range", "%v", err)
		}
		scope = &r
	}

	var matches []service.SearchMatch
	for i, name := range names {
		rows, err := g.file.GetRows(name)
		if err != nil {
			return nil, service.HostErr("get rows", err)
		}
		for rowIdx, row := range rows {
			for colIdx, value := range row {
				if scope != nil && !scope.Contains(rowIdx, colIdx) {
					continue
				}
				if !service.MatchesTerm(value, p.Term, p.MatchCase, p.MatchEntireCell) {
					continue
				}
				matches = append(matches, service.SearchMatch{
					SheetID:   ids[i],
					SheetName: name,
					Address:   cellName(rowIdx, colIdx),
					Value:     value,
				})
			}
		}
	}
	return service.PaginateMatches(matches, p.MaxResults, p.Offset), nil
}
