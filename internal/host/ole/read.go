package ole

import (
	"context"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

func (d *Desktop) GetCellRanges(ctx context.Context, p service.ReadParams) (*service.ReadResult, error) {
	ws, err := d.sheet(p.SheetID)
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	ranges, err := service.ParseRanges(p.Ranges)
	if err != nil {
		return nil, err
	}

	result := &service.ReadResult{
		Result: sheet.RangeResult{
			Name:    oleutil.MustGetProperty(ws, "Name").ToString(),
			SheetID: p.SheetID,
			Cells:   map[string]any{},
		},
	}
	used, ok := usedRange(ws)
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

	if p.IncludeStyles {
		result.Result.Styles = map[string]*sheet.StyleSet{}
		result.Result.Borders = map[string]*sheet.BorderSet{}
	}

	for _, r := range page.Take {
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				cell := addr.CellName(row, col)
				rng, err := rangeOf(ws, cell)
				if err != nil {
					return nil, err
				}
				if encoded, populated := readCell(rng); populated {
					result.Result.Cells[cell] = encoded
				}
				if p.IncludeStyles {
					live, borders := liveStyle(rng)
					if diff := sheet.DiffStyle(live, sheet.DesktopDefaults); diff != nil {
						result.Result.Styles[cell] = diff
					}
					if borders != nil {
						result.Result.Borders[cell] = borders
					}
				}
				rng.Release()
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

// readCell reads one Range COM object into the sparse cell encoding.
func readCell(rng *ole.IDispatch) (any, bool) {
	var formula string
	hasFormula, _ := oleutil.GetProperty(rng, "HasFormula")
	if b, ok := hasFormula.Value().(bool); ok && b {
		formula = oleutil.MustGetProperty(rng, "Formula").ToString()
	}
	value := cellValue(rng)
	note := cellNote(rng)
	if value == nil && formula == "" && note == "" {
		return nil, false
	}
	return sheet.EncodeCell(value, formula, note), true
}

// cellValue reads the typed value. Value2 avoids the host's date/currency
// wrapping and yields float64, string, bool or nil.
func cellValue(rng *ole.IDispatch) any {
	v, err := oleutil.GetProperty(rng, "Value2")
	if err != nil {
		return nil
	}
	switch value := v.Value().(type) {
	case nil:
		return nil
	case string:
		if value == "" {
			return nil
		}
		return value
	case float64, bool:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func cellNote(rng *ole.IDispatch) string {
	v, err := oleutil.GetProperty(rng, "Comment")
	if err != nil || v.VT == ole.VT_NULL || v.VT == ole.VT_EMPTY {
		return ""
	}
	comment := v.ToIDispatch()
	if comment == nil {
		return ""
	}
	defer comment.Release()
	text, err := oleutil.CallMethod(comment, "Text")
	if err != nil {
		return ""
	}
	return text.ToString()
}

func (d *Desktop) SearchData(ctx context.Context, p service.SearchParams) (*service.SearchResult, error) {
	worksheets := oleutil.MustGetProperty(d.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()
	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)

	var ids []int
	if p.SheetID != nil {
		if *p.SheetID < 0 || *p.SheetID >= count {
			return &service.SearchResult{
				Matches: []service.SearchMatch{},
				Message: "sheet not found; searched nothing",
			}, nil
		}
		ids = []int{*p.SheetID}
	} else {
		ids = make([]int, count)
		for i := range ids {
			ids[i] = i
		}
	}

	var matches []service.SearchMatch
	for _, id := range ids {
		ws := oleutil.MustGetProperty(worksheets, "Item", id+1).ToIDispatch()
		sheetMatches, err := searchSheet(ws, id, p)
		ws.Release()
		if err != nil {
			return nil, err
		}
		matches = append(matches, sheetMatches...)
	}
	return service.PaginateMatches(matches, p.MaxResults, p.Offset), nil
}

// searchSheet walks the host's Find/FindNext cursor. FindNext wraps around
// to the first hit, so the loop tracks visited addresses and stops on the
// first repeat.
func searchSheet(ws *ole.IDispatch, sheetID int, p service.SearchParams) ([]service.SearchMatch, error) {
	name := oleutil.MustGetProperty(ws, "Name").ToString()

	var scope *ole.IDispatch
	if p.Range != "" {
		if _, err := addr.ParseRange(p.Range); err != nil {
			return nil, service.Validationf("range", "%v", err)
		}
		rng, err := rangeOf(ws, p.Range)
		if err != nil {
			return nil, err
		}
		scope = rng
	} else {
		scope = oleutil.MustGetProperty(ws, "Cells").ToIDispatch()
	}
	defer scope.Release()

	lookAt := 2 // xlPart
	if p.MatchEntireCell {
		lookAt = 1 // xlWhole
	}
	found, err := oleutil.CallMethod(scope, "Find",
		p.Term,
		nil,
		-4163, // xlValues
		lookAt,
		1, // xlByRows
		1, // xlNext
		p.MatchCase,
	)
	if err != nil || found.VT == ole.VT_NULL || found.VT == ole.VT_EMPTY {
		return nil, nil
	}
	first := found.ToIDispatch()
	if first == nil {
		return nil, nil
	}

	var matches []service.SearchMatch
	visited := map[string]bool{}
	current := first
	for {
		address := normalizeAddress(oleutil.MustGetProperty(current, "Address").ToString())
		if visited[address] {
			current.Release()
			break
		}
		visited[address] = true
		value := ""
		if v := cellValue(current); v != nil {
			value = fmt.Sprint(v)
		}
		matches = append(matches, service.SearchMatch{
			SheetID:   sheetID,
			SheetName: name,
			Address:   address,
			Value:     value,
		})
		next, err := oleutil.CallMethod(scope, "FindNext", current)
		current.Release()
		if err != nil || next.VT == ole.VT_NULL || next.VT == ole.VT_EMPTY {
			break
		}
		current = next.ToIDispatch()
		if current == nil {
			break
		}
	}
	return matches, nil
}
