package grid

import (
	"context"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

func newGrid(t *testing.T) *Grid {
	t.Helper()
	file := excelize.NewFile()
	t.Cleanup(func() { file.Close() })
	return New(file)
}

func writeCells(t *testing.T, g *Grid, sheetID int, rangeA1 string, cells [][]sheet.Cell) *service.WriteResult {
	t.Helper()
	result, err := g.SetCellRange(context.Background(), service.WriteParams{
		SheetID: sheetID,
		Range:   rangeA1,
		Cells:   cells,
	})
	if err != nil {
		t.Fatalf("SetCellRange(%s): %v", rangeA1, err)
	}
	return result
}

func TestGetSheets(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	metas, err := g.GetSheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 || metas[0].Name != "Sheet1" || metas[0].ID != 0 {
		t.Fatalf("metas = %+v", metas)
	}
	if metas[0].MaxRows != 0 || metas[0].MaxColumns != 0 {
		t.Fatalf("empty sheet reported used range %+v", metas[0])
	}

	writeCells(t, g, 0, "B2", [][]sheet.Cell{{{Value: "x"}}})
	metas, err = g.GetSheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if metas[0].MaxRows != 2 || metas[0].MaxColumns != 2 {
		t.Fatalf("used range after write = %+v", metas[0])
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	result := writeCells(t, g, 0, "A1:B2", [][]sheet.Cell{
		{{Value: 1.0}, {Value: 2.0}},
		{{Formula: "=A1+B1"}, {Value: "label", Note: "checked"}},
	})
	if result.Partial {
		t.Fatalf("unexpected partial result: %+v", result)
	}
	if got := result.FormulaResults["A2"]; got != 3.0 {
		t.Fatalf("FormulaResults[A2] = %v, want 3", got)
	}

	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"A1:B2"}})
	if err != nil {
		t.Fatal(err)
	}
	if read.HasMore {
		t.Fatal("small read reported more pages")
	}
	cells := read.Result.Cells
	if cells["A1"] != 1.0 || cells["B1"] != 2.0 {
		t.Fatalf("values = %v", cells)
	}
	if !reflect.DeepEqual(cells["A2"], []any{3.0, "=A1+B1"}) {
		t.Fatalf("formula cell = %#v", cells["A2"])
	}
	if !reflect.DeepEqual(cells["B2"], []any{"label", "", "checked"}) {
		t.Fatalf("noted cell = %#v", cells["B2"])
	}
}

func TestReadSkipsEmptyCells(t *testing.T) {
	g := newGrid(t)

	writeCells(t, g, 0, "A1", [][]sheet.Cell{{{Value: "only"}}})
	writeCells(t, g, 0, "C3", [][]sheet.Cell{{{Value: "far"}}})

	read, err := g.GetCellRanges(context.Background(), service.ReadParams{Ranges: []string{"A1:C3"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(read.Result.Cells) != 2 {
		t.Fatalf("cells = %v", read.Result.Cells)
	}
	if _, ok := read.Result.Cells["B2"]; ok {
		t.Fatal("empty cell reported")
	}
}

func TestReadPagination(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	column := make([][]sheet.Cell, 10)
	for i := range column {
		column[i] = []sheet.Cell{{Value: float64(i + 1)}}
	}
	writeCells(t, g, 0, "A1:A10", column)

	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"A1:A10"}, CellLimit: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !read.HasMore {
		t.Fatal("want more pages")
	}
	if len(read.Result.Cells) != 4 {
		t.Fatalf("first page has %d cells", len(read.Result.Cells))
	}
	if !reflect.DeepEqual(read.NextRanges, []string{"A5:A10"}) {
		t.Fatalf("NextRanges = %v", read.NextRanges)
	}

	// Walking the cursor visits every cell exactly once.
	seen := map[string]bool{}
	for k := range read.Result.Cells {
		seen[k] = true
	}
	ranges := read.NextRanges
	for len(ranges) > 0 {
		page, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: ranges, CellLimit: 4})
		if err != nil {
			t.Fatal(err)
		}
		for k := range page.Result.Cells {
			if seen[k] {
				t.Fatalf("cell %s returned twice", k)
			}
			seen[k] = true
		}
		ranges = page.NextRanges
	}
	if len(seen) != 10 {
		t.Fatalf("visited %d cells, want 10", len(seen))
	}
}

func TestReadOpenEndedRangeClamped(t *testing.T) {
	g := newGrid(t)

	writeCells(t, g, 0, "A1:B3", [][]sheet.Cell{
		{{Value: 1.0}, {Value: 2.0}},
		{{Value: 3.0}, {Value: 4.0}},
		{{Value: 5.0}, {Value: 6.0}},
	})
	read, err := g.GetCellRanges(context.Background(), service.ReadParams{Ranges: []string{"A:B"}})
	if err != nil {
		t.Fatal(err)
	}
	if read.HasMore {
		t.Fatal("clamped column read should fit one page")
	}
	if len(read.Result.Cells) != 6 {
		t.Fatalf("cells = %v", read.Result.Cells)
	}
}

func TestSearchData(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:A4", [][]sheet.Cell{
		{{Value: "Gross Revenue"}},
		{{Value: "net revenue"}},
		{{Value: "Expenses"}},
		{{Value: "revenue"}},
	})

	result, err := g.SearchData(ctx, service.SearchParams{Term: "revenue"})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFound != 3 || result.HasMore {
		t.Fatalf("result = %+v", result)
	}
	if result.Matches[0].Address != "A1" || result.Matches[0].SheetName != "Sheet1" {
		t.Fatalf("first match = %+v", result.Matches[0])
	}

	// Case sensitive narrows, entire cell narrows further.
	result, err = g.SearchData(ctx, service.SearchParams{Term: "revenue", MatchCase: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFound != 2 {
		t.Fatalf("case sensitive total = %d", result.TotalFound)
	}
	result, err = g.SearchData(ctx, service.SearchParams{Term: "revenue", MatchEntireCell: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFound != 1 || result.Matches[0].Address != "A4" {
		t.Fatalf("entire cell result = %+v", result)
	}

	// Pagination slices the ordered match list.
	result, err = g.SearchData(ctx, service.SearchParams{Term: "revenue", MaxResults: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matches) != 2 || !result.HasMore || result.NextOffset != 2 {
		t.Fatalf("first page = %+v", result)
	}
	rest, err := g.SearchData(ctx, service.SearchParams{Term: "revenue", MaxResults: 2, Offset: result.NextOffset})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest.Matches) != 1 || rest.HasMore {
		t.Fatalf("second page = %+v", rest)
	}

	// Unknown sheet degrades to an empty result, not an error.
	missing := 9
	result, err = g.SearchData(ctx, service.SearchParams{Term: "revenue", SheetID: &missing})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matches) != 0 || result.Message == "" {
		t.Fatalf("missing sheet result = %+v", result)
	}
}

func TestCopyToTranslatesFormulas(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:B1", [][]sheet.Cell{
		{{Value: 2.0}, {Formula: "=A1*10"}},
	})
	writeCells(t, g, 0, "A2:A3", [][]sheet.Cell{
		{{Value: 3.0}},
		{{Value: 4.0}},
	})

	if err := g.CopyTo(ctx, 0, "B1", "B2:B3"); err != nil {
		t.Fatal(err)
	}

	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"B2:B3"}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(read.Result.Cells["B2"], []any{30.0, "=A2*10"}) {
		t.Fatalf("B2 = %#v", read.Result.Cells["B2"])
	}
	if !reflect.DeepEqual(read.Result.Cells["B3"], []any{40.0, "=A3*10"}) {
		t.Fatalf("B3 = %#v", read.Result.Cells["B3"])
	}
}

func TestCopyToTilesPattern(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:A2", [][]sheet.Cell{
		{{Value: "odd"}},
		{{Value: "even"}},
	})
	if err := g.CopyTo(ctx, 0, "A1:A2", "C1:C4"); err != nil {
		t.Fatal(err)
	}

	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"C1:C4"}})
	if err != nil {
		t.Fatal(err)
	}
	cells := read.Result.Cells
	if cells["C1"] != "odd" || cells["C2"] != "even" || cells["C3"] != "odd" || cells["C4"] != "even" {
		t.Fatalf("tiled cells = %v", cells)
	}
}

func TestWriteWithCopyToRange(t *testing.T) {
	g := newGrid(t)

	writeCells(t, g, 0, "A1", [][]sheet.Cell{{{Value: 5.0}}})
	result, err := g.SetCellRange(context.Background(), service.WriteParams{
		SheetID:     0,
		Range:       "B1",
		Cells:       [][]sheet.Cell{{{Formula: "=A1+1"}}},
		CopyToRange: "B2:B3",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Partial {
		t.Fatalf("partial: %+v", result)
	}

	formula, err := g.File().GetCellFormula("Sheet1", "B3")
	if err != nil {
		t.Fatal(err)
	}
	if formula != "=A3+1" {
		t.Fatalf("B3 formula = %q", formula)
	}
}

func TestStyleRoundTrip(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1", [][]sheet.Cell{{{
		Value:      "header",
		CellStyles: &sheet.StyleSet{Bold: true, Background: "#FFFF00", HAlign: sheet.HAlignCenter},
		BorderStyles: &sheet.BorderSet{
			Bottom: &sheet.BorderEdge{Style: sheet.BorderSolid, Weight: sheet.WeightMedium},
		},
	}}})

	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"A1"}, IncludeStyles: true})
	if err != nil {
		t.Fatal(err)
	}
	style := read.Result.Styles["A1"]
	if style == nil {
		t.Fatalf("no style diff reported: %+v", read.Result)
	}
	if !style.Bold || style.Background != "#FFFF00" || style.HAlign != sheet.HAlignCenter {
		t.Fatalf("style = %+v", style)
	}
	borders := read.Result.Borders["A1"]
	if borders == nil || borders.Bottom == nil {
		t.Fatalf("borders = %+v", borders)
	}
	if borders.Bottom.Style != sheet.BorderSolid || borders.Bottom.Weight != sheet.WeightMedium {
		t.Fatalf("bottom border = %+v", borders.Bottom)
	}
	if borders.Top != nil || borders.Left != nil || borders.Right != nil {
		t.Fatalf("unset edges reported: %+v", borders)
	}
}

func TestClearCellRange(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:A2", [][]sheet.Cell{
		{{Value: "keep styles", CellStyles: &sheet.StyleSet{Bold: true}}},
		{{Value: "gone", Note: "gone too"}},
	})

	if err := g.ClearCellRange(ctx, 0, "A1:A2", service.ClearContents); err != nil {
		t.Fatal(err)
	}
	read, err := g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"A1:A2"}, IncludeStyles: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(read.Result.Cells) != 0 {
		t.Fatalf("contents survived clear: %v", read.Result.Cells)
	}
	if read.Result.Styles["A1"] == nil || !read.Result.Styles["A1"].Bold {
		t.Fatal("contents clear dropped formatting")
	}
	if read.Result.Dimension != "A1:A2" {
		t.Fatalf("dimension after contents clear = %q", read.Result.Dimension)
	}
	metas, err := g.GetSheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if metas[0].MaxRows != 2 || metas[0].MaxColumns != 1 {
		t.Fatalf("sheet metadata after contents clear = %+v", metas[0])
	}

	if err := g.ClearCellRange(ctx, 0, "A1", service.ClearFormats); err != nil {
		t.Fatal(err)
	}
	read, err = g.GetCellRanges(ctx, service.ReadParams{Ranges: []string{"A1"}, IncludeStyles: true})
	if err != nil {
		t.Fatal(err)
	}
	if read.Result.Styles != nil {
		t.Fatalf("formats survived clear: %+v", read.Result.Styles)
	}
}

func TestResizeRange(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:B2", [][]sheet.Cell{
		{{Value: 1.0}, {Value: 2.0}},
		{{Value: 3.0}, {Value: 4.0}},
	})

	w, h := 24.0, 30.0
	err := g.ResizeRange(ctx, service.ResizeParams{Range: "A:B", Type: service.ResizePoints, Width: &w, Height: &h})
	if err != nil {
		t.Fatal(err)
	}
	gotW, err := g.File().GetColWidth("Sheet1", "B")
	if err != nil {
		t.Fatal(err)
	}
	if gotW != 24.0 {
		t.Fatalf("column width = %v", gotW)
	}
	gotH, err := g.File().GetRowHeight("Sheet1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if gotH != 30.0 {
		t.Fatalf("row height = %v", gotH)
	}

	err = g.ResizeRange(ctx, service.ResizeParams{Range: "A:B", Type: service.ResizeAutofit})
	if !service.IsUnsupported(err) {
		t.Fatalf("autofit: got %v, want unsupported", err)
	}
}

func TestSheetStructure(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:A3", [][]sheet.Cell{
		{{Value: "first"}},
		{{Value: "second"}},
		{{Value: "third"}},
	})

	// Inserting before row 2 shifts the tail down.
	err := g.ModifySheetStructure(ctx, service.StructureParams{
		Operation: service.StructInsert, Dimension: service.DimRows, Reference: "2:2",
	})
	if err != nil {
		t.Fatal(err)
	}
	value, err := g.File().GetCellValue("Sheet1", "A3")
	if err != nil {
		t.Fatal(err)
	}
	if value != "second" {
		t.Fatalf("A3 after insert = %q", value)
	}

	// Deleting the inserted row restores the original layout.
	err = g.ModifySheetStructure(ctx, service.StructureParams{
		Operation: service.StructDelete, Dimension: service.DimRows, Reference: "2:2",
	})
	if err != nil {
		t.Fatal(err)
	}
	value, err = g.File().GetCellValue("Sheet1", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if value != "second" {
		t.Fatalf("A2 after delete = %q", value)
	}

	// Hide and unhide round trip.
	err = g.ModifySheetStructure(ctx, service.StructureParams{
		Operation: service.StructHide, Dimension: service.DimColumns, Reference: "A:A",
	})
	if err != nil {
		t.Fatal(err)
	}
	visible, err := g.File().GetColVisible("Sheet1", "A")
	if err != nil {
		t.Fatal(err)
	}
	if visible {
		t.Fatal("column A still visible after hide")
	}
	err = g.ModifySheetStructure(ctx, service.StructureParams{
		Operation: service.StructUnhide, Dimension: service.DimColumns, Reference: "A:A",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Freeze then unfreeze.
	err = g.ModifySheetStructure(ctx, service.StructureParams{
		Operation: service.StructFreeze, Dimension: service.DimRows, Count: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	err = g.ModifySheetStructure(ctx, service.StructureParams{Operation: service.StructUnfreeze})
	if err != nil {
		t.Fatal(err)
	}
}

func TestWorkbookStructure(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	created, err := g.ModifyWorkbookStructure(ctx, service.WorkbookParams{
		Operation: service.WbCreate, SheetName: "Data",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Name != "Data" {
		t.Fatalf("created = %+v", created)
	}

	id := created.SheetID
	renamed, err := g.ModifyWorkbookStructure(ctx, service.WorkbookParams{
		Operation: service.WbRename, SheetID: &id, NewName: "Input",
	})
	if err != nil {
		t.Fatal(err)
	}
	if renamed.Name != "Input" {
		t.Fatalf("renamed = %+v", renamed)
	}

	dup, err := g.ModifyWorkbookStructure(ctx, service.WorkbookParams{
		Operation: service.WbDuplicate, SheetID: &id,
	})
	if err != nil {
		t.Fatal(err)
	}
	if dup.Name != "Input (2)" {
		t.Fatalf("duplicate = %+v", dup)
	}

	metas, err := g.GetSheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 3 {
		t.Fatalf("sheets = %+v", metas)
	}

	deleted, err := g.ModifyWorkbookStructure(ctx, service.WorkbookParams{
		Operation: service.WbDelete, SheetID: &dup.SheetID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if deleted.Name != "Input (2)" {
		t.Fatalf("deleted = %+v", deleted)
	}
}

func TestDeleteOnlySheetRefused(t *testing.T) {
	g := newGrid(t)
	id := 0
	_, err := g.ModifyWorkbookStructure(context.Background(), service.WorkbookParams{
		Operation: service.WbDelete, SheetID: &id,
	})
	if service.KindOf(err) != service.KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestChartLifecycle(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:B4", [][]sheet.Cell{
		{{Value: "Month"}, {Value: "Sales"}},
		{{Value: "Jan"}, {Value: 10.0}},
		{{Value: "Feb"}, {Value: 20.0}},
		{{Value: "Mar"}, {Value: 15.0}},
	})

	created, err := g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjCreate,
		Type:      sheet.ObjectChart,
		Chart:     &sheet.Chart{ChartType: sheet.ChartCol, Source: "A1:B4", Anchor: "D1", Title: "Sales"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "chart-Sheet1-D1" {
		t.Fatalf("chart id = %q", created.ID)
	}

	_, err = g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjUpdate, Type: sheet.ObjectChart, ID: created.ID,
		Chart: &sheet.Chart{Title: "Updated"},
	})
	if !service.IsUnsupported(err) {
		t.Fatalf("update: got %v, want unsupported", err)
	}

	_, err = g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjDelete, Type: sheet.ObjectChart, ID: created.ID,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjCreate, Type: sheet.ObjectChart,
		Chart: &sheet.Chart{ChartType: sheet.ChartWaterfall, Source: "A1:B4"},
	})
	if !service.IsUnsupported(err) {
		t.Fatalf("waterfall: got %v, want unsupported", err)
	}
}

func TestPivotTableLifecycle(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	writeCells(t, g, 0, "A1:C5", [][]sheet.Cell{
		{{Value: "Region"}, {Value: "Product"}, {Value: "Amount"}},
		{{Value: "North"}, {Value: "Widget"}, {Value: 10.0}},
		{{Value: "South"}, {Value: "Widget"}, {Value: 20.0}},
		{{Value: "North"}, {Value: "Gadget"}, {Value: 30.0}},
		{{Value: "South"}, {Value: "Gadget"}, {Value: 40.0}},
	})

	created, err := g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjCreate,
		Type:      sheet.ObjectPivotTable,
		Pivot: &sheet.PivotTable{
			Name:    "SalesPivot",
			Source:  "A1:C5",
			Range:   "E1:G6",
			Rows:    []sheet.PivotField{{Name: "Region"}},
			Columns: []sheet.PivotField{{Name: "Product"}},
			Values:  []sheet.PivotValue{{Name: "Amount", SummarizeBy: sheet.SummarizeSum}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "SalesPivot" {
		t.Fatalf("pivot id = %q", created.ID)
	}

	objects, err := g.GetAllObjects(ctx, service.ObjectQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(objects) != 1 {
		t.Fatalf("objects = %+v", objects)
	}
	pt := objects[0].PivotTable
	if pt == nil || pt.Name != "SalesPivot" {
		t.Fatalf("pivot = %+v", objects[0])
	}
	if len(pt.Rows) != 1 || pt.Rows[0].Name != "Region" {
		t.Fatalf("pivot rows = %+v", pt.Rows)
	}
	if len(pt.Values) != 1 || pt.Values[0].SummarizeBy != sheet.SummarizeSum {
		t.Fatalf("pivot values = %+v", pt.Values)
	}

	_, err = g.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjDelete, Type: sheet.ObjectPivotTable, ID: "SalesPivot",
	})
	if err != nil {
		t.Fatal(err)
	}
	objects, err = g.GetAllObjects(ctx, service.ObjectQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(objects) != 0 {
		t.Fatalf("objects after delete = %+v", objects)
	}
}

func TestUnknownSheet(t *testing.T) {
	g := newGrid(t)
	ctx := context.Background()

	_, err := g.GetCellRanges(ctx, service.ReadParams{SheetID: 5, Ranges: []string{"A1"}})
	if !service.IsNotFound(err) {
		t.Fatalf("read: got %v, want not found", err)
	}
	_, err = g.SetCellRange(ctx, service.WriteParams{SheetID: 5, Range: "A1", Cells: [][]sheet.Cell{{{}}}})
	if !service.IsNotFound(err) {
		t.Fatalf("write: got %v, want not found", err)
	}
}
