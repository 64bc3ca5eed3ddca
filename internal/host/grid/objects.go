package grid

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// The xlsx component exposes a smaller chart enumeration than the uniform
// one. Types outside this table are rejected, not approximated.
var chartTypes = map[sheet.ChartType]excelize.ChartType{
	sheet.ChartArea:        excelize.Area,
	sheet.ChartAreaStacked: excelize.AreaStacked,
	sheet.ChartBar:         excelize.Bar,
	sheet.ChartBarStacked:  excelize.BarStacked,
	sheet.ChartCol:         excelize.Col,
	sheet.ChartColStacked:  excelize.ColStacked,
	sheet.ChartLine:        excelize.Line,
	sheet.ChartPie:         excelize.Pie,
	sheet.ChartPie3D:       excelize.Pie3D,
	sheet.ChartDoughnut:    excelize.Doughnut,
	sheet.ChartRadar:       excelize.Radar,
	sheet.ChartScatter:     excelize.Scatter,
	sheet.ChartBubble:      excelize.Bubble,
}

var summarizeSubtotals = map[sheet.SummarizeBy]string{
	sheet.SummarizeSum:       "Sum",
	sheet.SummarizeCount:     "Count",
	sheet.SummarizeAverage:   "Average",
	sheet.SummarizeMax:       "Max",
	sheet.SummarizeMin:       "Min",
	sheet.SummarizeProduct:   "Product",
	sheet.SummarizeCountNums: "CountNums",
	sheet.SummarizeStdDev:    "StdDev",
	sheet.SummarizeStdDevp:   "StdDevp",
	sheet.SummarizeVar:       "Var",
	sheet.SummarizeVarp:      "Varp",
}

// GetAllObjects lists pivot tables. Charts cannot be enumerated by this
// backend, so the list is partial rather than padded with guesses.
func (g *Grid) GetAllObjects(ctx context.Context, p service.ObjectQuery) ([]sheet.Object, error) {
	var names []string
	var ids []int
	if p.SheetID != nil {
		name, err := g.sheetName(*p.SheetID)
		if err != nil {
			return nil, err
		}
		names, ids = []string{name}, []int{*p.SheetID}
	} else {
		names = g.file.GetSheetList()
		ids = make([]int, len(names))
		for i := range names {
			ids[i] = i
		}
	}

	objects := []sheet.Object{}
	for i, name := range names {
		pivots, err := g.file.GetPivotTables(name)
		if err != nil {
			return nil, service.HostErr("get pivot tables", err)
		}
		for _, pt := range pivots {
			obj := sheet.Object{
				ID:      pt.Name,
				Type:    sheet.ObjectPivotTable,
				SheetID: ids[i],
				PivotTable: &sheet.PivotTable{
					Name:    pt.Name,
					Range:   localRange(pt.PivotTableRange),
					Source:  localRange(pt.DataRange),
					Rows:    pivotFields(pt.Rows),
					Columns: pivotFields(pt.Columns),
					Values:  pivotValues(pt.Data),
				},
			}
			if p.ID != "" && p.ID != obj.ID {
				continue
			}
			objects = append(objects, obj)
		}
	}
	if p.ID != "" && len(objects) == 0 {
		return nil, service.NotFoundf("object %q not found", p.ID)
	}
	return objects, nil
}

func pivotFields(fields []excelize.PivotTableField) []sheet.PivotField {
	out := make([]sheet.PivotField, len(fields))
	for i, f := range fields {
		out[i] = sheet.PivotField{Name: f.Data}
	}
	return out
}

func pivotValues(fields []excelize.PivotTableField) []sheet.PivotValue {
	out := make([]sheet.PivotValue, len(fields))
	for i, f := range fields {
		v := sheet.PivotValue{Name: f.Data}
		for by, subtotal := range summarizeSubtotals {
			if subtotal == f.Subtotal {
				v.SummarizeBy = by
				break
			}
		}
		out[i] = v
	}
	return out
}

// localRange strips a "Sheet1!A1:B2" qualifier down to the range part.
func localRange(qualified string) string {
	if _, local, found := strings.Cut(qualified, "!"); found {
		return local
	}
	return qualified
}

func (g *Grid) ModifyObject(ctx context.Context, p service.ObjectParams) (*service.ObjectResult, error) {
	name, err := g.sheetName(p.SheetID)
	if err != nil {
		return nil, err
	}
	switch p.Operation {
	case service.ObjCreate:
		if p.Type == sheet.ObjectChart {
			return g.createChart(name, p.Chart)
		}
		return g.createPivot(name, p.Pivot)
	case service.ObjDelete:
		if p.Type == sheet.ObjectChart {
			return g.deleteChart(name, p.ID)
		}
		if err := g.file.DeletePivotTable(name, p.ID); err != nil {
			return nil, service.NotFoundf("pivot table %q not found", p.ID)
		}
		return &service.ObjectResult{ID: p.ID, Message: "pivot table deleted"}, nil
	case service.ObjUpdate:
		return nil, service.Unsupportedf("object update is not supported by the grid backend; delete and recreate instead")
	}
	return nil, service.Validationf("operation", "unknown operation %q", p.Operation)
}

func (g *Grid) createChart(sheetName string, c *sheet.Chart) (*service.ObjectResult, error) {
	native, ok := chartTypes[c.ChartType]
	if !ok {
		return nil, service.Unsupportedf("chart type %q is not supported by the grid backend", c.ChartType)
	}
	src, err := addr.ParseRange(c.Source)
	if err != nil {
		return nil, service.Validationf("source", "%v", err)
	}
	anchor := c.Anchor
	if anchor == "" {
		// Place the chart just below the source data.
		anchor = cellName(src.EndRow+2, src.StartCol)
	} else if anchorRange, err := addr.ParseRange(anchor); err == nil {
		anchor = cellName(anchorRange.StartRow, anchorRange.StartCol)
	}

	series := chartSeries(sheetName, src)
	chart := &excelize.Chart{Type: native, Series: series}
	if c.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: c.Title}}
	}
	if err := g.file.AddChart(sheetName, anchor, chart); err != nil {
		return nil, service.HostErr("add chart", err)
	}
	id := fmt.Sprintf("chart-%s-%s", sheetName, anchor)
	return &service.ObjectResult{ID: id, Message: "chart created"}, nil
}

// chartSeries treats the first source column as categories and each
// following column as one series, matching the common column-oriented
// layout.
func chartSeries(sheetName string, src addr.Range) []excelize.ChartSeries {
	quoted := fmt.Sprintf("'%s'", strings.ReplaceAll(sheetName, "'", "''"))
	categories := fmt.Sprintf("%s!%s:%s",
		quoted, cellName(src.StartRow, src.StartCol), cellName(src.EndRow, src.StartCol))
	firstCol := src.StartCol + 1
	if src.Cols() == 1 {
		firstCol = src.StartCol
		categories = ""
	}
	var series []excelize.ChartSeries
	for col := firstCol; col <= src.EndCol; col++ {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!%s", quoted, cellName(src.StartRow, col)),
			Categories: categories,
			Values: fmt.Sprintf("%s!%s:%s",
				quoted, cellName(src.StartRow+1, col), cellName(src.EndRow, col)),
		})
	}
	return series
}

func (g *Grid) deleteChart(sheetName, id string) (*service.ObjectResult, error) {
	// Ids created here encode the anchor cell: chart-<sheet>-<cell>.
	prefix := fmt.Sprintf("chart-%s-", sheetName)
	cell := strings.TrimPrefix(id, prefix)
	if cell == id {
		return nil, service.NotFoundf("chart %q not found on sheet %q", id, sheetName)
	}
	if err := g.file.DeleteChart(sheetName, cell); err != nil {
		return nil, service.HostErr("delete chart", err)
	}
	return &service.ObjectResult{ID: id, Message: "chart deleted"}, nil
}

func (g *Grid) createPivot(sheetName string, pt *sheet.PivotTable) (*service.ObjectResult, error) {
	src, err := addr.ParseRange(pt.Source)
	if err != nil {
		return nil, service.Validationf("source", "%v", err)
	}
	target := pt.Range
	if target == "" {
		target = addr.Range{
			StartRow: src.StartRow, StartCol: src.EndCol + 2,
			EndRow: src.EndRow, EndCol: src.EndCol + 2 + src.Cols(),
		}.String()
	}
	opts := &excelize.PivotTableOptions{
		DataRange:       fmt.Sprintf("%s!%s", sheetName, src.String()),
		PivotTableRange: fmt.Sprintf("%s!%s", sheetName, target),
		Name:            pt.Name,
		RowGrandTotals:  true,
		ColGrandTotals:  true,
	}
	for _, f := range pt.Rows {
		opts.Rows = append(opts.Rows, excelize.PivotTableField{Data: f.Name})
	}
	for _, f := range pt.Columns {
		opts.Columns = append(opts.Columns, excelize.PivotTableField{Data: f.Name})
	}
	for _, v := range pt.Values {
		subtotal := summarizeSubtotals[v.SummarizeBy]
		if subtotal == "" {
			subtotal = "Sum"
		}
		opts.Data = append(opts.Data, excelize.PivotTableField{Data: v.Name, Subtotal: subtotal})
	}
	if err := g.file.AddPivotTable(opts); err != nil {
		return nil, service.HostErr("add pivot table", err)
	}
	id := pt.Name
	if id == "" {
		id = "PivotTable1"
	}
	return &service.ObjectResult{ID: id, Message: "pivot table created"}, nil
}
