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

// xlChartType constants for the full uniform enumeration. The desktop host
// is the only backend that covers all of it.
var chartTypeConsts = map[sheet.ChartType]int32{
	sheet.ChartArea:        1,     // xlArea
	sheet.ChartAreaStacked: 76,    // xlAreaStacked
	sheet.ChartBar:         57,    // xlBarClustered
	sheet.ChartBarStacked:  58,    // xlBarStacked
	sheet.ChartCol:         51,    // xlColumnClustered
	sheet.ChartColStacked:  52,    // xlColumnStacked
	sheet.ChartLine:        4,     // xlLine
	sheet.ChartLineStacked: 63,    // xlLineStacked
	sheet.ChartPie:         5,     // xlPie
	sheet.ChartPie3D:       -4102, // xl3DPie
	sheet.ChartDoughnut:    -4120, // xlDoughnut
	sheet.ChartRadar:       -4151, // xlRadar
	sheet.ChartScatter:     -4169, // xlXYScatter
	sheet.ChartBubble:      15,    // xlBubble
	sheet.ChartStock:       88,    // xlStockHLC
	sheet.ChartSurface:     83,    // xlSurface
	sheet.ChartHistogram:   118,   // xlHistogram
	sheet.ChartWaterfall:   119,   // xlWaterfall
	sheet.ChartFunnel:      123,   // xlFunnel
	sheet.ChartTreemap:     117,   // xlTreemap
}

func chartTypeName(constant int32) sheet.ChartType {
	for name, c := range chartTypeConsts {
		if c == constant {
			return name
		}
	}
	return ""
}

// xlPivotField orientations and consolidation functions.
const (
	xlRowField    = 1
	xlColumnField = 2
	xlDataField   = 4
)

var summarizeConsts = map[sheet.SummarizeBy]int32{
	sheet.SummarizeSum:       -4157, // xlSum
	sheet.SummarizeCount:     -4112, // xlCount
	sheet.SummarizeAverage:   -4106, // xlAverage
	sheet.SummarizeMax:       -4136, // xlMax
	sheet.SummarizeMin:       -4139, // xlMin
	sheet.SummarizeProduct:   -4149, // xlProduct
	sheet.SummarizeCountNums: -4113, // xlCountNums
	sheet.SummarizeStdDev:    -4155, // xlStDev
	sheet.SummarizeStdDevp:   -4156, // xlStDevP
	sheet.SummarizeVar:       -4164, // xlVar
	sheet.SummarizeVarp:      -4165, // xlVarP
}

func (d *Desktop) GetAllObjects(ctx context.Context, p service.ObjectQuery) ([]sheet.Object, error) {
	worksheets := oleutil.MustGetProperty(d.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()
	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)

	var ids []int
	if p.SheetID != nil {
		if *p.SheetID < 0 || *p.SheetID >= count {
			return nil, service.NotFoundf("sheet %d not found", *p.SheetID)
		}
		ids = []int{*p.SheetID}
	} else {
		ids = make([]int, count)
		for i := range ids {
			ids[i] = i
		}
	}

	objects := []sheet.Object{}
	for _, id := range ids {
		ws := oleutil.MustGetProperty(worksheets, "Item", id+1).ToIDispatch()
		objects = append(objects, sheetCharts(ws, id)...)
		objects = append(objects, sheetPivots(ws, id)...)
		ws.Release()
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

func sheetCharts(ws *ole.IDispatch, sheetID int) []sheet.Object {
	v, err := oleutil.GetProperty(ws, "ChartObjects")
	if err != nil {
		return nil
	}
	chartObjects := v.ToIDispatch()
	defer chartObjects.Release()

	count := int(oleutil.MustGetProperty(chartObjects, "Count").Val)
	objects := make([]sheet.Object, 0, count)
	for i := 1; i <= count; i++ {
		chartObject := oleutil.MustGetProperty(chartObjects, "Item", i).ToIDispatch()
		chart := oleutil.MustGetProperty(chartObject, "Chart").ToIDispatch()

		c := &sheet.Chart{}
		if constant, ok := oleutil.MustGetProperty(chart, "ChartType").Value().(int32); ok {
			c.ChartType = chartTypeName(constant)
		}
		if hasTitle, ok := oleutil.MustGetProperty(chart, "HasTitle").Value().(bool); ok && hasTitle {
			title := oleutil.MustGetProperty(chart, "ChartTitle").ToIDispatch()
			c.Title = oleutil.MustGetProperty(title, "Text").ToString()
			title.Release()
		}
		c.ReadOnlySeries = seriesFormulas(chart)
		if anchor, err := oleutil.GetProperty(chartObject, "TopLeftCell"); err == nil {
			cell := anchor.ToIDispatch()
			c.Anchor = normalizeAddress(oleutil.MustGetProperty(cell, "Address").ToString())
			cell.Release()
		}

		objects = append(objects, sheet.Object{
			ID:      oleutil.MustGetProperty(chartObject, "Name").ToString(),
			Type:    sheet.ObjectChart,
			SheetID: sheetID,
			Chart:   c,
		})
		chart.Release()
		chartObject.Release()
	}
	return objects
}

// seriesFormulas reports the series definitions. They are readable through
// this surface but only editable by recreating the chart.
func seriesFormulas(chart *ole.IDispatch) []string {
	v, err := oleutil.CallMethod(chart, "SeriesCollection")
	if err != nil {
		return nil
	}
	collection := v.ToIDispatch()
	defer collection.Release()
	count := int(oleutil.MustGetProperty(collection, "Count").Val)
	formulas := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		series := oleutil.MustGetProperty(collection, "Item", i).ToIDispatch()
		formulas = append(formulas, oleutil.MustGetProperty(series, "Formula").ToString())
		series.Release()
	}
	return formulas
}

func sheetPivots(ws *ole.IDispatch, sheetID int) []sheet.Object {
	v, err := oleutil.CallMethod(ws, "PivotTables")
	if err != nil {
		return nil
	}
	pivotTables := v.ToIDispatch()
	defer pivotTables.Release()

	count := int(oleutil.MustGetProperty(pivotTables, "Count").Val)
	objects := make([]sheet.Object, 0, count)
	for i := 1; i <= count; i++ {
		pivot := oleutil.MustGetProperty(pivotTables, "Item", i).ToIDispatch()
		name := oleutil.MustGetProperty(pivot, "Name").ToString()

		pt := &sheet.PivotTable{Name: name}
		tableRange := oleutil.MustGetProperty(pivot, "TableRange1").ToIDispatch()
		pt.Range = normalizeAddress(oleutil.MustGetProperty(tableRange, "Address").ToString())
		tableRange.Release()
		if source, err := oleutil.CallMethod(pivot, "SourceData"); err == nil {
			if s, ok := source.Value().(string); ok {
				pt.Source = s
			}
		}
		readPivotFields(pivot, pt)

		objects = append(objects, sheet.Object{
			ID:         name,
			Type:       sheet.ObjectPivotTable,
			SheetID:    sheetID,
			PivotTable: pt,
		})
		pivot.Release()
	}
	return objects
}

func readPivotFields(pivot *ole.IDispatch, pt *sheet.PivotTable) {
	v, err := oleutil.CallMethod(pivot, "PivotFields")
	if err != nil {
		return
	}
	fields := v.ToIDispatch()
	defer fields.Release()
	count := int(oleutil.MustGetProperty(fields, "Count").Val)
	for i := 1; i <= count; i++ {
		field := oleutil.MustGetProperty(fields, "Item", i).ToIDispatch()
		name := oleutil.MustGetProperty(field, "Name").ToString()
		orientation, _ := oleutil.MustGetProperty(field, "Orientation").Value().(int32)
		switch orientation {
		case xlRowField:
			pt.Rows = append(pt.Rows, sheet.PivotField{Name: name})
		case xlColumnField:
			pt.Columns = append(pt.Columns, sheet.PivotField{Name: name})
		case xlDataField:
			value := sheet.PivotValue{Name: name}
			if function, ok := oleutil.MustGetProperty(field, "Function").Value().(int32); ok {
				for by, c := range summarizeConsts {
					if c == function {
						value.SummarizeBy = by
						break
					}
				}
			}
			pt.Values = append(pt.Values, value)
		}
		field.Release()
	}
}

func (d *Desktop) ModifyObject(ctx context.Context, p service.ObjectParams) (*service.ObjectResult, error) {
	ws, err := d.sheet(p.SheetID)
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	switch p.Operation {
	case service.ObjCreate:
		if p.Type == sheet.ObjectChart {
			return d.createChart(ws, p.Chart)
		}
		return d.createPivot(ws, p.Pivot)
	case service.ObjUpdate:
		if p.Type == sheet.ObjectChart {
			return updateChart(ws, p.ID, p.Chart)
		}
		return updatePivot(ws, p.ID, p.Pivot)
	case service.ObjDelete:
		if p.Type == sheet.ObjectChart {
			return deleteChart(ws, p.ID)
		}
		return deletePivot(ws, p.ID)
	}
	return nil, service.Validationf("operation", "unknown operation %q", p.Operation)
}

func (d *Desktop) createChart(ws *ole.IDispatch, c *sheet.Chart) (*service.ObjectResult, error) {
	constant, ok := chartTypeConsts[c.ChartType]
	if !ok {
		return nil, service.Validationf("chartType", "unknown chart type %q", c.ChartType)
	}
	src, err := rangeOf(ws, c.Source)
	if err != nil {
		return nil, service.Validationf("source", "host rejected source range %q", c.Source)
	}
	defer src.Release()

	left, top := 0.0, 0.0
	if c.Anchor != "" {
		anchorRange, err := rangeOf(ws, c.Anchor)
		if err != nil {
			return nil, service.Validationf("anchor", "host rejected anchor %q", c.Anchor)
		}
		left, _ = oleutil.MustGetProperty(anchorRange, "Left").Value().(float64)
		top, _ = oleutil.MustGetProperty(anchorRange, "Top").Value().(float64)
		anchorRange.Release()
	}

	chartObjects := oleutil.MustGetProperty(ws, "ChartObjects").ToIDispatch()
	defer chartObjects.Release()
	v, err := oleutil.CallMethod(chartObjects, "Add", left, top, 360.0, 220.0)
	if err != nil {
		return nil, service.HostErr("add chart", err)
	}
	chartObject := v.ToIDispatch()
	defer chartObject.Release()
	chart := oleutil.MustGetProperty(chartObject, "Chart").ToIDispatch()
	defer chart.Release()

	if _, err := oleutil.CallMethod(chart, "SetSourceData", src); err != nil {
		return nil, service.HostErr("set chart source", err)
	}
	oleutil.MustPutProperty(chart, "ChartType", constant)
	if c.Title != "" {
		oleutil.MustPutProperty(chart, "HasTitle", true)
		title := oleutil.MustGetProperty(chart, "ChartTitle").ToIDispatch()
		oleutil.PutProperty(title, "Text", c.Title)
		title.Release()
	}
	id := oleutil.MustGetProperty(chartObject, "Name").ToString()
	return &service.ObjectResult{ID: id, Message: "chart created"}, nil
}

func findChartObject(ws *ole.IDispatch, id string) (*ole.IDispatch, error) {
	chartObjects := oleutil.MustGetProperty(ws, "ChartObjects").ToIDispatch()
	defer chartObjects.Release()
	count := int(oleutil.MustGetProperty(chartObjects, "Count").Val)
	for i := 1; i <= count; i++ {
		chartObject := oleutil.MustGetProperty(chartObjects, "Item", i).ToIDispatch()
		if oleutil.MustGetProperty(chartObject, "Name").ToString() == id {
			return chartObject, nil
		}
		chartObject.Release()
	}
	return nil, service.NotFoundf("chart %q not found", id)
}

func updateChart(ws *ole.IDispatch, id string, c *sheet.Chart) (*service.ObjectResult, error) {
	chartObject, err := findChartObject(ws, id)
	if err != nil {
		return nil, err
	}
	defer chartObject.Release()
	chart := oleutil.MustGetProperty(chartObject, "Chart").ToIDispatch()
	defer chart.Release()

	if c != nil && c.ChartType != "" {
		constant, ok := chartTypeConsts[c.ChartType]
		if !ok {
			return nil, service.Validationf("chartType", "unknown chart type %q", c.ChartType)
		}
		oleutil.MustPutProperty(chart, "ChartType", constant)
	}
	if c != nil && c.Title != "" {
		oleutil.MustPutProperty(chart, "HasTitle", true)
		title := oleutil.MustGetProperty(chart, "ChartTitle").ToIDispatch()
		oleutil.PutProperty(title, "Text", c.Title)
		title.Release()
	}
	return &service.ObjectResult{ID: id, Message: "chart updated"}, nil
}

func deleteChart(ws *ole.IDispatch, id string) (*service.ObjectResult, error) {
	chartObject, err := findChartObject(ws, id)
	if err != nil {
		return nil, err
	}
	defer chartObject.Release()
	if _, err := oleutil.CallMethod(chartObject, "Delete"); err != nil {
		return nil, service.HostErr("delete chart", err)
	}
	return &service.ObjectResult{ID: id, Message: "chart deleted"}, nil
}

func (d *Desktop) createPivot(ws *ole.IDispatch, pt *sheet.PivotTable) (*service.ObjectResult, error) {
	if _, err := addr.ParseRange(pt.Source); err != nil {
		return nil, service.Validationf("source", "%v", err)
	}
	sheetName := oleutil.MustGetProperty(ws, "Name").ToString()
	source := fmt.Sprintf("%s!%s", sheetName, pt.Source)

	target := pt.Range
	if target == "" {
		src, _ := addr.ParseRange(pt.Source)
		target = addr.CellName(src.StartRow, src.EndCol+2)
	}
	destination := fmt.Sprintf("%s!%s", sheetName, target)

	caches := oleutil.MustGetProperty(d.workbook, "PivotCaches").ToIDispatch()
	defer caches.Release()
	v, err := oleutil.CallMethod(caches, "Create", 1, source) // xlDatabase
	if err != nil {
		return nil, service.HostErr("create pivot cache", err)
	}
	cache := v.ToIDispatch()
	defer cache.Release()

	v, err = oleutil.CallMethod(cache, "CreatePivotTable", destination, pt.Name)
	if err != nil {
		return nil, service.HostErr("create pivot table", err)
	}
	pivot := v.ToIDispatch()
	defer pivot.Release()
	if err := configurePivotFields(pivot, pt); err != nil {
		return nil, err
	}
	id := oleutil.MustGetProperty(pivot, "Name").ToString()
	return &service.ObjectResult{ID: id, Message: "pivot table created"}, nil
}

func configurePivotFields(pivot *ole.IDispatch, pt *sheet.PivotTable) error {
	assign := func(name string, orientation int) (*ole.IDispatch, error) {
		v, err := oleutil.CallMethod(pivot, "PivotFields", name)
		if err != nil {
			return nil, service.Validationf("name", "pivot field %q not found in source", name)
		}
		field := v.ToIDispatch()
		if _, err := oleutil.PutProperty(field, "Orientation", orientation); err != nil {
			field.Release()
			return nil, service.HostErr("set pivot field orientation", err)
		}
		return field, nil
	}
	for _, f := range pt.Rows {
		field, err := assign(f.Name, xlRowField)
		if err != nil {
			return err
		}
		field.Release()
	}
	for _, f := range pt.Columns {
		field, err := assign(f.Name, xlColumnField)
		if err != nil {
			return err
		}
		field.Release()
	}
	for _, v := range pt.Values {
		field, err := assign(v.Name, xlDataField)
		if err != nil {
			return err
		}
		if constant, ok := summarizeConsts[v.SummarizeBy]; ok {
			oleutil.PutProperty(field, "Function", constant)
		}
		field.Release()
	}
	return nil
}

func findPivot(ws *ole.IDispatch, id string) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(ws, "PivotTables", id)
	if err != nil {
		return nil, service.NotFoundf("pivot table %q not found", id)
	}
	return v.ToIDispatch(), nil
}

func updatePivot(ws *ole.IDispatch, id string, pt *sheet.PivotTable) (*service.ObjectResult, error) {
	pivot, err := findPivot(ws, id)
	if err != nil {
		return nil, err
	}
	defer pivot.Release()
	if pt != nil {
		// Reset current groupings, then apply the new layout.
		clearPivotFields(pivot)
		if err := configurePivotFields(pivot, pt); err != nil {
			return nil, err
		}
	}
	if _, err := oleutil.CallMethod(pivot, "RefreshTable"); err != nil {
		return nil, service.HostErr("refresh pivot table", err)
	}
	return &service.ObjectResult{ID: id, Message: "pivot table updated"}, nil
}

func clearPivotFields(pivot *ole.IDispatch) {
	v, err := oleutil.CallMethod(pivot, "PivotFields")
	if err != nil {
		return
	}
	fields := v.ToIDispatch()
	defer fields.Release()
	count := int(oleutil.MustGetProperty(fields, "Count").Val)
	for i := 1; i <= count; i++ {
		field := oleutil.MustGetProperty(fields, "Item", i).ToIDispatch()
		oleutil.PutProperty(field, "Orientation", 0) // xlHidden
		field.Release()
	}
}

func deletePivot(ws *ole.IDispatch, id string) (*service.ObjectResult, error) {
	pivot, err := findPivot(ws, id)
	if err != nil {
		return nil, err
	}
	defer pivot.Release()
	tableRange := oleutil.MustGetProperty(pivot, "TableRange2").ToIDispatch()
	defer tableRange.Release()
	if _, err := oleutil.CallMethod(tableRange, "Clear"); err != nil {
		return nil, service.HostErr("delete pivot table", err)
	}
	return &service.ObjectResult{ID: id, Message: "pivot table deleted"}, nil
}
