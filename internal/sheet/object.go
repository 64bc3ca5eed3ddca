package sheet

// ObjectType discriminates the spreadsheet object variants.
type ObjectType string

const (
	ObjectChart      ObjectType = "chart"
	ObjectPivotTable ObjectType = "pivotTable"
)

func ObjectTypeValues() []ObjectType {
	return []ObjectType{ObjectChart, ObjectPivotTable}
}

// Object is the polymorphic spreadsheet object: exactly one of Chart or
// PivotTable is set, per Type. The ID is host-native and opaque across
// hosts.
type Object struct {
	ID         string      `json:"id"`
	Type       ObjectType  `json:"type"`
	SheetID    int         `json:"sheetId"`
	Chart      *Chart      `json:"chart,omitempty"`
	PivotTable *PivotTable `json:"pivotTable,omitempty"`
}

// Chart describes a chart object. Source and Anchor are immutable after
// creation; changing them requires delete and recreate.
type Chart struct {
	ChartType ChartType `json:"chartType" zog:"chartType"`
	Title     string    `json:"title,omitempty" zog:"title"`
	Source    string    `json:"source,omitempty" zog:"source"`
	Anchor    string    `json:"anchor,omitempty" zog:"anchor"`
	// ReadOnlySeries is reported by hosts that expose series formulas but do
	// not allow editing them through this surface.
	ReadOnlySeries []string `json:"readOnlySeries,omitempty"`
}

// PivotTable describes a pivot table object. Source and Range are immutable
// after creation.
type PivotTable struct {
	Name    string       `json:"name,omitempty" zog:"name"`
	Range   string       `json:"range,omitempty" zog:"range"`
	Source  string       `json:"source,omitempty" zog:"source"`
	Rows    []PivotField `json:"rows,omitempty" zog:"rows"`
	Columns []PivotField `json:"columns,omitempty" zog:"columns"`
	Values  []PivotValue `json:"values,omitempty" zog:"values"`
}

// PivotField is a row or column grouping field.
type PivotField struct {
	Name string `json:"name" zog:"name"`
}

// PivotValue is an aggregated value field.
type PivotValue struct {
	Name        string      `json:"name" zog:"name"`
	SummarizeBy SummarizeBy `json:"summarizeBy,omitempty" zog:"summarizeBy"`
}

// ChartType enumerates the uniform chart type names. Hosts with a smaller
// native enumeration reject the rest with an unsupported error instead of
// guessing.
type ChartType string

const (
	ChartArea        ChartType = "area"
	ChartAreaStacked ChartType = "areaStacked"
	ChartBar         ChartType = "bar"
	ChartBarStacked  ChartType = "barStacked"
	ChartCol         ChartType = "col"
	ChartColStacked  ChartType = "colStacked"
	ChartLine        ChartType = "line"
	ChartLineStacked ChartType = "lineStacked"
	ChartPie         ChartType = "pie"
	ChartPie3D       ChartType = "pie3D"
	ChartDoughnut    ChartType = "doughnut"
	ChartRadar       ChartType = "radar"
	ChartScatter     ChartType = "scatter"
	ChartBubble      ChartType = "bubble"
	ChartStock       ChartType = "stock"
	ChartSurface     ChartType = "surface"
	ChartHistogram   ChartType = "histogram"
	ChartWaterfall   ChartType = "waterfall"
	ChartFunnel      ChartType = "funnel"
	ChartTreemap     ChartType = "treemap"
)

func ChartTypeValues() []ChartType {
	return []ChartType{
		ChartArea, ChartAreaStacked, ChartBar, ChartBarStacked,
		ChartCol, ChartColStacked, ChartLine, ChartLineStacked,
		ChartPie, ChartPie3D, ChartDoughnut, ChartRadar,
		ChartScatter, ChartBubble, ChartStock, ChartSurface,
		ChartHistogram, ChartWaterfall, ChartFunnel, ChartTreemap,
	}
}

// SummarizeBy enumerates pivot value aggregation functions.
type SummarizeBy string

const (
	SummarizeSum       SummarizeBy = "sum"
	SummarizeCount     SummarizeBy = "count"
	SummarizeAverage   SummarizeBy = "average"
	SummarizeMax       SummarizeBy = "max"
	SummarizeMin       SummarizeBy = "min"
	SummarizeProduct   SummarizeBy = "product"
	SummarizeCountNums SummarizeBy = "countNums"
	SummarizeStdDev    SummarizeBy = "stdDev"
	SummarizeStdDevp   SummarizeBy = "stdDevp"
	SummarizeVar       SummarizeBy = "var"
	SummarizeVarp      SummarizeBy = "varp"
)

func SummarizeByValues() []SummarizeBy {
	return []SummarizeBy{
		SummarizeSum, SummarizeCount, SummarizeAverage, SummarizeMax,
		SummarizeMin, SummarizeProduct, SummarizeCountNums,
		SummarizeStdDev, SummarizeStdDevp, SummarizeVar, SummarizeVarp,
	}
}
