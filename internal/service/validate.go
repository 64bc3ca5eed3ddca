package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// WithValidation wraps a Service so every call is validated before it can
// reach the host: malformed input fails fast with no partial mutation,
// regardless of which adapter sits underneath.
func WithValidation(s Service) Service {
	return &validated{Service: s}
}

type validated struct {
	Service
}

func fieldIndex(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}

func (v *validated) GetCellRanges(ctx context.Context, p ReadParams) (*ReadResult, error) {
	if len(p.Ranges) == 0 {
		return nil, Validationf("ranges", "at least one range is required")
	}
	if _, err := ParseRanges(p.Ranges); err != nil {
		return nil, err
	}
	return v.Service.GetCellRanges(ctx, p)
}

func (v *validated) SearchData(ctx context.Context, p SearchParams) (*SearchResult, error) {
	if strings.TrimSpace(p.Term) == "" {
		return nil, Validationf("searchTerm", "search term is required")
	}
	if p.Range != "" {
		if _, err := addr.ParseRange(p.Range); err != nil {
			return nil, Validationf("range", "%v", err)
		}
	}
	if p.Offset < 0 {
		return nil, Validationf("offset", "must not be negative")
	}
	return v.Service.SearchData(ctx, p)
}

func (v *validated) SetCellRange(ctx context.Context, p WriteParams) (*WriteResult, error) {
	r, err := addr.ParseRange(p.Range)
	if err != nil {
		return nil, Validationf("range", "%v", err)
	}
	if len(p.Cells) != r.Rows() {
		return nil, Validationf("cells", "expected %d rows for range %s, got %d", r.Rows(), p.Range, len(p.Cells))
	}
	for i, row := range p.Cells {
		if len(row) != r.Cols() {
			return nil, Validationf(fieldIndex("cells", i), "expected %d columns, got %d", r.Cols(), len(row))
		}
		for j, c := range row {
			if c.CellStyles != nil {
				if err := validateStyle(c.CellStyles); err != nil {
					return nil, Validationf(fmt.Sprintf("cells[%d][%d].cellStyles", i, j), "%v", err)
				}
			}
			if c.BorderStyles != nil {
				if err := validateBorders(c.BorderStyles); err != nil {
					return nil, Validationf(fmt.Sprintf("cells[%d][%d].borderStyles", i, j), "%v", err)
				}
			}
		}
	}
	if p.CopyToRange != "" {
		if _, err := addr.ParseRange(p.CopyToRange); err != nil {
			return nil, Validationf("copyToRange", "%v", err)
		}
	}
	return v.Service.SetCellRange(ctx, p)
}

func (v *validated) CopyTo(ctx context.Context, sheetID int, sourceRange, destinationRange string) error {
	if _, err := addr.ParseRange(sourceRange); err != nil {
		return Validationf("sourceRange", "%v", err)
	}
	if _, err := addr.ParseRange(destinationRange); err != nil {
		return Validationf("destinationRange", "%v", err)
	}
	return v.Service.CopyTo(ctx, sheetID, sourceRange, destinationRange)
}

func (v *validated) ClearCellRange(ctx context.Context, sheetID int, rangeA1 string, clear ClearType) error {
	if _, err := addr.ParseRange(rangeA1); err != nil {
		return Validationf("range", "%v", err)
	}
	if !slices.Contains(ClearTypeValues(), clear) {
		return Validationf("clearType", "must be one of all, contents, formats")
	}
	return v.Service.ClearCellRange(ctx, sheetID, rangeA1, clear)
}

func (v *validated) ResizeRange(ctx context.Context, p ResizeParams) error {
	if p.Range != "" {
		if _, err := addr.ParseRange(p.Range); err != nil {
			return Validationf("range", "%v", err)
		}
	}
	if p.Type != "" && !slices.Contains(ResizeTypeValues(), p.Type) {
		return Validationf("type", "must be one of autofit, points, standard")
	}
	if p.Type == ResizePoints || p.Type == "" {
		if p.Width == nil && p.Height == nil {
			return Validationf("width", "at least one of width or height is required")
		}
	}
	return v.Service.ResizeRange(ctx, p)
}

func (v *validated) ModifySheetStructure(ctx context.Context, p StructureParams) error {
	if !slices.Contains(StructureOpValues(), p.Operation) {
		return Validationf("operation", "unknown operation %q", p.Operation)
	}
	needsRef := p.Operation == StructInsert || p.Operation == StructDelete ||
		p.Operation == StructHide || p.Operation == StructUnhide
	switch {
	case needsRef && p.Reference == "":
		return Validationf("reference", "required for %s", p.Operation)
	case !needsRef && p.Reference != "":
		return Validationf("reference", "not allowed for %s", p.Operation)
	}
	switch p.Operation {
	case StructFreeze:
		if p.Dimension == "" {
			return Validationf("dimension", "required for freeze")
		}
		if p.Count <= 0 {
			return Validationf("count", "required for freeze")
		}
	case StructUnfreeze:
		if p.Dimension != "" {
			return Validationf("dimension", "not allowed for unfreeze")
		}
		if p.Count != 0 {
			return Validationf("count", "not allowed for unfreeze")
		}
	default:
		if p.Dimension == "" {
			return Validationf("dimension", "required for %s", p.Operation)
		}
	}
	if p.Dimension != "" && !slices.Contains(DimensionValues(), p.Dimension) {
		return Validationf("dimension", "must be rows or columns")
	}
	if p.Reference != "" {
		if _, err := addr.ParseRange(p.Reference); err != nil {
			return Validationf("reference", "%v", err)
		}
	}
	return v.Service.ModifySheetStructure(ctx, p)
}

func (v *validated) ModifyWorkbookStructure(ctx context.Context, p WorkbookParams) (*WorkbookResult, error) {
	switch p.Operation {
	case WbCreate:
		if p.SheetName == "" {
			return nil, Validationf("sheetName", "required for create")
		}
	case WbDelete:
		if p.SheetID == nil {
			return nil, Validationf("sheetId", "required for delete")
		}
	case WbRename:
		if p.SheetID == nil {
			return nil, Validationf("sheetId", "required for rename")
		}
		if p.NewName == "" {
			return nil, Validationf("newName", "required for rename")
		}
	case WbDuplicate:
		if p.SheetID == nil {
			return nil, Validationf("sheetId", "required for duplicate")
		}
	default:
		return nil, Validationf("operation", "unknown operation %q", p.Operation)
	}
	return v.Service.ModifyWorkbookStructure(ctx, p)
}

func (v *validated) ModifyObject(ctx context.Context, p ObjectParams) (*ObjectResult, error) {
	if !slices.Contains(sheet.ObjectTypeValues(), p.Type) {
		return nil, Validationf("objectType", "must be chart or pivotTable")
	}
	switch p.Operation {
	case ObjCreate:
		switch p.Type {
		case sheet.ObjectChart:
			if p.Chart == nil || p.Chart.ChartType == "" {
				return nil, Validationf("properties.chartType", "required on create")
			}
			if !slices.Contains(sheet.ChartTypeValues(), p.Chart.ChartType) {
				return nil, Validationf("properties.chartType", "unknown chart type %q", p.Chart.ChartType)
			}
			if p.Chart.Source == "" {
				return nil, Validationf("properties.source", "required on create")
			}
		case sheet.ObjectPivotTable:
			if p.Pivot == nil || p.Pivot.Source == "" {
				return nil, Validationf("properties.source", "required on create")
			}
			for i, val := range p.Pivot.Values {
				if val.SummarizeBy != "" && !slices.Contains(sheet.SummarizeByValues(), val.SummarizeBy) {
					return nil, Validationf(fieldIndex("properties.values", i), "unknown summarizeBy %q", val.SummarizeBy)
				}
			}
		}
	case ObjUpdate:
		if p.ID == "" {
			return nil, Validationf("id", "required on update")
		}
		// Source and anchor/range are fixed at creation; callers delete and
		// recreate to move an object.
		if p.Chart != nil && (p.Chart.Source != "" || p.Chart.Anchor != "") {
			return nil, Unsupportedf("chart source and anchor cannot be changed after creation; delete and recreate")
		}
		if p.Pivot != nil && (p.Pivot.Source != "" || p.Pivot.Range != "") {
			return nil, Unsupportedf("pivot table source and range cannot be changed after creation; delete and recreate")
		}
	case ObjDelete:
		if p.ID == "" {
			return nil, Validationf("id", "required on delete")
		}
	default:
		return nil, Validationf("operation", "unknown operation %q", p.Operation)
	}
	return v.Service.ModifyObject(ctx, p)
}

func (v *validated) SelectRange(ctx context.Context, sheetID int, rangeA1 string) error {
	if rangeA1 != "" {
		if _, err := addr.ParseRange(rangeA1); err != nil {
			return Validationf("range", "%v", err)
		}
	}
	return v.Service.SelectRange(ctx, sheetID, rangeA1)
}

func validateStyle(s *sheet.StyleSet) error {
	if s.HAlign != "" && !slices.Contains(sheet.HAlignValues(), s.HAlign) {
		return fmt.Errorf("unknown horizontal alignment %q", s.HAlign)
	}
	return nil
}

func validateBorders(b *sheet.BorderSet) error {
	for _, edge := range []*sheet.BorderEdge{b.Top, b.Bottom, b.Left, b.Right} {
		if edge == nil {
			continue
		}
		if !slices.Contains(sheet.BorderLineValues(), edge.Style) {
			return fmt.Errorf("unknown border style %q", edge.Style)
		}
		if edge.Weight != "" && !slices.Contains(sheet.BorderWeightValues(), edge.Weight) {
			return fmt.Errorf("unknown border weight %q", edge.Weight)
		}
	}
	return nil
}
