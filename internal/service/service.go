// Package service defines the operation contract every spreadsheet host
// adapter implements, the shared validation enforced before any host call,
// and the cell-budget paging protocol for large reads.
package service

import (
	"context"

	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// DefaultCellLimit bounds a single read when the caller does not supply one.
const DefaultCellLimit = 5000

// Service is the uniform spreadsheet operation contract. Implementations
// own the translation to one host's native API; failures are per-operation
// and carry a Kind plus the offending field (see Error).
//
// Operations against the same workbook are expected to be invoked
// sequentially by the caller; implementations provide no internal locking.
type Service interface {
	// BackendName identifies the active host implementation.
	BackendName() string

	// GetSheets lists worksheet metadata. Empty slice when no workbook.
	GetSheets(ctx context.Context) ([]sheet.Metadata, error)
	// GetCellRanges reads the requested ranges, truncating at row
	// boundaries once cellLimit cells have been produced. Unprocessed
	// ranges come back in NextRanges for a follow-up call.
	GetCellRanges(ctx context.Context, p ReadParams) (*ReadResult, error)
	// SearchData finds cells matching a term in document order. An unknown
	// sheetId degrades to an empty result with a message, not an error.
	SearchData(ctx context.Context, p SearchParams) (*SearchResult, error)

	// SetCellRange writes a 2D cell grid. Within one call values are
	// written before formulas, before styles/borders/notes, before the
	// optional copy-to step, before resize. Formula results are read back
	// after the host settles.
	SetCellRange(ctx context.Context, p WriteParams) (*WriteResult, error)
	// CopyTo copies a source range to a destination, using the host's
	// native copy so relative formula references translate. A destination
	// larger than the source tiles the source pattern.
	CopyTo(ctx context.Context, sheetID int, sourceRange, destinationRange string) error
	// ClearCellRange clears contents, formats or both.
	ClearCellRange(ctx context.Context, sheetID int, rangeA1 string, clear ClearType) error
	// ResizeRange sets column widths and/or row heights.
	ResizeRange(ctx context.Context, p ResizeParams) error

	// ModifySheetStructure inserts/deletes/hides rows or columns, or
	// freezes/unfreezes panes.
	ModifySheetStructure(ctx context.Context, p StructureParams) error
	// ModifyWorkbookStructure creates, deletes, renames or duplicates a
	// worksheet.
	ModifyWorkbookStructure(ctx context.Context, p WorkbookParams) (*WorkbookResult, error)

	// GetAllObjects lists charts and pivot tables. Hosts that cannot
	// enumerate a variant return a partial list, never fabricated objects.
	GetAllObjects(ctx context.Context, p ObjectQuery) ([]sheet.Object, error)
	// ModifyObject creates, updates or deletes a chart or pivot table.
	// Source and anchor are immutable after creation.
	ModifyObject(ctx context.Context, p ObjectParams) (*ObjectResult, error)

	// ActivateSheet, SelectRange and ClearSelection are UI hints: no-ops
	// when the workbook, sheet or host UI is missing, never an error.
	ActivateSheet(ctx context.Context, sheetID int) error
	SelectRange(ctx context.Context, sheetID int, rangeA1 string) error
	ClearSelection(ctx context.Context) error
}

// ReadParams selects ranges for GetCellRanges.
type ReadParams struct {
	SheetID       int
	Ranges        []string
	IncludeStyles bool
	CellLimit     int
}

// ReadResult carries the read bundle plus the paging cursor.
type ReadResult struct {
	Result     sheet.RangeResult `json:"result"`
	HasMore    bool              `json:"hasMore"`
	NextRanges []string          `json:"nextRanges,omitempty"`
}

// SearchParams describes a search. SheetID nil searches every sheet.
type SearchParams struct {
	Term            string
	SheetID         *int
	Range           string
	MatchCase       bool
	MatchEntireCell bool
	MaxResults      int
	Offset          int
}

// SearchMatch is one matching cell.
type SearchMatch struct {
	SheetID   int    `json:"sheetId"`
	SheetName string `json:"sheetName"`
	Address   string `json:"address"`
	Value     string `json:"value"`
}

// SearchResult pages matches in document order: disjoint contiguous subsets,
// HasMore false only on the final page.
type SearchResult struct {
	Matches    []SearchMatch `json:"matches"`
	TotalFound int           `json:"totalFound"`
	HasMore    bool          `json:"hasMore"`
	NextOffset int           `json:"nextOffset,omitempty"`
	Message    string        `json:"message,omitempty"`
}

// WriteParams describes one SetCellRange call. Cells dimensions must match
// the range exactly.
type WriteParams struct {
	SheetID      int
	Range        string
	Cells        [][]sheet.Cell
	CopyToRange  string
	ResizeWidth  *float64
	ResizeHeight *float64
}

// WriteResult reports computed formula values for the formula cells written.
// Partial is set when the host failed mid-write and earlier mutations
// remain; the message never claims full success in that case.
type WriteResult struct {
	FormulaResults map[string]any `json:"formulaResults,omitempty"`
	Partial        bool           `json:"partial,omitempty"`
	Message        string         `json:"message,omitempty"`
}

// ClearType selects what ClearCellRange removes.
type ClearType string

const (
	ClearAll      ClearType = "all"
	ClearContents ClearType = "contents"
	ClearFormats  ClearType = "formats"
)

func ClearTypeValues() []ClearType {
	return []ClearType{ClearAll, ClearContents, ClearFormats}
}

// ResizeType selects how ResizeRange computes the new size.
type ResizeType string

const (
	ResizeAutofit  ResizeType = "autofit"
	ResizePoints   ResizeType = "points"
	ResizeStandard ResizeType = "standard"
)

func ResizeTypeValues() []ResizeType {
	return []ResizeType{ResizeAutofit, ResizePoints, ResizeStandard}
}

// ResizeParams describes a ResizeRange call. At least one of Width/Height is
// required unless Type is autofit or standard.
type ResizeParams struct {
	SheetID int
	Range   string
	Type    ResizeType
	Width   *float64
	Height  *float64
}

// StructureOp enumerates sheet structure edits.
type StructureOp string

const (
	StructInsert   StructureOp = "insert"
	StructDelete   StructureOp = "delete"
	StructHide     StructureOp = "hide"
	StructUnhide   StructureOp = "unhide"
	StructFreeze   StructureOp = "freeze"
	StructUnfreeze StructureOp = "unfreeze"
)

func StructureOpValues() []StructureOp {
	return []StructureOp{StructInsert, StructDelete, StructHide, StructUnhide, StructFreeze, StructUnfreeze}
}

// Dimension selects rows or columns for structure edits.
type Dimension string

const (
	DimRows    Dimension = "rows"
	DimColumns Dimension = "columns"
)

func DimensionValues() []Dimension {
	return []Dimension{DimRows, DimColumns}
}

// StructureParams describes a ModifySheetStructure call. Reference is a
// row range ("2:5") or column range ("B:C") naming the affected span;
// required for insert/delete/hide/unhide, forbidden for freeze/unfreeze.
// Dimension and Count are required for freeze and forbidden for unfreeze.
type StructureParams struct {
	SheetID   int
	Operation StructureOp
	Dimension Dimension
	Reference string
	Position  string // "before" or "after", insert only
	Count     int
}

// WorkbookOp enumerates workbook structure edits.
type WorkbookOp string

const (
	WbCreate    WorkbookOp = "create"
	WbDelete    WorkbookOp = "delete"
	WbRename    WorkbookOp = "rename"
	WbDuplicate WorkbookOp = "duplicate"
)

func WorkbookOpValues() []WorkbookOp {
	return []WorkbookOp{WbCreate, WbDelete, WbRename, WbDuplicate}
}

// WorkbookParams describes a ModifyWorkbookStructure call.
type WorkbookParams struct {
	Operation WorkbookOp
	SheetName string
	SheetID   *int
	NewName   string
	TabColor  string
}

// WorkbookResult reports the affected sheet.
type WorkbookResult struct {
	SheetID int    `json:"sheetId"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}

// ObjectQuery filters GetAllObjects. Nil SheetID means every sheet; a
// non-empty ID selects one object.
type ObjectQuery struct {
	SheetID *int
	ID      string
}

// ObjectOp enumerates object mutations.
type ObjectOp string

const (
	ObjCreate ObjectOp = "create"
	ObjUpdate ObjectOp = "update"
	ObjDelete ObjectOp = "delete"
)

func ObjectOpValues() []ObjectOp {
	return []ObjectOp{ObjCreate, ObjUpdate, ObjDelete}
}

// ObjectParams describes a ModifyObject call. Exactly one of Chart/Pivot is
// set, matching Type.
type ObjectParams struct {
	Operation ObjectOp
	SheetID   int
	ID        string
	Type      sheet.ObjectType
	Chart     *sheet.Chart
	Pivot     *sheet.PivotTable
}

// ObjectResult reports the created object's id.
type ObjectResult struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
