package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type WriteRangeArguments struct {
	WorkbookTarget string   `zog:"workbookTarget"`
	SheetId        int      `zog:"sheetId"`
	Range          string   `zog:"range"`
	CopyToRange    string   `zog:"copyToRange"`
	ResizeWidth    *float64 `zog:"resizeWidth"`
	ResizeHeight   *float64 `zog:"resizeHeight"`
}

var writeRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"range":          z.String().Required(),
	"copyToRange":    z.String(),
	"resizeWidth":    z.Ptr(z.Float64()),
	"resizeHeight":   z.Ptr(z.Float64()),
})

func AddWriteRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("write_range",
		mcp.WithDescription("Write a 2D grid of cells to a range: values, formulas, notes, styles and borders. "+
			"Values are applied before formulas, before formatting, before the optional copy-to step, before resize. "+
			"Formula results are reported back after the host recalculates."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1 range to write; the cells grid must match its dimensions exactly"),
		),
		imcp.WithArray("cells",
			mcp.Required(),
			mcp.Description("2D array of cell objects: {\"value\": any, \"formula\": \"=SUM(A1:A3)\", \"note\": string, "+
				"\"cellStyles\": {\"b\": true, \"fc\": \"#FF0000\", ...}, \"borderStyles\": {\"top\": {\"style\": \"solid\"}, ...}}"),
		),
		mcp.WithString("copyToRange",
			mcp.Description("After writing, copy the written range here; a larger destination tiles the pattern"),
		),
		mcp.WithNumber("resizeWidth",
			mcp.Description("Column width in points to apply to the range after writing"),
		),
		mcp.WithNumber("resizeHeight",
			mcp.Description("Row height in points to apply to the range after writing"),
		),
	), handleWriteRange)
}

func handleWriteRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := WriteRangeArguments{}
	if issues := writeRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	cells, err := decodeCells(request.GetArguments()["cells"])
	if err != nil {
		return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := svc.SetCellRange(ctx, service.WriteParams{
		SheetID:      args.SheetId,
		Range:        args.Range,
		Cells:        cells,
		CopyToRange:  args.CopyToRange,
		ResizeWidth:  args.ResizeWidth,
		ResizeHeight: args.ResizeHeight,
	})
	if err != nil {
		if result != nil && result.Partial {
			return imcp.NewToolResultPartialWrite(result.Message, err), nil
		}
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlBlock(result))), nil
}
