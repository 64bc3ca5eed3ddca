package tools

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type SheetStructureArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        int    `zog:"sheetId"`
	Operation      string `zog:"operation"`
	Dimension      string `zog:"dimension"`
	Reference      string `zog:"reference"`
	Position       string `zog:"position"`
	Count          int    `zog:"count"`
}

var sheetStructureArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"operation":      z.String().Required(),
	"dimension":      z.String(),
	"reference":      z.String(),
	"position":       z.String().Default("before"),
	"count":          z.Int().Default(0),
})

func AddSheetStructureTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("modify_sheet_structure",
		mcp.WithDescription("Insert, delete, hide or unhide rows/columns, or freeze/unfreeze panes."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("One of: insert, delete, hide, unhide, freeze, unfreeze"),
		),
		mcp.WithString("dimension",
			mcp.Description("rows or columns; required for everything except unfreeze"),
		),
		mcp.WithString("reference",
			mcp.Description("Row range (\"2:5\") or column range (\"B:C\") naming the affected span; "+
				"required for insert/delete/hide/unhide, forbidden for freeze/unfreeze"),
		),
		mcp.WithString("position",
			mcp.Description("insert only: before or after the reference [default: before]"),
		),
		mcp.WithNumber("count",
			mcp.Description("Rows/columns to insert, or panes to freeze; freeze requires it"),
		),
	), handleSheetStructure)
}

func handleSheetStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := SheetStructureArguments{}
	if issues := sheetStructureArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	err = svc.ModifySheetStructure(ctx, service.StructureParams{
		SheetID:   args.SheetId,
		Operation: service.StructureOp(args.Operation),
		Dimension: service.Dimension(args.Dimension),
		Reference: args.Reference,
		Position:  args.Position,
		Count:     args.Count,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, fmt.Sprintf("%s applied", args.Operation))), nil
}
