package tools

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
)

type SelectRangeArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        int    `zog:"sheetId"`
	Range          string `zog:"range"`
	Clear          bool   `zog:"clear"`
}

var selectRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Default(0),
	"range":          z.String(),
	"clear":          z.Bool().Default(false),
})

func AddSelectRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("select_range",
		mcp.WithDescription("Activate a worksheet and select a range to guide the user's attention. "+
			"This is a UI hint: hosts without a visible view treat it as a no-op."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Description("Worksheet id to activate"),
		),
		mcp.WithString("range",
			mcp.Description("A1 range to select; omit to just activate the sheet"),
		),
		mcp.WithBoolean("clear",
			mcp.Description("Clear the current selection instead of making one"),
		),
	), handleSelectRange)
}

func handleSelectRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := SelectRangeArguments{}
	if issues := selectRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	if args.Clear {
		if err := svc.ClearSelection(ctx); err != nil {
			return imcp.NewToolResultServiceError(err), nil
		}
		return mcp.NewToolResultText(resultText(svc, "selection cleared")), nil
	}
	if args.Range == "" {
		if err := svc.ActivateSheet(ctx, args.SheetId); err != nil {
			return imcp.NewToolResultServiceError(err), nil
		}
		return mcp.NewToolResultText(resultText(svc, fmt.Sprintf("sheet %d activated", args.SheetId))), nil
	}
	if err := svc.SelectRange(ctx, args.SheetId, args.Range); err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, fmt.Sprintf("selected %s", args.Range))), nil
}
