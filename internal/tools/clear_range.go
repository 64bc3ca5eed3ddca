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

type ClearRangeArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        int    `zog:"sheetId"`
	Range          string `zog:"range"`
	ClearType      string `zog:"clearType"`
}

var clearRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"range":          z.String().Required(),
	"clearType":      z.String().Default(string(service.ClearAll)),
})

func AddClearRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("clear_range",
		mcp.WithDescription("Clear contents, formats or both from a range."),
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
			mcp.Description("A1 range to clear"),
		),
		mcp.WithString("clearType",
			mcp.Description("What to clear: all, contents or formats [default: all]"),
		),
	), handleClearRange)
}

func handleClearRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ClearRangeArguments{}
	if issues := clearRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	err = svc.ClearCellRange(ctx, args.SheetId, args.Range, service.ClearType(args.ClearType))
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, fmt.Sprintf("cleared %s of %s", args.Range, args.ClearType))), nil
}
