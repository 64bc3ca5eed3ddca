package tools

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
)

type CopyRangeArguments struct {
	WorkbookTarget   string `zog:"workbookTarget"`
	SheetId          int    `zog:"sheetId"`
	SourceRange      string `zog:"sourceRange"`
	DestinationRange string `zog:"destinationRange"`
}

var copyRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget":   z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":          z.Int().GTE(0).Required(),
	"sourceRange":      z.String().Required(),
	"destinationRange": z.String().Required(),
})

func AddCopyRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("copy_range",
		mcp.WithDescription("Copy a range to a destination. Relative formula references translate by the copy "+
			"offset; a destination larger than the source tiles the source pattern."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		mcp.WithString("sourceRange",
			mcp.Required(),
			mcp.Description("A1 range to copy from"),
		),
		mcp.WithString("destinationRange",
			mcp.Required(),
			mcp.Description("A1 range to copy into"),
		),
	), handleCopyRange)
}

func handleCopyRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := CopyRangeArguments{}
	if issues := copyRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := svc.CopyTo(ctx, args.SheetId, args.SourceRange, args.DestinationRange); err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	message := fmt.Sprintf("copied %s to %s", args.SourceRange, args.DestinationRange)
	return mcp.NewToolResultText(resultText(svc, message)), nil
}
