package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
)

type DescribeSheetsArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
}

var describeSheetsArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
})

func AddDescribeSheetsTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("describe_sheets",
		mcp.WithDescription("List all worksheets in a workbook with their ids and used dimensions."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
	), handleDescribeSheets)
}

func handleDescribeSheets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := DescribeSheetsArguments{}
	if issues := describeSheetsArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	sheets, err := svc.GetSheets(ctx)
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlBlock(sheets))), nil
}
