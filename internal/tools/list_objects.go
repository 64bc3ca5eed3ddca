package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type ListObjectsArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        *int   `zog:"sheetId"`
	ObjectId       string `zog:"objectId"`
}

var listObjectsArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Ptr(z.Int().GTE(0)),
	"objectId":       z.String(),
})

func AddListObjectsTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("list_objects",
		mcp.WithDescription("List charts and pivot tables. Backends that cannot enumerate a variant return a "+
			"partial list; ids are host-native and not portable across backends."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Description("Restrict to one worksheet [default: all sheets]"),
		),
		mcp.WithString("objectId",
			mcp.Description("Return only the object with this id"),
		),
	), handleListObjects)
}

func handleListObjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ListObjectsArguments{}
	if issues := listObjectsArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	objects, err := svc.GetAllObjects(ctx, service.ObjectQuery{
		SheetID: args.SheetId,
		ID:      args.ObjectId,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlBlock(objects))), nil
}
