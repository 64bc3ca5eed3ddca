package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type WorkbookStructureArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	Operation      string `zog:"operation"`
	SheetName      string `zog:"sheetName"`
	SheetId        *int   `zog:"sheetId"`
	NewName        string `zog:"newName"`
	TabColor       string `zog:"tabColor"`
}

var workbookStructureArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"operation":      z.String().Required(),
	"sheetName":      z.String(),
	"sheetId":        z.Ptr(z.Int().GTE(0)),
	"newName":        z.String(),
	"tabColor":       z.String(),
})

func AddWorkbookStructureTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("modify_workbook_structure",
		mcp.WithDescription("Create, delete, rename or duplicate a worksheet."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("One of: create, delete, rename, duplicate"),
		),
		mcp.WithString("sheetName",
			mcp.Description("Name for the new sheet (create)"),
		),
		mcp.WithNumber("sheetId",
			mcp.Description("Target worksheet id (delete, rename, duplicate)"),
		),
		mcp.WithString("newName",
			mcp.Description("New sheet name (rename; optional for duplicate)"),
		),
		mcp.WithString("tabColor",
			mcp.Description("Tab color as #RRGGBB (create, rename)"),
		),
	), handleWorkbookStructure)
}

func handleWorkbookStructure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := WorkbookStructureArguments{}
	if issues := workbookStructureArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := svc.ModifyWorkbookStructure(ctx, service.WorkbookParams{
		Operation: service.WorkbookOp(args.Operation),
		SheetName: args.SheetName,
		SheetID:   args.SheetId,
		NewName:   args.NewName,
		TabColor:  args.TabColor,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlFlow(result))), nil
}
