package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/martinsione/spreadsheets-agent/internal/host/ole"
	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
)

type ScreenCaptureArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        int    `zog:"sheetId"`
	Range          string `zog:"range"`
}

var screenCaptureArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"range":          z.String().Required(),
})

func AddScreenCaptureTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("screen_capture",
		mcp.WithDescription("Capture a range as a PNG image. Requires a live desktop session holding the workbook; "+
			"other backends cannot render."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file open in a desktop session"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1 range to capture"),
		),
	), handleScreenCapture)
}

func handleScreenCapture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ScreenCaptureArguments{}
	if issues := screenCaptureArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	// Rendering needs the desktop host; no fallback makes sense here.
	desktop, release, err := ole.Attach(args.WorkbookTarget)
	if err != nil {
		return mcp.NewToolResultError("screen capture requires the workbook to be open in a desktop session"), nil
	}
	defer release()

	image, err := desktop.CapturePicture(args.SheetId, args.Range)
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultImage("captured "+args.Range, image, "image/png"), nil
}
