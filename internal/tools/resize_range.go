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

type ResizeRangeArguments struct {
	WorkbookTarget string   `zog:"workbookTarget"`
	SheetId        int      `zog:"sheetId"`
	Range          string   `zog:"range"`
	Type           string   `zog:"type"`
	Width          *float64 `zog:"width"`
	Height         *float64 `zog:"height"`
}

var resizeRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"range":          z.String(),
	"type":           z.String().Default(string(service.ResizePoints)),
	"width":          z.Ptr(z.Float64()),
	"height":         z.Ptr(z.Float64()),
})

func AddResizeRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("resize_range",
		mcp.WithDescription("Set column widths and/or row heights for a range. "+
			"Autofit sizes to content where the backend supports it."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		mcp.WithString("range",
			mcp.Description("A1 range to resize [default: the used range]"),
		),
		mcp.WithString("type",
			mcp.Description("Resize mode: autofit, points or standard [default: points]"),
		),
		mcp.WithNumber("width",
			mcp.Description("Column width in points (type=points)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Row height in points (type=points)"),
		),
	), handleResizeRange)
}

func handleResizeRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ResizeRangeArguments{}
	if issues := resizeRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	err = svc.ResizeRange(ctx, service.ResizeParams{
		SheetID: args.SheetId,
		Range:   args.Range,
		Type:    service.ResizeType(args.Type),
		Width:   args.Width,
		Height:  args.Height,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, fmt.Sprintf("resized %s", args.Range))), nil
}
