package tools

import (
	"context"
	"encoding/json"
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

type ModifyObjectArguments struct {
	WorkbookTarget string `zog:"workbookTarget"`
	SheetId        int    `zog:"sheetId"`
	Operation      string `zog:"operation"`
	Type           string `zog:"type"`
	ObjectId       string `zog:"objectId"`
}

var modifyObjectArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"operation":      z.String().Required(),
	"type":           z.String().Required(),
	"objectId":       z.String(),
})

func AddModifyObjectTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("modify_object",
		mcp.WithDescription("Create, update or delete a chart or pivot table. Source data and anchor are "+
			"immutable after creation; to change them, delete and recreate."),
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
			mcp.Description("One of: create, update, delete"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Object type: chart or pivotTable"),
		),
		mcp.WithString("objectId",
			mcp.Description("Object id from list_objects (update, delete)"),
		),
		imcp.WithObject("chart",
			mcp.Description("Chart definition: {\"chartType\": \"col\", \"title\": string, \"source\": \"A1:B10\", \"anchor\": \"D2\"}"),
		),
		imcp.WithObject("pivotTable",
			mcp.Description("Pivot definition: {\"name\": string, \"source\": \"A1:D100\", \"range\": \"F1\", "+
				"\"rows\": [{\"name\": \"Region\"}], \"values\": [{\"name\": \"Sales\", \"summarizeBy\": \"sum\"}]}"),
		),
	), handleModifyObject)
}

func handleModifyObject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ModifyObjectArguments{}
	if issues := modifyObjectArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}

	var chart *sheet.Chart
	if raw, ok := request.GetArguments()["chart"]; ok && raw != nil {
		chart = &sheet.Chart{}
		if err := decodeObjectArg(raw, chart); err != nil {
			return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
		}
	}
	var pivot *sheet.PivotTable
	if raw, ok := request.GetArguments()["pivotTable"]; ok && raw != nil {
		pivot = &sheet.PivotTable{}
		if err := decodeObjectArg(raw, pivot); err != nil {
			return imcp.NewToolResultInvalidArgumentError(err.Error()), nil
		}
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := svc.ModifyObject(ctx, service.ObjectParams{
		Operation: service.ObjectOp(args.Operation),
		SheetID:   args.SheetId,
		ID:        args.ObjectId,
		Type:      sheet.ObjectType(args.Type),
		Chart:     chart,
		Pivot:     pivot,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlFlow(result))), nil
}

func decodeObjectArg(raw, target any) error {
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("object definition must be a JSON object: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("object definition must be a JSON object: %w", err)
	}
	return nil
}
