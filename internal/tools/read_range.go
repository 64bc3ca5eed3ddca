package tools

import (
	"context"
	"fmt"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type ReadRangeArguments struct {
	WorkbookTarget string   `zog:"workbookTarget"`
	SheetId        int      `zog:"sheetId"`
	Ranges         []string `zog:"ranges"`
	IncludeStyles  bool     `zog:"includeStyles"`
	CellLimit      int      `zog:"cellLimit"`
}

var readRangeArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget": z.String().Test(WorkbookTargetTest()).Required(),
	"sheetId":        z.Int().GTE(0).Required(),
	"ranges":         z.Slice(z.String()).Min(1).Required(),
	"includeStyles":  z.Bool().Default(false),
	"cellLimit":      z.Int().Default(0),
})

func AddReadRangeTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("read_range",
		mcp.WithDescription("Read cell values, formulas, notes and optionally styles from ranges of a worksheet. "+
			"Large reads are truncated at a cell limit; unread ranges come back as nextRanges for a follow-up call."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithNumber("sheetId",
			mcp.Required(),
			mcp.Description("Worksheet id as reported by describe_sheets"),
		),
		imcp.WithArray("ranges",
			mcp.Required(),
			mcp.Description("A1 ranges to read (e.g. [\"A1:C10\", \"B:B\", \"5:10\"])"),
		),
		mcp.WithBoolean("includeStyles",
			mcp.Description("Include style and border diffs against the host defaults"),
		),
		mcp.WithNumber("cellLimit",
			mcp.Description("Max cells per call [default: 5000 or SPREADSHEET_CELL_LIMIT]"),
		),
	), handleReadRange)
}

func handleReadRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := ReadRangeArguments{}
	if issues := readRangeArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	config, issues := LoadConfig()
	if issues != nil {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	cellLimit := args.CellLimit
	if cellLimit <= 0 {
		cellLimit = config.SPREADSHEET_CELL_LIMIT
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := svc.GetCellRanges(ctx, service.ReadParams{
		SheetID:       args.SheetId,
		Ranges:        args.Ranges,
		IncludeStyles: args.IncludeStyles,
		CellLimit:     cellLimit,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}

	var b strings.Builder
	b.WriteString(yamlBlock(result.Result))
	b.WriteString("\n")
	if result.HasMore {
		b.WriteString("# more cells remain; call again with these ranges:\n")
		b.WriteString(fmt.Sprintf("# nextRanges: %s\n", yamlFlow(result.NextRanges)))
	}
	return mcp.NewToolResultText(resultText(svc, b.String())), nil
}
