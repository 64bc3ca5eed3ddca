package tools

import (
	"context"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	imcp "github.com/martinsione/spreadsheets-agent/internal/mcp"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type SearchDataArguments struct {
	WorkbookTarget  string `zog:"workbookTarget"`
	Term            string `zog:"term"`
	SheetId         *int   `zog:"sheetId"`
	Range           string `zog:"range"`
	MatchCase       bool   `zog:"matchCase"`
	MatchEntireCell bool   `zog:"matchEntireCell"`
	MaxResults      int    `zog:"maxResults"`
	Offset          int    `zog:"offset"`
}

var searchDataArgumentsSchema = z.Struct(z.Shape{
	"workbookTarget":  z.String().Test(WorkbookTargetTest()).Required(),
	"term":            z.String().Required(),
	"sheetId":         z.Ptr(z.Int().GTE(0)),
	"range":           z.String(),
	"matchCase":       z.Bool().Default(false),
	"matchEntireCell": z.Bool().Default(false),
	"maxResults":      z.Int().Default(0),
	"offset":          z.Int().GTE(0).Default(0),
})

func AddSearchDataTool(server *server.MCPServer) {
	server.AddTool(mcp.NewTool("search_data",
		mcp.WithDescription("Find cells whose value matches a term, in document order. "+
			"Results are paged; pass offset from a previous call to continue."),
		mcp.WithString("workbookTarget",
			mcp.Required(),
			mcp.Description("Absolute path to the workbook file, or ws:// endpoint of a scripting server"),
		),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Text to search for"),
		),
		mcp.WithNumber("sheetId",
			mcp.Description("Restrict the search to one worksheet [default: all sheets]"),
		),
		mcp.WithString("range",
			mcp.Description("Restrict the search to an A1 range"),
		),
		mcp.WithBoolean("matchCase",
			mcp.Description("Case-sensitive matching"),
		),
		mcp.WithBoolean("matchEntireCell",
			mcp.Description("Match only cells whose entire value equals the term"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Max matches per page [default: 100 or SPREADSHEET_SEARCH_LIMIT]"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of matches to skip, from a previous page's nextOffset"),
		),
	), handleSearchData)
}

func handleSearchData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := SearchDataArguments{}
	if issues := searchDataArgumentsSchema.Parse(request.Params.Arguments, &args); len(issues) != 0 {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	config, issues := LoadConfig()
	if issues != nil {
		return imcp.NewToolResultZogIssueMap(issues), nil
	}
	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = config.SPREADSHEET_SEARCH_LIMIT
	}

	svc, release, err := openService(ctx, args.WorkbookTarget)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := svc.SearchData(ctx, service.SearchParams{
		Term:            args.Term,
		SheetID:         args.SheetId,
		Range:           args.Range,
		MatchCase:       args.MatchCase,
		MatchEntireCell: args.MatchEntireCell,
		MaxResults:      maxResults,
		Offset:          args.Offset,
	})
	if err != nil {
		return imcp.NewToolResultServiceError(err), nil
	}
	return mcp.NewToolResultText(resultText(svc, yamlBlock(result))), nil
}
