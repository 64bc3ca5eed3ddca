package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func callRequest(arguments map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = arguments
	return request
}

func resultError(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || !result.IsError {
		t.Fatalf("expected an error result, got %+v", result)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T", result.Content[0])
	}
	return text.Text
}

func TestWriteRangeRejectsMalformedCells(t *testing.T) {
	result, err := handleWriteRange(context.Background(), callRequest(map[string]any{
		"workbookTarget": "/data/books/model.xlsx",
		"sheetId":        1.0,
		"range":          "A1",
		"cells":          "nope",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultError(t, result)
	if !strings.Contains(text, "Invalid argument") {
		t.Fatalf("error text = %q", text)
	}
}

func TestModifyObjectRejectsMalformedChart(t *testing.T) {
	result, err := handleModifyObject(context.Background(), callRequest(map[string]any{
		"workbookTarget": "/data/books/model.xlsx",
		"sheetId":        1.0,
		"operation":      "create",
		"type":           "chart",
		"chart":          "nope",
	}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultError(t, result)
	if !strings.Contains(text, "Invalid argument") {
		t.Fatalf("error text = %q", text)
	}
}
