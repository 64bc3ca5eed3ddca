package mcp

import (
	"fmt"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/martinsione/spreadsheets-agent/internal/service"
)

func NewToolResultInvalidArgumentError(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Invalid argument: %s", message))
}

func NewToolResultZogIssueMap(errs z.ZogIssueMap) *mcp.CallToolResult {
	issues := z.Issues.SanitizeMap(errs)

	var issueResults []mcp.Content
	for k, messages := range issues {
		for _, message := range messages {
			issueResults = append(issueResults, mcp.NewTextContent(fmt.Sprintf("Invalid argument: %s: %s", k, message)))
		}
	}

	return &mcp.CallToolResult{
		Content: issueResults,
		IsError: true,
	}
}

// NewToolResultPartialWrite reports a write that failed midway. The message
// must never claim full success.
func NewToolResultPartialWrite(message string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Partial write: %s (%s)", message, err.Error()))
}

// NewToolResultServiceError translates the service error taxonomy into a
// tool error message the caller can act on.
func NewToolResultServiceError(err error) *mcp.CallToolResult {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return mcp.NewToolResultError(fmt.Sprintf("Not found: %s", err.Error()))
	case service.KindValidation:
		return NewToolResultInvalidArgumentError(err.Error())
	case service.KindUnsupported:
		return mcp.NewToolResultError(fmt.Sprintf("Unsupported by this backend: %s", err.Error()))
	}
	return mcp.NewToolResultError(err.Error())
}
