// Package server assembles the MCP server and registers every tool.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/martinsione/spreadsheets-agent/internal/tools"
)

type SpreadsheetServer struct {
	server *server.MCPServer
}

func New(version string) *SpreadsheetServer {
	s := &SpreadsheetServer{}
	s.server = server.NewMCPServer(
		"spreadsheet-mcp-server",
		version,
	)
	tools.AddDescribeSheetsTool(s.server)
	tools.AddReadRangeTool(s.server)
	tools.AddSearchDataTool(s.server)
	tools.AddWriteRangeTool(s.server)
	tools.AddCopyRangeTool(s.server)
	tools.AddClearRangeTool(s.server)
	tools.AddResizeRangeTool(s.server)
	tools.AddSheetStructureTool(s.server)
	tools.AddWorkbookStructureTool(s.server)
	tools.AddListObjectsTool(s.server)
	tools.AddModifyObjectTool(s.server)
	tools.AddSelectRangeTool(s.server)
	tools.AddScreenCaptureTool(s.server)
	return s
}

func (s *SpreadsheetServer) Start() error {
	return server.ServeStdio(s.server)
}
