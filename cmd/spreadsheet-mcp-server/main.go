package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martinsione/spreadsheets-agent/internal/server"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "spreadsheet-mcp-server",
		Short:   "MCP server exposing spreadsheet operations over stdio",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.New(version).Start()
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start the server: %v\n", err)
		os.Exit(1)
	}
}
