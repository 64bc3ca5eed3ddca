package tools

import (
	"strings"
	"testing"

	z "github.com/Oudwins/zog"

	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// fakeBackend satisfies the service contract for output formatting tests;
// only BackendName is ever called.
type fakeBackend struct{ service.Service }

func (fakeBackend) BackendName() string { return "fake" }

func TestWorkbookTargetTest(t *testing.T) {
	schema := z.Struct(z.Shape{
		"target": z.String().Test(WorkbookTargetTest()).Required(),
	})
	type args struct {
		Target string `zog:"target"`
	}

	tests := []struct {
		name   string
		target string
		ok     bool
	}{
		{"websocket endpoint", "ws://localhost:9222/session", true},
		{"secure websocket endpoint", "wss://sheets.example.com/ws", true},
		{"absolute path", "/data/books/model.xlsx", true},
		{"relative path", "books/model.xlsx", false},
		{"bare name", "model.xlsx", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := args{}
			issues := schema.Parse(map[string]any{"target": tt.target}, &parsed)
			if tt.ok && len(issues) != 0 {
				t.Fatalf("target %q rejected: %v", tt.target, issues)
			}
			if !tt.ok && len(issues) == 0 {
				t.Fatalf("target %q accepted", tt.target)
			}
		})
	}
}

func TestDecodeCells(t *testing.T) {
	raw := []any{
		[]any{
			map[string]any{"value": 1.0},
			map[string]any{
				"formula":    "=A1*2",
				"note":       "doubled",
				"cellStyles": map[string]any{"b": true, "fc": "#FF0000"},
				"borderStyles": map[string]any{
					"top": map[string]any{"style": "solid", "weight": "thick"},
				},
			},
		},
	}

	cells, err := decodeCells(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 1 || len(cells[0]) != 2 {
		t.Fatalf("shape = %dx%d", len(cells), len(cells[0]))
	}
	if cells[0][0].Value != 1.0 {
		t.Fatalf("value = %v", cells[0][0].Value)
	}
	c := cells[0][1]
	if c.Formula != "=A1*2" || c.Note != "doubled" {
		t.Fatalf("cell = %+v", c)
	}
	if c.CellStyles == nil || !c.CellStyles.Bold || c.CellStyles.FontColor != "#FF0000" {
		t.Fatalf("styles = %+v", c.CellStyles)
	}
	if c.BorderStyles == nil || c.BorderStyles.Top == nil ||
		c.BorderStyles.Top.Style != sheet.BorderSolid || c.BorderStyles.Top.Weight != sheet.WeightThick {
		t.Fatalf("borders = %+v", c.BorderStyles)
	}

	if _, err := decodeCells("not an array"); err == nil {
		t.Fatal("scalar input accepted")
	}
	if _, err := decodeCells([]any{"not a row"}); err == nil {
		t.Fatal("non-row input accepted")
	}
}

func TestResultText(t *testing.T) {
	got := resultText(fakeBackend{}, "cells: {A1: 1}")
	if !strings.HasSuffix(got, "# backend: fake\n") {
		t.Fatalf("trailer missing: %q", got)
	}
	if !strings.HasPrefix(got, "cells: {A1: 1}\n") {
		t.Fatalf("payload mangled: %q", got)
	}
}

func TestYamlFlow(t *testing.T) {
	got := yamlFlow(map[string]any{"matches": 3})
	if strings.Contains(got, "\n") {
		t.Fatalf("flow output spans lines: %q", got)
	}
	if !strings.Contains(got, "matches") {
		t.Fatalf("output = %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, issues := LoadConfig()
	if len(issues) != 0 {
		t.Fatalf("issues: %v", issues)
	}
	if config.SPREADSHEET_CELL_LIMIT != 5000 {
		t.Fatalf("cell limit default = %d", config.SPREADSHEET_CELL_LIMIT)
	}
	if config.SPREADSHEET_SEARCH_LIMIT != 100 {
		t.Fatalf("search limit default = %d", config.SPREADSHEET_SEARCH_LIMIT)
	}
}

func TestLoadConfigOverride(t *testing.T) {
	t.Setenv("SPREADSHEET_CELL_LIMIT", "250")
	config, issues := LoadConfig()
	if len(issues) != 0 {
		t.Fatalf("issues: %v", issues)
	}
	if config.SPREADSHEET_CELL_LIMIT != 250 {
		t.Fatalf("cell limit = %d", config.SPREADSHEET_CELL_LIMIT)
	}
}
