package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/goccy/go-yaml"

	"github.com/martinsione/spreadsheets-agent/internal/host"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

// WorkbookTargetTest accepts an absolute file path or a ws:// / wss://
// scripting endpoint.
func WorkbookTargetTest() z.Test[*string] {
	return z.Test[*string]{
		Func: func(target *string, ctx z.Ctx) {
			t := *target
			if strings.HasPrefix(t, "ws://") || strings.HasPrefix(t, "wss://") {
				return
			}
			if !filepath.IsAbs(t) {
				ctx.AddIssue(ctx.Issue().SetMessage(fmt.Sprintf("target '%s' is neither an absolute path nor a ws:// endpoint", t)))
			}
		},
	}
}

// openService resolves the workbook target to a validated backend service.
func openService(ctx context.Context, target string) (service.Service, func(), error) {
	return host.Open(ctx, target)
}

// decodeCells converts the raw tool argument into the cell grid. The shape
// is too dynamic for a zog schema, so it round-trips through JSON against
// the cell's wire tags.
func decodeCells(raw any) ([][]sheet.Cell, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("cells must be a 2D array of cell objects: %w", err)
	}
	var cells [][]sheet.Cell
	if err := json.Unmarshal(payload, &cells); err != nil {
		return nil, fmt.Errorf("cells must be a 2D array of cell objects: %w", err)
	}
	return cells, nil
}

// yamlFlow renders a result structure as compact single-line YAML, which
// reads well inside tool output.
func yamlFlow(v any) string {
	out, err := yaml.MarshalWithOptions(v, yaml.Flow(true), yaml.OmitEmpty())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// yamlBlock renders a result structure as indented YAML for larger payloads.
func yamlBlock(v any) string {
	out, err := yaml.MarshalWithOptions(v, yaml.OmitEmpty())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// resultText assembles the standard tool output: the payload, then a
// metadata trailer naming the backend that served the call.
func resultText(svc service.Service, payload string) string {
	var b strings.Builder
	b.WriteString(payload)
	if !strings.HasSuffix(payload, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("# backend: %s\n", svc.BackendName()))
	return b.String()
}
