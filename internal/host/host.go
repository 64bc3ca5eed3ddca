// Package host selects a spreadsheet backend for a workbook target.
package host

import (
	"context"
	"strings"

	"github.com/martinsione/spreadsheets-agent/internal/host/grid"
	"github.com/martinsione/spreadsheets-agent/internal/host/ole"
	"github.com/martinsione/spreadsheets-agent/internal/host/remote"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

// Open resolves a workbook target to a backend and returns the service with
// its release function. A ws:// or wss:// target dials the scripting
// endpoint. A file path first tries to attach to a live desktop session
// holding the workbook, then falls back to opening the file in memory.
func Open(ctx context.Context, target string) (service.Service, func(), error) {
	if strings.HasPrefix(target, "ws://") || strings.HasPrefix(target, "wss://") {
		client, release, err := remote.Dial(ctx, target)
		if err != nil {
			return nil, func() {}, err
		}
		return service.WithValidation(client), release, nil
	}

	desktop, release, err := ole.Attach(target)
	if err == nil {
		return service.WithValidation(desktop), release, nil
	}
	// No live session for this workbook; work on the file directly.
	g, release, err := grid.Open(target)
	if err != nil {
		return nil, func() {}, err
	}
	return service.WithValidation(g), release, nil
}
