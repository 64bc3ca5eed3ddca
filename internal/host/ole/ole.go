// Package ole implements the spreadsheet service against a live desktop
// application session over COM automation. One session attaches to an
// already-open workbook; screen updating and event dispatch are suspended
// for the lifetime of the session and restored on release.
package ole

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
	"github.com/martinsione/spreadsheets-agent/internal/sheet"
)

type Desktop struct {
	application *ole.IDispatch
	workbook    *ole.IDispatch
}

// Attach connects to a running application instance and locates the open
// workbook for the given path. The returned release function restores the
// suspended UI state and tears down COM; it must run on every exit path.
func Attach(absolutePath string) (*Desktop, func(), error) {
	runtime.LockOSThread()
	ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED)

	unknown, err := oleutil.GetActiveObject("Excel.Application")
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, func() {}, err
	}
	app, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		return nil, func() {}, err
	}
	oleutil.MustPutProperty(app, "ScreenUpdating", false)
	oleutil.MustPutProperty(app, "EnableEvents", false)

	workbooks := oleutil.MustGetProperty(app, "Workbooks").ToIDispatch()
	count := int(oleutil.MustGetProperty(workbooks, "Count").Val)
	for i := 1; i <= count; i++ {
		workbook := oleutil.MustGetProperty(workbooks, "Item", i).ToIDispatch()
		fullName := oleutil.MustGetProperty(workbook, "FullName").ToString()
		if normalizePath(fullName) != normalizePath(absolutePath) {
			workbook.Release()
			continue
		}
		release := func() {
			oleutil.MustPutProperty(app, "EnableEvents", true)
			oleutil.MustPutProperty(app, "ScreenUpdating", true)
			workbook.Release()
			workbooks.Release()
			app.Release()
			ole.CoUninitialize()
			runtime.UnlockOSThread()
		}
		return &Desktop{application: app, workbook: workbook}, release, nil
	}

	oleutil.MustPutProperty(app, "EnableEvents", true)
	oleutil.MustPutProperty(app, "ScreenUpdating", true)
	workbooks.Release()
	app.Release()
	ole.CoUninitialize()
	runtime.UnlockOSThread()
	return nil, func() {}, fmt.Errorf("workbook not open: %s", absolutePath)
}

func (d *Desktop) BackendName() string { return "ole" }

// Save writes the workbook back through the host.
func (d *Desktop) Save() error {
	_, err := oleutil.CallMethod(d.workbook, "Save")
	if err != nil {
		return service.HostErr("save", err)
	}
	return nil
}

// sheet resolves a sheet id (zero-based worksheet position) to its COM
// object. The caller releases it.
func (d *Desktop) sheet(sheetID int) (*ole.IDispatch, error) {
	worksheets := oleutil.MustGetProperty(d.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()
	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)
	if sheetID < 0 || sheetID >= count {
		return nil, service.NotFoundf("sheet %d not found", sheetID)
	}
	return oleutil.MustGetProperty(worksheets, "Item", sheetID+1).ToIDispatch(), nil
}

// rangeOf returns a Range COM object for an A1 reference on the sheet.
func rangeOf(ws *ole.IDispatch, reference string) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(ws, "Range", reference)
	if err != nil {
		return nil, service.Validationf("range", "host rejected range %q", reference)
	}
	return v.ToIDispatch(), nil
}

func (d *Desktop) GetSheets(ctx context.Context) ([]sheet.Metadata, error) {
	worksheets := oleutil.MustGetProperty(d.workbook, "Worksheets").ToIDispatch()
	defer worksheets.Release()

	count := int(oleutil.MustGetProperty(worksheets, "Count").Val)
	metas := make([]sheet.Metadata, count)
	for i := 1; i <= count; i++ {
		ws := oleutil.MustGetProperty(worksheets, "Item", i).ToIDispatch()
		meta := sheet.Metadata{
			ID:   i - 1,
			Name: oleutil.MustGetProperty(ws, "Name").ToString(),
		}
		if used, ok := usedRange(ws); ok {
			meta.MaxRows = used.EndRow + 1
			meta.MaxColumns = used.EndCol + 1
		}
		ws.Release()
		metas[i-1] = meta
	}
	return metas, nil
}

// usedRange reads the sheet's used range as a zero-based range. ok is false
// when the sheet is empty.
func usedRange(ws *ole.IDispatch) (addr.Range, bool) {
	rng := oleutil.MustGetProperty(ws, "UsedRange").ToIDispatch()
	defer rng.Release()
	address := normalizeAddress(oleutil.MustGetProperty(rng, "Address").ToString())
	r, err := addr.ParseRange(address)
	if err != nil {
		return addr.Range{}, false
	}
	if r.Cells() == 1 {
		// A single-cell used range on a blank sheet reports $A$1 with no
		// content.
		count := oleutil.MustGetProperty(rng, "Count").Val
		v, _ := oleutil.GetProperty(rng, "Value2")
		if count == 1 && v.Value() == nil {
			return addr.Range{}, false
		}
	}
	return r, true
}

// normalizeAddress strips the absolute markers the host puts on addresses
// ($A$1:$C$3 and sheet qualifiers).
func normalizeAddress(address string) string {
	if _, local, found := strings.Cut(address, "!"); found {
		address = local
	}
	return strings.ReplaceAll(address, "$", "")
}

func (d *Desktop) ActivateSheet(ctx context.Context, sheetID int) error {
	ws, err := d.sheet(sheetID)
	if err != nil {
		// Activation is a UI hint; a missing sheet is not an error here.
		return nil
	}
	defer ws.Release()
	_, _ = oleutil.CallMethod(ws, "Activate")
	return nil
}

func (d *Desktop) SelectRange(ctx context.Context, sheetID int, rangeA1 string) error {
	ws, err := d.sheet(sheetID)
	if err != nil {
		return nil
	}
	defer ws.Release()
	_, _ = oleutil.CallMethod(ws, "Activate")
	rng, err := rangeOf(ws, rangeA1)
	if err != nil {
		return nil
	}
	defer rng.Release()
	_, _ = oleutil.CallMethod(rng, "Select")
	return nil
}

func (d *Desktop) ClearSelection(ctx context.Context) error {
	activeSheet, err := oleutil.GetProperty(d.workbook, "ActiveSheet")
	if err != nil {
		return nil
	}
	ws := activeSheet.ToIDispatch()
	defer ws.Release()
	cell, err := rangeOf(ws, "A1")
	if err != nil {
		return nil
	}
	defer cell.Release()
	_, _ = oleutil.CallMethod(cell, "Select")
	return nil
}

func normalizePath(path string) string {
	vol := filepath.VolumeName(path)
	if vol == "" {
		return path
	}
	rest := path[len(vol):]
	return filepath.Clean(strings.ToUpper(vol) + rest)
}
