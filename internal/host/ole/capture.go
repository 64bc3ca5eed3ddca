package ole

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/go-ole/go-ole/oleutil"
	clipboard "github.com/skanehira/clipboard-image"

	"github.com/martinsione/spreadsheets-agent/internal/addr"
	"github.com/martinsione/spreadsheets-agent/internal/service"
)

// CapturePicture renders a range to a bitmap through the host's clipboard
// and returns it base64-encoded. Only the desktop host can do this.
func (d *Desktop) CapturePicture(sheetID int, captureRange string) (string, error) {
	ws, err := d.sheet(sheetID)
	if err != nil {
		return "", err
	}
	defer ws.Release()
	if _, err := addr.ParseRange(captureRange); err != nil {
		return "", service.Validationf("range", "%v", err)
	}
	rng, err := rangeOf(ws, captureRange)
	if err != nil {
		return "", err
	}
	defer rng.Release()

	_, err = oleutil.CallMethod(
		rng,
		"CopyPicture",
		int(1), // xlScreen
		int(2), // xlBitmap
	)
	if err != nil {
		return "", service.HostErr("copy picture", err)
	}

	buf := new(bytes.Buffer)
	bufWriter := bufio.NewWriter(buf)
	clipboardReader, err := clipboard.ReadFromClipboard()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if _, err := io.Copy(bufWriter, clipboardReader); err != nil {
		return "", fmt.Errorf("failed to copy clipboard data: %w", err)
	}
	if err := bufWriter.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush buffer: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
