// Package remote implements the spreadsheet service against a server-side
// scripting endpoint over a websocket. Commands are JSON frames answered in
// order; mutations queue on the server until an explicit flush commits them,
// so each write operation flushes exactly once.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"

	"github.com/martinsione/spreadsheets-agent/internal/service"
)

type Client struct {
	conn *websocket.Conn
	seq  int
}

// Dial connects to the scripting endpoint. The returned release function
// closes the connection.
func Dial(ctx context.Context, endpoint string) (*Client, func(), error) {
	conn, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, func() {}, err
	}
	// Large reads come back as a single frame.
	conn.SetReadLimit(32 * 1024 * 1024)
	c := &Client{conn: conn}
	return c, func() { conn.Close(websocket.StatusNormalClosure, "") }, nil
}

func (c *Client) BackendName() string { return "remote" }

type request struct {
	ID     int    `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

type response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *wireError      `json:"error,omitempty"`
}

type wireError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// call sends one command frame and waits for its reply. The protocol is
// strictly request/response in order; one call is in flight at a time.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	c.seq++
	payload, err := json.Marshal(request{ID: c.seq, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", method, err)
	}
	if err := c.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return service.HostErr(method, err)
	}
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return service.HostErr(method, err)
	}
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return service.HostErr(method, fmt.Errorf("malformed response: %w", err))
	}
	if resp.ID != c.seq {
		return service.HostErr(method, fmt.Errorf("response id %d does not match request id %d", resp.ID, c.seq))
	}
	if resp.Error != nil {
		return decodeError(resp.Error)
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return service.HostErr(method, fmt.Errorf("decoding result: %w", err))
		}
	}
	return nil
}

// decodeError maps a wire error onto the service taxonomy so callers can
// match kinds uniformly across backends.
func decodeError(we *wireError) error {
	switch we.Code {
	case "not_found":
		return service.NotFoundf("%s", we.Message)
	case "validation":
		return service.Validationf(we.Field, "%s", we.Message)
	case "unsupported":
		return service.Unsupportedf("%s", we.Message)
	}
	return service.HostErr(we.Code, fmt.Errorf("%s", we.Message))
}

// flush commits queued mutations: the server recalculates, repaints and
// acknowledges. Exactly one flush runs per mutating operation.
func (c *Client) flush(ctx context.Context) error {
	return c.call(ctx, "flush", nil, nil)
}

func (c *Client) ActivateSheet(ctx context.Context, sheetID int) error {
	// UI hints are best effort; the server may have no view attached.
	_ = c.call(ctx, "ui.activateSheet", map[string]any{"sheetId": sheetID}, nil)
	return nil
}

func (c *Client) SelectRange(ctx context.Context, sheetID int, rangeA1 string) error {
	_ = c.call(ctx, "ui.selectRange", map[string]any{"sheetId": sheetID, "range": rangeA1}, nil)
	return nil
}

func (c *Client) ClearSelection(ctx context.Context) error {
	_ = c.call(ctx, "ui.clearSelection", nil, nil)
	return nil
}
