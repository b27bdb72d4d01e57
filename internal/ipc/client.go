package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/runtimepath"
	"github.com/1broseidon/glassdesk/internal/session"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// FieldError is returned when the daemon rejects a login form.
type FieldError struct {
	Message string
	Fields  session.FieldErrors
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[session.Field(k)])
	}
	return fmt.Sprintf("daemon error: %s (%s)", e.Message, strings.Join(parts, "; "))
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		if len(resp.Fields) > 0 {
			return nil, &FieldError{Message: resp.Error, Fields: resp.Fields}
		}
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends cmd with payload and decodes the response data into out when
// out is non-nil.
func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", strings.ToLower(string(cmd)), err)
	}
	return nil
}

// GetStatus requests a short daemon summary.
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetState requests the full desktop snapshot.
func (c *Client) GetState() (*desktop.State, error) {
	var st desktop.State
	if err := c.call(CommandGetState, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Pointer forwards one pointer sample and reports whether it was consumed.
func (c *Client) Pointer(p PointerPayload) (bool, error) {
	var data PointerData
	if err := c.call(CommandPointer, p, &data); err != nil {
		return false, err
	}
	return data.Handled, nil
}

// Drop drops a Finder drag of appID at client position (x, y).
func (c *Client) Drop(appID string, x, y int) (*desktop.Icon, error) {
	var icon desktop.Icon
	if err := c.call(CommandDrop, DropPayload{AppID: appID, X: x, Y: y}, &icon); err != nil {
		return nil, err
	}
	return &icon, nil
}

func (c *Client) Resize(width, height int) (geometry.Size, error) {
	var size geometry.Size
	err := c.call(CommandResize, ResizePayload{Width: width, Height: height}, &size)
	return size, err
}

func (c *Client) OpenWindow(id string) error {
	return c.call(CommandOpenWindow, WindowPayload{Window: id}, nil)
}

func (c *Client) CloseWindow(id string) error {
	return c.call(CommandCloseWindow, WindowPayload{Window: id}, nil)
}

// CenterWindow recenters an open window and returns its new position.
func (c *Client) CenterWindow(id string) (geometry.Point, error) {
	var pos PositionData
	if err := c.call(CommandCenterWindow, WindowPayload{Window: id}, &pos); err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: pos.X, Y: pos.Y}, nil
}

func (c *Client) TrafficLight(id, light string) error {
	return c.call(CommandTrafficLight, WindowPayload{Window: id, Light: light}, nil)
}

// OpenApp launches appID; from is "finder", "dock" or "desktop".
func (c *Client) OpenApp(appID, from string) (*catalog.App, error) {
	var app catalog.App
	if err := c.call(CommandOpenApp, OpenAppPayload{AppID: appID, From: from}, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) SetLoginForm(p LoginPayload) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := c.call(CommandSetLoginForm, p, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SubmitLogin fills the form and submits it. Rejected forms come back as
// *FieldError.
func (c *Client) SubmitLogin(p LoginPayload) (*LoginData, error) {
	var data LoginData
	if err := c.call(CommandSubmitLogin, p, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) GeneratePassword() (string, error) {
	var data PasswordData
	if err := c.call(CommandGenerate, nil, &data); err != nil {
		return "", err
	}
	return data.Password, nil
}

func (c *Client) SwitchProfile() error {
	return c.call(CommandSwitchProfile, nil, nil)
}

func (c *Client) SelectSidebar(item string) error {
	return c.call(CommandSelectSidebar, SidebarPayload{Item: item}, nil)
}

// Ping checks if the daemon is running
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
