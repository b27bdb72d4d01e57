package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/runtimepath"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         *desktop.Desktop
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to the default socket path.
func NewServer(desk *desktop.Desktop) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(desk, socketPath), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(desk *desktop.Desktop, socketPath string) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desk:       desk,
		startTime:  time.Now(),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	slog.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.shutdownMu.Lock()
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

func (s *Server) String() string {
	return "ipc:" + s.socketPath
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Warn("IPC accept error", "error", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line.
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		slog.Debug("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		slog.Error("Failed to marshal IPC response", "command", req.Command, "error", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		slog.Debug("Failed to send IPC response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	slog.Debug("IPC request", "command", req.Command)

	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetState:
		return ok(s.desk.Snapshot())
	case CommandPointer:
		return s.handlePointer(req.Payload)
	case CommandDrop:
		return s.handleDrop(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandOpenWindow, CommandCloseWindow, CommandCenterWindow, CommandTrafficLight:
		return s.handleWindow(req.Command, req.Payload)
	case CommandOpenApp:
		return s.handleOpenApp(req.Payload)
	case CommandSetLoginForm:
		return s.handleSetLoginForm(req.Payload)
	case CommandSubmitLogin:
		return s.handleSubmitLogin(req.Payload)
	case CommandGenerate:
		pw, err := s.desk.GeneratePassword()
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(PasswordData{Password: pw})
	case CommandSwitchProfile:
		if err := s.desk.SwitchProfile(); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	case CommandSelectSidebar:
		var p SidebarPayload
		if err := decode(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if err := s.desk.SelectSidebar(p.Item); err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	st := s.desk.Snapshot()
	status := StatusData{
		Canvas:        st.Canvas,
		IconCount:     len(st.Icons),
		Session:       st.Session.Phase,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	for _, w := range st.Windows {
		if w.Open {
			status.OpenWindows = append(status.OpenWindows, string(w.ID))
		}
	}
	return ok(status)
}

func (s *Server) handlePointer(payload json.RawMessage) *Response {
	var p PointerPayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	ev, err := p.Event()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(PointerData{Handled: s.desk.Pointer(ev)})
}

func (s *Server) handleDrop(payload json.RawMessage) *Response {
	var p DropPayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	icon, err := s.desk.Drop(p.Carrier(), p.Client())
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Drop rejected: %v", err))
	}
	return ok(icon)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var p ResizePayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	if p.Width < 0 || p.Height < 0 {
		return NewErrorResponse("canvas size must not be negative")
	}
	s.desk.Resize(geometry.Size{Width: p.Width, Height: p.Height})
	return ok(s.desk.Canvas())
}

func (s *Server) handleWindow(cmd CommandType, payload json.RawMessage) *Response {
	var p WindowPayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	id, err := desktop.ParseWindow(p.Window)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	switch cmd {
	case CommandOpenWindow:
		err = s.desk.OpenWindow(id)
	case CommandCloseWindow:
		err = s.desk.CloseWindow(id)
	case CommandCenterWindow:
		var pos geometry.Point
		pos, err = s.desk.RecenterWindow(id)
		if err == nil {
			return ok(PositionData{X: pos.X, Y: pos.Y})
		}
	case CommandTrafficLight:
		var light desktop.Light
		light, err = desktop.ParseLight(p.Light)
		if err == nil {
			err = s.desk.TrafficLight(id, light)
		}
	}
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleOpenApp(payload json.RawMessage) *Response {
	var p OpenAppPayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	from, err := desktop.ParseOrigin(p.From)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	app, err := s.desk.OpenApp(p.AppID, from)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(app)
}

func (s *Server) handleSetLoginForm(payload json.RawMessage) *Response {
	var p LoginPayload
	if err := decode(payload, &p); err != nil {
		return NewErrorResponse(err.Error())
	}
	s.desk.SetLoginForm(p.Form())
	return ok(s.desk.Session())
}

func (s *Server) handleSubmitLogin(payload json.RawMessage) *Response {
	if len(payload) > 0 {
		var p LoginPayload
		if err := decode(payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.desk.SetLoginForm(p.Form())
	}

	login, err := s.desk.SubmitLogin()
	if err != nil {
		resp := NewErrorResponse(err.Error())
		if fields, isField := desktop.IsFieldError(err); isField {
			resp.Fields = fields
		}
		return resp
	}
	return ok(LoginData{Login: login, Password: s.desk.Session().Password})
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func decode(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
