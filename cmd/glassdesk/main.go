package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/1broseidon/glassdesk/internal/config"
	"github.com/1broseidon/glassdesk/internal/daemon"
	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/logging"
	"github.com/1broseidon/glassdesk/internal/metrics"
	"github.com/1broseidon/glassdesk/internal/runtimepath"
	"github.com/1broseidon/glassdesk/internal/tui"
	"github.com/1broseidon/glassdesk/internal/x11"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	if len(os.Args) < 2 {
		os.Exit(runTUI(nil))
	}

	switch os.Args[1] {
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "open", "close", "center":
		os.Exit(runWindow(os.Args[1], os.Args[2:]))
	case "light":
		os.Exit(runLight(os.Args[2:]))
	case "launch":
		os.Exit(runLaunch(os.Args[2:]))
	case "drop":
		os.Exit(runDrop(os.Args[2:]))
	case "pointer":
		os.Exit(runPointer(os.Args[2:]))
	case "sidebar":
		os.Exit(runSidebar(os.Args[2:]))
	case "login":
		os.Exit(runLogin(os.Args[2:]))
	case "generate":
		os.Exit(runGenerate(os.Args[2:]))
	case "switch-profile":
		os.Exit(runSwitchProfile(os.Args[2:]))
	case "password":
		os.Exit(runPassword(os.Args[2:], os.Stdout))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: glassdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Interactive desktop in the terminal (default)")
	fmt.Fprintln(w, "  serve               Headless engine: IPC socket and HTTP API")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Print the full desktop state as JSON")
	fmt.Fprintln(w, "  resize W H          Resize the canvas")
	fmt.Fprintln(w, "  open <window>       Open the finder or login window")
	fmt.Fprintln(w, "  close <window>      Close a window")
	fmt.Fprintln(w, "  center <window>     Recenter an open window")
	fmt.Fprintln(w, "  light <window> <c>  Press a title bar button (red, yellow, green)")
	fmt.Fprintln(w, "  launch <app-id>     Open an application")
	fmt.Fprintln(w, "  drop <app-id> X Y   Drag an app from the Finder onto the desktop")
	fmt.Fprintln(w, "  pointer <kind> X Y  Send a raw pointer event")
	fmt.Fprintln(w, "  sidebar <item>      Select a Finder sidebar entry")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  login               Submit the login form")
	fmt.Fprintln(w, "  generate            Generate a new password for the session")
	fmt.Fprintln(w, "  switch-profile      Sign out, keeping the form values")
	fmt.Fprintln(w, "  password            Derive a password locally (no daemon)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'glassdesk <command> --help' for command-specific options.")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func logLevel(cfg *config.Config, debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return logging.ParseLevel(cfg.Log.Level)
}

// newDesktop builds the engine for a host whose canvas starts at origin.
func newDesktop(cfg *config.Config, origin geometry.Point, rec desktop.Recorder) (*desktop.Desktop, error) {
	opts, err := desktop.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Origin = origin
	opts.Recorder = rec

	if cfg.Canvas.Source == config.CanvasX11 {
		size, err := x11.Probe()
		if err != nil {
			slog.Warn("X11 canvas probe failed, using configured size", "error", err)
		} else {
			opts.Canvas = size
		}
	}
	return desktop.New(opts), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/glassdesk/config.yaml)")
	httpAddr := fs.String("http", "", "HTTP listen address (default: http.listen; \"off\" disables)")
	socket := fs.String("socket", "", "IPC socket path (default: runtime dir)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glassdesk serve [--path PATH] [--http ADDR] [--socket PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the engine headless. Clients talk to it over the IPC socket")
		fmt.Fprintln(os.Stderr, "(glassdesk status, drop, login, ...) or the HTTP API.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logging.InitConsole(logLevel(cfg, *debug))

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	desk, err := newDesktop(cfg, geometry.Point{}, collector)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer desk.Close()

	addr := cfg.HTTP.Listen
	switch *httpAddr {
	case "":
	case "off":
		addr = ""
	default:
		addr = *httpAddr
	}

	opts := daemon.Options{
		Desktop:      desk,
		SocketPath:   *socket,
		HTTPAddr:     addr,
		Gatherer:     reg,
		PointerRate:  cfg.HTTP.PointerRate,
		PointerBurst: cfg.HTTP.PointerBurst,
	}
	if cfg.Canvas.Source == config.CanvasX11 {
		opts.Probe = x11.Probe
	}

	ctx, stop := signalContext()
	defer stop()

	slog.Info("glassdesk engine starting", "canvas", desk.Canvas(), "http", addr)
	if err := daemon.Run(ctx, opts); err != nil {
		slog.Error("Engine stopped", "error", err)
		return 1
	}
	slog.Info("glassdesk engine stopped")
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/glassdesk/config.yaml)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glassdesk tui [--path PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive desktop. Drag windows by their title bars, drag apps out")
		fmt.Fprintln(os.Stderr, "of the Finder onto the desktop, double-click icons to open them.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  f         Open or recenter the Finder")
		fmt.Fprintln(os.Stderr, "  l         Open the login window")
		fmt.Fprintln(os.Stderr, "  e         Edit the login form and sign in")
		fmt.Fprintln(os.Stderr, "  g         Generate a new password")
		fmt.Fprintln(os.Stderr, "  s         Switch profile")
		fmt.Fprintln(os.Stderr, "  Enter     Open the selected icon")
		fmt.Fprintln(os.Stderr, "  Esc       Cancel the current drag")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// The terminal belongs to the UI, so logs go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = runtimepath.TUILogPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	closer, err := logging.InitFile(logPath, logLevel(cfg, *debug), cfg.Log.MaxSizeMB, cfg.Log.MaxFiles)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logging.Discard()
	} else {
		defer closer.Close()
	}

	cellW, cellH := cfg.TUI.CellWidth, cfg.TUI.CellHeight
	if size, ok := tui.InitialCanvas(cellW, cellH); ok && cfg.Canvas.Source != config.CanvasX11 {
		cfg.Canvas.Width, cfg.Canvas.Height = size.Width, size.Height
	}
	desk, err := newDesktop(cfg, tui.CanvasOrigin(cellW, cellH), nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer desk.Close()

	ctx, stop := signalContext()
	defer stop()

	if err := tui.Run(ctx, desk, tui.Options{CellWidth: cellW, CellHeight: cellH}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
