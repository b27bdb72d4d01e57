package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/logging"
	"github.com/1broseidon/glassdesk/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: glassdesk mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'glassdesk mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/glassdesk/config.yaml)")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: glassdesk mcp serve [--path PATH] [--debug]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the MCP server on stdio with its own in-process desktop.")
		fmt.Fprintln(os.Stderr, "Logs go to stderr; stdout carries the protocol.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logging.InitConsole(logLevel(cfg, *debug))

	desk, err := newDesktop(cfg, geometry.Point{}, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer desk.Close()

	ctx, stop := signalContext()
	defer stop()

	slog.Info("MCP server starting", "name", mcp.ServerName, "version", mcp.ServerVersion)
	if err := mcp.NewServer(desk).Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("MCP server error", "error", err)
		return 1
	}
	return 0
}
