// Package tui hosts the desktop in a terminal: the canvas is drawn in cells
// and the mouse drives the same pointer stream the other hosts use.
package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Options configures the terminal host.
type Options struct {
	// CellWidth and CellHeight are the canvas pixels one terminal cell covers.
	CellWidth  int
	CellHeight int
}

// CanvasOrigin is the client position of the canvas for the given cell
// size. Desktops hosted here must be built with it.
func CanvasOrigin(cellW, cellH int) geometry.Point {
	return newGrid(cellW, cellH).origin()
}

// InitialCanvas sizes the canvas from the current terminal so the first
// frame does not start from the config default.
func InitialCanvas(cellW, cellH int) (geometry.Size, bool) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return geometry.Size{}, false
	}
	return newGrid(cellW, cellH).canvasSize(cols, rows), true
}

// Run draws desk until the user quits or ctx is cancelled.
func Run(ctx context.Context, desk *desktop.Desktop, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(
		newModel(desk, opts.CellWidth, opts.CellHeight),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	// Timers and other hosts change the desktop without a terminal event.
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case _, ok := <-desk.Changes():
				if !ok {
					return
				}
				p.Send(changedMsg{})
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
