package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/thejerf/suture/v4"
	"golang.org/x/time/rate"

	"github.com/1broseidon/glassdesk/internal/desktop"
	"github.com/1broseidon/glassdesk/internal/httpapi"
	"github.com/1broseidon/glassdesk/internal/ipc"
)

// Options configures a headless engine run.
type Options struct {
	Desktop *desktop.Desktop

	// SocketPath overrides the runtime-dir control socket.
	SocketPath string

	// HTTPAddr enables the HTTP API when non-empty.
	HTTPAddr     string
	Gatherer     prometheus.Gatherer
	PointerRate  float64
	PointerBurst int

	// Probe, when set, keeps the canvas in sync with the real screen.
	Probe         CanvasProbe
	ProbeInterval time.Duration
}

// Run serves the engine until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Desktop == nil {
		return fmt.Errorf("daemon: no desktop")
	}

	var ipcServer *ipc.Server
	if opts.SocketPath != "" {
		ipcServer = ipc.NewServerAt(opts.Desktop, opts.SocketPath)
	} else {
		var err error
		if ipcServer, err = ipc.NewServer(opts.Desktop); err != nil {
			return err
		}
	}

	super := NewSupervisor("glassdesk")
	Add(super, ipcServer)

	if opts.HTTPAddr != "" {
		router := httpapi.NewRouter(httpapi.Deps{
			Desktop:      opts.Desktop,
			Gatherer:     opts.Gatherer,
			PointerRate:  rate.Limit(opts.PointerRate),
			PointerBurst: opts.PointerBurst,
		})
		Add(super, httpapi.NewServer(opts.HTTPAddr, router))
	}

	if opts.Probe != nil {
		Add(super, NewReconciler(ReconcilerConfig{Interval: opts.ProbeInterval}, opts.Desktop, opts.Probe))
	}

	Add(super, NewServiceFunc("change-log", func(ctx context.Context) error {
		return logChanges(ctx, opts.Desktop)
	}))

	slog.Info("Engine started", "socket", ipcServer.SocketPath(), "http", opts.HTTPAddr)
	err := super.Serve(ctx)
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		// Normal shutdown.
		return nil
	}
	return err
}

// logChanges traces state changes at debug level until the desktop closes.
func logChanges(ctx context.Context, desk *desktop.Desktop) error {
	changes := desk.Changes()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return fmt.Errorf("desktop closed: %w", suture.ErrDoNotRestart)
			}
			st := desk.Snapshot()
			slog.Debug("Desktop changed",
				"canvas", fmt.Sprintf("%dx%d", st.Canvas.Width, st.Canvas.Height),
				"icons", len(st.Icons),
				"session", st.Session.Phase,
				"pointer_listeners", st.Listeners.Pointer)
		}
	}
}
