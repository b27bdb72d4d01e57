package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

// CanvasProbe measures the real screen area the canvas should follow.
type CanvasProbe func() (geometry.Size, error)

// Resizer is the part of the desktop the reconciler drives.
type Resizer interface {
	Canvas() geometry.Size
	Resize(size geometry.Size)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically re-measures the screen and resizes the canvas
// when it drifted, e.g. after a monitor or panel change.
type Reconciler struct {
	interval time.Duration
	probe    CanvasProbe
	desk     Resizer
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, desk Resizer, probe CanvasProbe) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		probe:    probe,
		desk:     desk,
		logger:   logger,
	}
}

func (r *Reconciler) String() string {
	return "canvas-reconciler"
}

// Serve runs the reconciliation loop until ctx is cancelled. The first pass
// runs immediately.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)
	r.reconcile()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// A failing probe must not take the daemon down.
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	size, err := r.probe()
	if err != nil {
		r.logger.Warn("reconciler: canvas probe failed", "error", err)
		return
	}
	if size.Width <= 0 || size.Height <= 0 {
		r.logger.Debug("reconciler: ignoring empty canvas", "width", size.Width, "height", size.Height)
		return
	}

	if current := r.desk.Canvas(); current == size {
		return
	}
	r.logger.Info("reconciler: canvas changed", "width", size.Width, "height", size.Height)
	r.desk.Resize(size)
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}
