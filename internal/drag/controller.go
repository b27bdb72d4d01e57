// Package drag turns raw pointer events into clamped surface positions. One
// Controller serves a whole surface class (windows or icons) and holds at
// most one drag session at a time.
package drag

import (
	"log/slog"

	"github.com/1broseidon/glassdesk/internal/events"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
)

// Measurer reads live geometry. Nothing is cached between events so content
// that changes size mid-drag is clamped against its current box.
type Measurer interface {
	// CanvasRect is the canvas in client coordinates.
	CanvasRect() geometry.Rect
	// SubjectRect is the surface in canvas coordinates.
	SubjectRect(id string) (geometry.Rect, bool)
}

// CommitFunc stores a clamped position for a surface.
type CommitFunc func(id string, p geometry.Point)

// Session is the state of one active drag.
type Session struct {
	PointerID  int            `json:"pointer_id"`
	GrabOffset geometry.Point `json:"grab_offset"`
	SubjectID  string         `json:"subject_id"`
}

// Options configures a Controller.
type Options struct {
	// Name keys the pointer listener, e.g. "drag:window".
	Name     string
	Strategy Strategy
	Measure  Measurer
	Commit   CommitFunc
	// Excluded suppresses drag start on interactive regions.
	Excluded func(pointer.Target) bool
	// Pointers is the registry move/up/cancel events are dispatched on.
	Pointers *events.Registry[pointer.Event]
	// OnEnd runs after a session ends, whatever the reason.
	OnEnd func(Session)
}

// Controller is the drag state machine for one surface class. It is not
// safe for concurrent use; the owner serializes calls.
type Controller struct {
	opts    Options
	session *Session
	lease   *events.Lease
}

// NewController creates a controller.
func NewController(opts Options) *Controller {
	if opts.Strategy == nil {
		opts.Strategy = WindowStrategy{}
	}
	if opts.Excluded == nil {
		opts.Excluded = func(pointer.Target) bool { return false }
	}
	return &Controller{opts: opts}
}

// Active returns the current session, if any.
func (c *Controller) Active() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Begin starts a drag of subjectID from a pointer-down. It refuses
// non-primary buttons, excluded targets, unknown subjects, and any press
// while another session is active.
func (c *Controller) Begin(ev pointer.Event, subjectID string) bool {
	if !ev.IsPrimary() {
		return false
	}
	if c.session != nil {
		slog.Debug("Drag already active", "controller", c.opts.Name, "pointer", ev.PointerID, "active", c.session.PointerID)
		return false
	}
	if c.opts.Excluded(ev.Target) {
		return false
	}

	canvas := c.opts.Measure.CanvasRect()
	subject, ok := c.opts.Measure.SubjectRect(subjectID)
	if !ok {
		return false
	}

	// Re-clamp first so a surface left out of bounds by an earlier layout
	// does not jump once the pointer moves.
	origin := c.opts.Strategy.Clamp(subject.Origin(), canvas.Size(), subject.Size())
	if origin != subject.Origin() {
		c.opts.Commit(subjectID, origin)
	}

	local := ev.Client.Sub(canvas.Origin())
	c.session = &Session{
		PointerID:  ev.PointerID,
		GrabOffset: local.Sub(origin),
		SubjectID:  subjectID,
	}
	if c.opts.Pointers != nil {
		c.lease = c.opts.Pointers.Acquire(c.opts.Name, c.handle)
	}

	slog.Debug("Drag started", "controller", c.opts.Name, "subject", subjectID, "pointer", ev.PointerID)
	return true
}

// Update moves the dragged subject under the pointer. Events from any other
// pointer are ignored.
func (c *Controller) Update(pointerID int, client geometry.Point) bool {
	if c.session == nil || c.session.PointerID != pointerID {
		return false
	}

	canvas := c.opts.Measure.CanvasRect()
	subject, ok := c.opts.Measure.SubjectRect(c.session.SubjectID)
	if !ok {
		// Subject vanished mid-drag.
		c.finish()
		return false
	}

	desired := client.Sub(canvas.Origin()).Sub(c.session.GrabOffset)
	c.opts.Commit(c.session.SubjectID, c.opts.Strategy.Clamp(desired, canvas.Size(), subject.Size()))
	return true
}

// End finishes the session held by pointerID. The last committed position
// is kept.
func (c *Controller) End(pointerID int) bool {
	if c.session == nil || c.session.PointerID != pointerID {
		return false
	}
	c.finish()
	return true
}

// Abort ends the session regardless of pointer id.
func (c *Controller) Abort() {
	if c.session != nil {
		c.finish()
	}
}

// AbortSubject ends the session only if it is moving subjectID.
func (c *Controller) AbortSubject(subjectID string) {
	if c.session != nil && c.session.SubjectID == subjectID {
		c.finish()
	}
}

// Clamp re-applies the strategy to the subject's current position.
func (c *Controller) Clamp(subjectID string) (geometry.Point, bool) {
	canvas := c.opts.Measure.CanvasRect()
	subject, ok := c.opts.Measure.SubjectRect(subjectID)
	if !ok {
		return geometry.Point{}, false
	}
	p := c.opts.Strategy.Clamp(subject.Origin(), canvas.Size(), subject.Size())
	if p != subject.Origin() {
		c.opts.Commit(subjectID, p)
	}
	return p, true
}

// Recenter centers the subject in the canvas and clamps the result.
func (c *Controller) Recenter(subjectID string) (geometry.Point, bool) {
	canvas := c.opts.Measure.CanvasRect()
	subject, ok := c.opts.Measure.SubjectRect(subjectID)
	if !ok {
		return geometry.Point{}, false
	}
	p := c.opts.Strategy.Clamp(geometry.CenterIn(canvas.Size(), subject.Size()), canvas.Size(), subject.Size())
	c.opts.Commit(subjectID, p)
	return p, true
}

func (c *Controller) handle(ev pointer.Event) {
	switch ev.Kind {
	case pointer.Move:
		c.Update(ev.PointerID, ev.Client)
	case pointer.Up, pointer.Cancel:
		c.End(ev.PointerID)
	}
}

func (c *Controller) finish() {
	s := *c.session
	c.session = nil
	c.lease.Release()
	c.lease = nil
	slog.Debug("Drag ended", "controller", c.opts.Name, "subject", s.SubjectID, "pointer", s.PointerID)
	if c.opts.OnEnd != nil {
		c.opts.OnEnd(s)
	}
}
