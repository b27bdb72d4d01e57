// Package desktop is the interaction engine: it owns every surface on the
// simulated desktop and applies pointer, drop, resize and login input to it.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/drag"
	"github.com/1broseidon/glassdesk/internal/events"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/pointer"
	"github.com/1broseidon/glassdesk/internal/session"
)

var (
	ErrUnknownWindow  = errors.New("unknown window")
	ErrUnknownApp     = errors.New("unknown application")
	ErrUnknownIcon    = errors.New("unknown icon")
	ErrUnknownSidebar = errors.New("unknown sidebar item")
	ErrWrongSource    = errors.New("drop: payload is not from the finder")
	ErrOverFinder     = errors.New("drop: pointer is over the finder window")
	ErrWindowClosed   = errors.New("window is closed")
)

// Initial placement of the default desktop shortcut.
const (
	shortcutID       = "desktop-mdp"
	shortcutInsetX   = 24
	shortcutOffsetY  = 34
	windowDragClass  = "window"
	iconDragClass    = "icon"
	viewportIconsKey = "viewport:icons"
)

type windowState struct {
	Window
	// resize is held while the window is open.
	resize *events.Lease
}

// Desktop owns windows, icons, drags, the login flow and UI timers. All
// methods are safe for concurrent use.
type Desktop struct {
	mu   sync.Mutex
	opts Options

	canvas  geometry.Size
	windows map[WindowID]*windowState
	icons   []Icon
	iconSeq int

	activeIcon string
	finderApp  string
	dockApp    string
	sidebar    string

	flow *session.Flow

	pointers   *events.Registry[pointer.Event]
	resizes    *events.Registry[geometry.Size]
	iconLease  *events.Lease
	windowDrag *drag.Controller
	iconDrag   *drag.Controller

	toast      string
	toastGen   uint64
	toastTimer Timer

	reveal       []rune
	revealTarget []rune
	revealGen    uint64
	revealTimer  Timer

	changes chan struct{}
	closed  bool
}

// New builds a desktop with the Finder open and the default shortcut icon
// placed near the top-right corner.
func New(opts Options) *Desktop {
	opts = opts.withDefaults()
	d := &Desktop{
		opts:     opts,
		canvas:   nonNegative(opts.Canvas),
		windows:  make(map[WindowID]*windowState, len(Windows)),
		sidebar:  defaultSidebarItem,
		flow:     session.NewFlow(opts.Generator),
		pointers: events.NewRegistry[pointer.Event](),
		resizes:  events.NewRegistry[geometry.Size](),
		changes:  make(chan struct{}, 1),
	}
	d.windows[Finder] = &windowState{Window: Window{ID: Finder, Chrome: opts.Finder}}
	d.windows[Login] = &windowState{Window: Window{ID: Login, Chrome: opts.Login}}

	d.windowDrag = drag.NewController(drag.Options{
		Name:     "drag:" + windowDragClass,
		Strategy: drag.WindowStrategy{},
		Measure:  windowMeasurer{d},
		Commit: func(id string, p geometry.Point) {
			if w, ok := d.windows[WindowID(id)]; ok {
				w.Position = p
			}
		},
		Excluded: excludedFromWindowDrag,
		Pointers: d.pointers,
	})
	d.iconDrag = drag.NewController(drag.Options{
		Name:     "drag:" + iconDragClass,
		Strategy: drag.IconStrategy{Footprint: opts.Icon},
		Measure:  iconMeasurer{d},
		Commit: func(id string, p geometry.Point) {
			if i := d.iconIndex(id); i >= 0 {
				d.icons[i].Position = p
			}
		},
		Pointers: d.pointers,
	})

	d.iconLease = d.resizes.Acquire(viewportIconsKey, func(geometry.Size) { d.clampIcons() })

	if _, ok := opts.Catalog.Lookup(catalog.DefaultDesktopShortcut); ok {
		x := max(opts.Icon.Margin, d.canvas.Width-opts.Icon.Width-shortcutInsetX)
		d.icons = append(d.icons, Icon{
			ID:       shortcutID,
			AppID:    catalog.DefaultDesktopShortcut,
			Position: geometry.ClampIconPosition(x, shortcutOffsetY, d.canvas.Width, d.canvas.Height, opts.Icon),
		})
	}

	d.openLocked(Finder)
	return d
}

// Catalog returns the application catalog.
func (d *Desktop) Catalog() *catalog.Catalog {
	return d.opts.Catalog
}

// Changes delivers a coalesced signal after every state change. It is
// closed by Close.
func (d *Desktop) Changes() <-chan struct{} {
	return d.changes
}

// Snapshot copies the current state.
func (d *Desktop) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Desktop) snapshotLocked() State {
	s := State{
		Canvas:       d.canvas,
		Origin:       d.opts.Origin,
		Footprint:    d.opts.Icon,
		Windows:      make([]Window, 0, len(Windows)),
		Icons:        append([]Icon(nil), d.icons...),
		ActiveIcon:   d.activeIcon,
		FinderApp:    d.finderApp,
		DockApp:      d.dockApp,
		SidebarItem:  d.sidebar,
		Toast:        d.toast,
		Reveal:       string(d.reveal),
		RevealTarget: string(d.revealTarget),
		Session:      d.flow.Snapshot(),
		Listeners: Listeners{
			Pointer: d.pointers.Len(),
			Resize:  d.resizes.Len(),
		},
	}
	for _, id := range Windows {
		s.Windows = append(s.Windows, d.windows[id].Window)
	}
	if sess, ok := d.windowDrag.Active(); ok {
		s.Drags.Window = &sess
	}
	if sess, ok := d.iconDrag.Active(); ok {
		s.Drags.Icon = &sess
	}
	return s
}

// Close stops timers, ends drags and releases every listener. Pending timer
// callbacks become no-ops.
func (d *Desktop) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true

	d.stopToastLocked()
	d.stopRevealLocked()
	d.windowDrag.Abort()
	d.iconDrag.Abort()
	for _, id := range Windows {
		d.windows[id].resize.Release()
		d.windows[id].resize = nil
	}
	d.iconLease.Release()
	close(d.changes)
	slog.Debug("Desktop closed")
}

// notifyLocked signals observers without blocking.
func (d *Desktop) notifyLocked() {
	if d.closed {
		return
	}
	select {
	case d.changes <- struct{}{}:
	default:
	}
}

// canvasRect is the canvas in client coordinates.
func (d *Desktop) canvasRect() geometry.Rect {
	return geometry.RectAt(d.opts.Origin, d.canvas)
}

func (d *Desktop) iconIndex(id string) int {
	for i := range d.icons {
		if d.icons[i].ID == id {
			return i
		}
	}
	return -1
}

// SelectIcon marks an icon active. An empty id clears the selection.
func (d *Desktop) SelectIcon(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id != "" && d.iconIndex(id) < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownIcon, id)
	}
	d.activeIcon = id
	d.notifyLocked()
	return nil
}

// ActiveIcon returns the selected icon, if any.
func (d *Desktop) ActiveIcon() (Icon, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i := d.iconIndex(d.activeIcon); i >= 0 {
		return d.icons[i], true
	}
	return Icon{}, false
}

// SelectSidebar highlights a Finder sidebar entry.
func (d *Desktop) SelectSidebar(item string) error {
	item = strings.ToLower(strings.TrimSpace(item))
	if !sidebarHas(item) {
		return fmt.Errorf("%w: %q", ErrUnknownSidebar, item)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sidebar = item
	d.notifyLocked()
	return nil
}

func (d *Desktop) nextIconID() string {
	d.iconSeq++
	return fmt.Sprintf("desktop-%d-%s", d.iconSeq, d.opts.Salt())
}

// uuidSalt takes the millisecond timestamp of a UUIDv7.
func uuidSalt() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return strings.ReplaceAll(u.String()[:13], "-", "")
}

func nonNegative(s geometry.Size) geometry.Size {
	return geometry.Size{Width: max(0, s.Width), Height: max(0, s.Height)}
}

type windowMeasurer struct{ d *Desktop }

func (m windowMeasurer) CanvasRect() geometry.Rect { return m.d.canvasRect() }

func (m windowMeasurer) SubjectRect(id string) (geometry.Rect, bool) {
	w, ok := m.d.windows[WindowID(id)]
	if !ok || !w.Open {
		return geometry.Rect{}, false
	}
	return w.Rect(), true
}

type iconMeasurer struct{ d *Desktop }

func (m iconMeasurer) CanvasRect() geometry.Rect { return m.d.canvasRect() }

func (m iconMeasurer) SubjectRect(id string) (geometry.Rect, bool) {
	i := m.d.iconIndex(id)
	if i < 0 {
		return geometry.Rect{}, false
	}
	return geometry.RectAt(m.d.icons[i].Position, m.d.opts.Icon.Size()), true
}

func excludedFromWindowDrag(t pointer.Target) bool {
	switch t.Region {
	case pointer.RegionControls, pointer.RegionForm, pointer.RegionPanelItem:
		return true
	}
	return false
}
