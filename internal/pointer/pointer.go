package pointer

import (
	"fmt"
	"strings"

	"github.com/1broseidon/glassdesk/internal/geometry"
)

// Kind is the pointer event type.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Cancel
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseKind accepts "down", "move", "up", "cancel" with an optional
// "pointer" prefix.
func ParseKind(s string) (Kind, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "pointer") {
	case "down":
		return Down, nil
	case "move":
		return Move, nil
	case "up":
		return Up, nil
	case "cancel":
		return Cancel, nil
	}
	return 0, fmt.Errorf("unknown pointer event kind %q", s)
}

// Ends reports whether k terminates a drag.
func (k Kind) Ends() bool {
	return k == Up || k == Cancel
}

// Primary is the main mouse button (left) or a touch/pen contact.
const Primary = 0

// SurfaceKind identifies what a pointer landed on.
type SurfaceKind string

const (
	SurfaceNone   SurfaceKind = ""
	SurfaceCanvas SurfaceKind = "canvas"
	SurfaceWindow SurfaceKind = "window"
	SurfaceIcon   SurfaceKind = "icon"
)

// Region narrows a target down to the part of a surface that was hit.
type Region string

const (
	RegionBody      Region = "body"
	RegionTitleBar  Region = "title-bar"
	RegionControls  Region = "controls"
	RegionForm      Region = "form"
	RegionPanelItem Region = "panel-item"
)

// Target is the hit-test result for a pointer-down.
type Target struct {
	Kind   SurfaceKind `json:"kind,omitempty"`
	ID     string      `json:"id,omitempty"`
	Region Region      `json:"region,omitempty"`
}

// Zero reports whether no target was supplied.
func (t Target) Zero() bool {
	return t.Kind == SurfaceNone
}

// Event is one pointer sample in client coordinates.
type Event struct {
	Kind      Kind
	PointerID int
	Button    int
	Client    geometry.Point
	Target    Target
}

// IsPrimary reports whether the event came from the primary button.
func (e Event) IsPrimary() bool {
	return e.Button == Primary
}
