package desktop

import (
	"fmt"
	"strings"

	"github.com/1broseidon/glassdesk/internal/drag"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/session"
)

// WindowID names one of the singleton windows.
type WindowID string

const (
	Finder WindowID = "finder"
	Login  WindowID = "login"
)

// Windows lists window ids bottom to top.
var Windows = []WindowID{Finder, Login}

// ParseWindow accepts a window id, case-insensitively.
func ParseWindow(s string) (WindowID, error) {
	switch WindowID(strings.ToLower(strings.TrimSpace(s))) {
	case Finder:
		return Finder, nil
	case Login:
		return Login, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
}

// Chrome is the measured box of a window and its title bar geometry.
type Chrome struct {
	Size     geometry.Size `json:"size"`
	TitleBar int           `json:"title_bar"`
	Controls int           `json:"controls"`
}

// Window is the public state of one window surface.
type Window struct {
	ID       WindowID       `json:"id"`
	Open     bool           `json:"open"`
	Position geometry.Point `json:"position"`
	// Centered is set once first-layout centering ran in the current open
	// lifecycle and cleared on close.
	Centered bool   `json:"centered"`
	Chrome   Chrome `json:"chrome"`
}

// Rect is the window box in canvas coordinates.
func (w Window) Rect() geometry.Rect {
	return geometry.RectAt(w.Position, w.Chrome.Size)
}

// Icon is a desktop icon surface.
type Icon struct {
	ID       string         `json:"id"`
	AppID    string         `json:"app_id"`
	Position geometry.Point `json:"position"`
}

// Light is a traffic-light button in a window title bar.
type Light string

const (
	LightRed    Light = "red"
	LightYellow Light = "yellow"
	LightGreen  Light = "green"
)

var lights = []Light{LightRed, LightYellow, LightGreen}

func ParseLight(s string) (Light, error) {
	l := Light(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range lights {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown light %q", s)
}

// Origin is where an app was launched from.
type Origin string

const (
	FromFinder  Origin = "finder"
	FromDock    Origin = "dock"
	FromDesktop Origin = "desktop"
)

func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case FromFinder, FromDock, FromDesktop:
		return o, nil
	case "":
		return FromDesktop, nil
	}
	return "", fmt.Errorf("unknown origin %q", s)
}

// SidebarGroup is a titled group of Finder sidebar entries.
type SidebarGroup struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Sidebar is the Finder sidebar, top to bottom.
var Sidebar = []SidebarGroup{
	{Title: "Favorites", Items: []string{"recents", "applications", "documents", "downloads"}},
	{Title: "iCloud", Items: []string{"icloud"}},
}

const defaultSidebarItem = "recents"

func sidebarHas(item string) bool {
	for _, g := range Sidebar {
		for _, it := range g.Items {
			if it == item {
				return true
			}
		}
	}
	return false
}

// Listeners counts live registry subscriptions.
type Listeners struct {
	Pointer int `json:"pointer"`
	Resize  int `json:"resize"`
}

// Drags reports the active drag session of each surface class.
type Drags struct {
	Window *drag.Session `json:"window,omitempty"`
	Icon   *drag.Session `json:"icon,omitempty"`
}

// State is a point-in-time copy of the desktop for hosts.
type State struct {
	Canvas       geometry.Size      `json:"canvas"`
	Origin       geometry.Point     `json:"origin"`
	Footprint    geometry.Footprint `json:"footprint"`
	Windows      []Window           `json:"windows"`
	Icons        []Icon             `json:"icons"`
	ActiveIcon   string             `json:"active_icon,omitempty"`
	FinderApp    string             `json:"finder_app,omitempty"`
	DockApp      string             `json:"dock_app,omitempty"`
	SidebarItem  string             `json:"sidebar_item"`
	Toast        string             `json:"toast,omitempty"`
	Reveal       string             `json:"reveal,omitempty"`
	RevealTarget string             `json:"reveal_target,omitempty"`
	Session      session.Snapshot   `json:"session"`
	Drags        Drags              `json:"drags"`
	Listeners    Listeners          `json:"listeners"`
}

// Window returns the state of id.
func (s State) Window(id WindowID) (Window, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return Window{}, false
}

// Icon returns the icon with id.
func (s State) Icon(id string) (Icon, bool) {
	for _, ic := range s.Icons {
		if ic.ID == id {
			return ic, true
		}
	}
	return Icon{}, false
}
