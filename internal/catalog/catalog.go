// Package catalog holds the read-only application catalog that desktop
// icons, the Finder panel and the dock refer to by id.
package catalog

import (
	"fmt"
	"strings"
)

// Group is the place an application is listed.
type Group string

const (
	GroupFinder  Group = "finder"
	GroupDesktop Group = "desktop"
	GroupDock    Group = "dock"
)

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	switch g {
	case GroupFinder, GroupDesktop, GroupDock:
		return true
	}
	return false
}

// App is one catalog entry.
type App struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon" yaml:"icon"`
	Description string `json:"description" yaml:"description"`
	Group       Group  `json:"group" yaml:"group"`
	// OpensLogin apps bring up the login window when launched.
	OpensLogin bool `json:"opens_login,omitempty" yaml:"opens_login,omitempty"`
}

// Catalog is an immutable id -> App lookup that keeps listing order.
type Catalog struct {
	apps  []App
	index map[string]int
}

// New builds a catalog, rejecting empty or duplicate ids and unknown groups.
func New(apps []App) (*Catalog, error) {
	c := &Catalog{
		apps:  make([]App, 0, len(apps)),
		index: make(map[string]int, len(apps)),
	}
	for i, app := range apps {
		id := strings.TrimSpace(app.ID)
		if id == "" {
			return nil, fmt.Errorf("apps[%d]: id is required", i)
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("apps[%d]: duplicate id %q", i, id)
		}
		if !app.Group.Valid() {
			return nil, fmt.Errorf("apps[%d]: unknown group %q", i, app.Group)
		}
		app.ID = id
		if app.Name == "" {
			app.Name = id
		}
		c.index[id] = len(c.apps)
		c.apps = append(c.apps, app)
	}
	return c, nil
}

// Lookup returns the app with the given id.
func (c *Catalog) Lookup(id string) (App, bool) {
	if c == nil {
		return App{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return App{}, false
	}
	return c.apps[i], true
}

// Group lists the apps of one group in catalog order.
func (c *Catalog) Group(g Group) []App {
	if c == nil {
		return nil
	}
	var out []App
	for _, app := range c.apps {
		if app.Group == g {
			out = append(out, app)
		}
	}
	return out
}

// All returns every app in catalog order.
func (c *Catalog) All() []App {
	if c == nil {
		return nil
	}
	out := make([]App, len(c.apps))
	copy(out, c.apps)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.apps)
}
