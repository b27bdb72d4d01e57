package catalog

import (
	"strings"
	"testing"
)

func TestBuiltinLookup(t *testing.T) {
	c := Builtin()
	tests := []struct {
		id         string
		wantName   string
		wantGroup  Group
		opensLogin bool
	}{
		{"wallet-app", "Cards", GroupFinder, false},
		{"vault-app", "Lock", GroupFinder, true},
		{"mdp-shortcut", "MDP", GroupDesktop, true},
		{"video-app", "FaceTime", GroupDock, false},
		{"appstore-app", "App Store", GroupDock, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			app, ok := c.Lookup(tt.id)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.id)
			}
			if app.Name != tt.wantName || app.Group != tt.wantGroup || app.OpensLogin != tt.opensLogin {
				t.Fatalf("Lookup(%q) = %+v", tt.id, app)
			}
		})
	}
	if _, ok := c.Lookup("missing-app"); ok {
		t.Fatalf("Lookup(missing-app) should fail")
	}
}

func TestGroupKeepsOrder(t *testing.T) {
	c := Builtin()
	var ids []string
	for _, app := range c.Group(GroupFinder) {
		ids = append(ids, app.ID)
	}
	got := strings.Join(ids, ",")
	want := "wallet-app,home-app,locate-app,translate-app,vault-app"
	if got != want {
		t.Fatalf("finder group = %s, want %s", got, want)
	}
	if n := len(c.Group(GroupDock)); n != 7 {
		t.Fatalf("dock group has %d apps, want 7", n)
	}
}

func TestNewRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		apps []App
		want string
	}{
		{"empty id", []App{{ID: " ", Group: GroupDock}}, "id is required"},
		{"duplicate", []App{{ID: "a", Group: GroupDock}, {ID: "a", Group: GroupFinder}}, "duplicate id"},
		{"bad group", []App{{ID: "a", Group: "taskbar"}}, "unknown group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.apps)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("New() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestNewDefaultsName(t *testing.T) {
	c, err := New([]App{{ID: "notes-app", Group: GroupDock}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	app, _ := c.Lookup("notes-app")
	if app.Name != "notes-app" {
		t.Fatalf("Name = %q, want id fallback", app.Name)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if _, ok := c.Lookup("wallet-app"); ok {
		t.Fatalf("nil catalog should not resolve ids")
	}
	if c.Len() != 0 || c.All() != nil {
		t.Fatalf("nil catalog should be empty")
	}
}
