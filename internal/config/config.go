package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/glassdesk/internal/catalog"
	"github.com/1broseidon/glassdesk/internal/geometry"
	"github.com/1broseidon/glassdesk/internal/logging"
)

// CanvasSource selects where the headless canvas size comes from.
type CanvasSource string

const (
	CanvasStatic CanvasSource = "static" // canvas.width x canvas.height
	CanvasX11    CanvasSource = "x11"    // active monitor work area
)

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is where the TUI and MCP server write logs (default: runtime dir)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// CanvasConfig is the initial desktop size for headless hosts.
type CanvasConfig struct {
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Source CanvasSource `yaml:"source"`
}

// WindowConfig is the chrome geometry of one floating window.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// TitleBar is the height of the draggable header strip.
	TitleBar int `yaml:"title_bar"`
	// Controls is the width of the traffic-light cluster at the left of the
	// title bar. Presses there never start a drag.
	Controls int `yaml:"controls"`
}

// WindowsConfig holds the two window kinds.
type WindowsConfig struct {
	Finder WindowConfig `yaml:"finder"`
	Login  WindowConfig `yaml:"login"`
}

// TimersConfig holds UI timer periods in milliseconds.
type TimersConfig struct {
	ToastMS  int `yaml:"toast_ms"`
	TypingMS int `yaml:"typing_ms"`
}

func (t TimersConfig) Toast() time.Duration {
	return time.Duration(t.ToastMS) * time.Millisecond
}

func (t TimersConfig) Typing() time.Duration {
	return time.Duration(t.TypingMS) * time.Millisecond
}

// TUIConfig maps terminal cells to canvas pixels.
type TUIConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// HTTPConfig configures the daemon's HTTP API.
type HTTPConfig struct {
	// Listen is the TCP address; empty disables the API.
	Listen string `yaml:"listen"`
	// PointerRate limits pointer events per second.
	PointerRate float64 `yaml:"pointer_rate"`
	// PointerBurst is the limiter bucket size.
	PointerBurst int `yaml:"pointer_burst"`
}

// Config is the effective configuration.
type Config struct {
	Log     LoggingConfig      `yaml:"log"`
	Canvas  CanvasConfig       `yaml:"canvas"`
	Icon    geometry.Footprint `yaml:"icon"`
	Windows WindowsConfig      `yaml:"windows"`
	Timers  TimersConfig       `yaml:"timers"`
	TUI     TUIConfig          `yaml:"tui"`
	HTTP    HTTPConfig         `yaml:"http"`
	// Apps replaces the builtin catalog when non-empty.
	Apps []catalog.App `yaml:"apps,omitempty"`
}

// DefaultConfig returns the builtin configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Canvas: CanvasConfig{Width: 1280, Height: 800, Source: CanvasStatic},
		Icon:   geometry.DefaultIconFootprint,
		Windows: WindowsConfig{
			Finder: WindowConfig{Width: 720, Height: 440, TitleBar: 28, Controls: 64},
			Login:  WindowConfig{Width: 420, Height: 460, TitleBar: 28, Controls: 64},
		},
		Timers: TimersConfig{ToastMS: 1900, TypingMS: 34},
		TUI:    TUIConfig{CellWidth: 8, CellHeight: 16},
		HTTP: HTTPConfig{
			Listen:       "127.0.0.1:7878",
			PointerRate:  120,
			PointerBurst: 240,
		},
	}
}

// Catalog builds the application catalog, falling back to the builtin apps.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	if len(c.Apps) == 0 {
		return catalog.Builtin(), nil
	}
	return catalog.New(c.Apps)
}

// CanvasSize returns the static canvas size.
func (c *Config) CanvasSize() geometry.Size {
	return geometry.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Save writes the effective config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.Log.Level) {
		return &ValidationError{Path: "log.level", Err: fmt.Errorf("log.level must be one of: debug, info, warn, error")}
	}
	if c.Log.MaxSizeMB < 0 {
		return &ValidationError{Path: "log.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Log.MaxFiles < 0 {
		return &ValidationError{Path: "log.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	switch c.Canvas.Source {
	case CanvasStatic, CanvasX11:
	default:
		return &ValidationError{Path: "canvas.source", Err: fmt.Errorf("canvas.source must be one of: static, x11")}
	}
	if c.Canvas.Width <= 0 {
		return &ValidationError{Path: "canvas.width", Err: fmt.Errorf("canvas.width must be > 0")}
	}
	if c.Canvas.Height <= 0 {
		return &ValidationError{Path: "canvas.height", Err: fmt.Errorf("canvas.height must be > 0")}
	}

	if c.Icon.Width <= 0 || c.Icon.Height <= 0 {
		return &ValidationError{Path: "icon", Err: fmt.Errorf("icon width and height must be > 0")}
	}
	if c.Icon.Margin < 0 {
		return &ValidationError{Path: "icon.margin", Err: fmt.Errorf("icon.margin must be >= 0")}
	}

	if err := validateWindow("windows.finder", c.Windows.Finder); err != nil {
		return err
	}
	if err := validateWindow("windows.login", c.Windows.Login); err != nil {
		return err
	}

	if c.Timers.ToastMS <= 0 {
		return &ValidationError{Path: "timers.toast_ms", Err: fmt.Errorf("toast_ms must be > 0")}
	}
	if c.Timers.TypingMS <= 0 {
		return &ValidationError{Path: "timers.typing_ms", Err: fmt.Errorf("typing_ms must be > 0")}
	}

	if c.TUI.CellWidth <= 0 || c.TUI.CellHeight <= 0 {
		return &ValidationError{Path: "tui", Err: fmt.Errorf("cell_width and cell_height must be > 0")}
	}

	if c.HTTP.PointerRate < 0 {
		return &ValidationError{Path: "http.pointer_rate", Err: fmt.Errorf("pointer_rate must be >= 0")}
	}
	if c.HTTP.PointerRate > 0 && c.HTTP.PointerBurst <= 0 {
		return &ValidationError{Path: "http.pointer_burst", Err: fmt.Errorf("pointer_burst must be > 0 when pointer_rate is set")}
	}

	if len(c.Apps) > 0 {
		if _, err := catalog.New(c.Apps); err != nil {
			return &ValidationError{Path: "apps", Err: err}
		}
		if !hasGroup(c.Apps, catalog.GroupFinder) {
			return &ValidationError{Path: "apps", Err: fmt.Errorf("apps must list at least one finder app")}
		}
	}
	return nil
}

func validateWindow(path string, w WindowConfig) error {
	if w.Width <= 0 || w.Height <= 0 {
		return &ValidationError{Path: path, Err: fmt.Errorf("width and height must be > 0")}
	}
	if w.TitleBar < 0 || w.TitleBar > w.Height {
		return &ValidationError{Path: path + ".title_bar", Err: fmt.Errorf("title_bar must be between 0 and height")}
	}
	if w.Controls < 0 || w.Controls > w.Width {
		return &ValidationError{Path: path + ".controls", Err: fmt.Errorf("controls must be between 0 and width")}
	}
	return nil
}

func hasGroup(apps []catalog.App, g catalog.Group) bool {
	for _, app := range apps {
		if catalog.Group(strings.TrimSpace(string(app.Group))) == g {
			return true
		}
	}
	return false
}
