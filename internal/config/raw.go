package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/glassdesk/internal/catalog"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawCanvasConfig struct {
	Width  *int          `yaml:"width"`
	Height *int          `yaml:"height"`
	Source *CanvasSource `yaml:"source"`
}

type RawFootprint struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
	Margin *int `yaml:"margin"`
}

type RawWindowConfig struct {
	Width    *int `yaml:"width"`
	Height   *int `yaml:"height"`
	TitleBar *int `yaml:"title_bar"`
	Controls *int `yaml:"controls"`
}

type RawWindowsConfig struct {
	Finder *RawWindowConfig `yaml:"finder"`
	Login  *RawWindowConfig `yaml:"login"`
}

type RawTimersConfig struct {
	ToastMS  *int `yaml:"toast_ms"`
	TypingMS *int `yaml:"typing_ms"`
}

type RawTUIConfig struct {
	CellWidth  *int `yaml:"cell_width"`
	CellHeight *int `yaml:"cell_height"`
}

type RawHTTPConfig struct {
	Listen       *string  `yaml:"listen"`
	PointerRate  *float64 `yaml:"pointer_rate"`
	PointerBurst *int     `yaml:"pointer_burst"`
}

// RawConfig mirrors Config with optional fields so layered files only
// override what they set.
type RawConfig struct {
	Include IncludeList       `yaml:"include"`
	Log     *RawLoggingConfig `yaml:"log"`
	Canvas  *RawCanvasConfig  `yaml:"canvas"`
	Icon    *RawFootprint     `yaml:"icon"`
	Windows *RawWindowsConfig `yaml:"windows"`
	Timers  *RawTimersConfig  `yaml:"timers"`
	TUI     *RawTUIConfig     `yaml:"tui"`
	HTTP    *RawHTTPConfig    `yaml:"http"`
	Apps    []catalog.App     `yaml:"apps"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Log != nil {
		if out.Log == nil {
			out.Log = &RawLoggingConfig{}
		}
		mergePtr(&out.Log.Level, overlay.Log.Level)
		mergePtr(&out.Log.File, overlay.Log.File)
		mergePtr(&out.Log.MaxSizeMB, overlay.Log.MaxSizeMB)
		mergePtr(&out.Log.MaxFiles, overlay.Log.MaxFiles)
	}
	if overlay.Canvas != nil {
		if out.Canvas == nil {
			out.Canvas = &RawCanvasConfig{}
		}
		mergePtr(&out.Canvas.Width, overlay.Canvas.Width)
		mergePtr(&out.Canvas.Height, overlay.Canvas.Height)
		mergePtr(&out.Canvas.Source, overlay.Canvas.Source)
	}
	if overlay.Icon != nil {
		if out.Icon == nil {
			out.Icon = &RawFootprint{}
		}
		mergePtr(&out.Icon.Width, overlay.Icon.Width)
		mergePtr(&out.Icon.Height, overlay.Icon.Height)
		mergePtr(&out.Icon.Margin, overlay.Icon.Margin)
	}
	if overlay.Windows != nil {
		if out.Windows == nil {
			out.Windows = &RawWindowsConfig{}
		}
		out.Windows.Finder = mergeRawWindow(out.Windows.Finder, overlay.Windows.Finder)
		out.Windows.Login = mergeRawWindow(out.Windows.Login, overlay.Windows.Login)
	}
	if overlay.Timers != nil {
		if out.Timers == nil {
			out.Timers = &RawTimersConfig{}
		}
		mergePtr(&out.Timers.ToastMS, overlay.Timers.ToastMS)
		mergePtr(&out.Timers.TypingMS, overlay.Timers.TypingMS)
	}
	if overlay.TUI != nil {
		if out.TUI == nil {
			out.TUI = &RawTUIConfig{}
		}
		mergePtr(&out.TUI.CellWidth, overlay.TUI.CellWidth)
		mergePtr(&out.TUI.CellHeight, overlay.TUI.CellHeight)
	}
	if overlay.HTTP != nil {
		if out.HTTP == nil {
			out.HTTP = &RawHTTPConfig{}
		}
		mergePtr(&out.HTTP.Listen, overlay.HTTP.Listen)
		mergePtr(&out.HTTP.PointerRate, overlay.HTTP.PointerRate)
		mergePtr(&out.HTTP.PointerBurst, overlay.HTTP.PointerBurst)
	}

	// Apps replace as a whole list.
	if overlay.Apps != nil {
		out.Apps = overlay.Apps
	}
	return out
}

func mergeRawWindow(base, overlay *RawWindowConfig) *RawWindowConfig {
	if overlay == nil {
		return base
	}
	out := RawWindowConfig{}
	if base != nil {
		out = *base
	}
	mergePtr(&out.Width, overlay.Width)
	mergePtr(&out.Height, overlay.Height)
	mergePtr(&out.TitleBar, overlay.TitleBar)
	mergePtr(&out.Controls, overlay.Controls)
	return &out
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}
