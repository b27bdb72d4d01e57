package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig overlays raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Log != nil {
		set(&cfg.Log.Level, raw.Log.Level)
		set(&cfg.Log.File, raw.Log.File)
		set(&cfg.Log.MaxSizeMB, raw.Log.MaxSizeMB)
		set(&cfg.Log.MaxFiles, raw.Log.MaxFiles)
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	}
	if raw.Canvas != nil {
		set(&cfg.Canvas.Width, raw.Canvas.Width)
		set(&cfg.Canvas.Height, raw.Canvas.Height)
		set(&cfg.Canvas.Source, raw.Canvas.Source)
	}
	if raw.Icon != nil {
		set(&cfg.Icon.Width, raw.Icon.Width)
		set(&cfg.Icon.Height, raw.Icon.Height)
		set(&cfg.Icon.Margin, raw.Icon.Margin)
	}
	if raw.Windows != nil {
		applyWindow(&cfg.Windows.Finder, raw.Windows.Finder)
		applyWindow(&cfg.Windows.Login, raw.Windows.Login)
	}
	if raw.Timers != nil {
		set(&cfg.Timers.ToastMS, raw.Timers.ToastMS)
		set(&cfg.Timers.TypingMS, raw.Timers.TypingMS)
	}
	if raw.TUI != nil {
		set(&cfg.TUI.CellWidth, raw.TUI.CellWidth)
		set(&cfg.TUI.CellHeight, raw.TUI.CellHeight)
	}
	if raw.HTTP != nil {
		set(&cfg.HTTP.Listen, raw.HTTP.Listen)
		set(&cfg.HTTP.PointerRate, raw.HTTP.PointerRate)
		set(&cfg.HTTP.PointerBurst, raw.HTTP.PointerBurst)
	}
	if raw.Apps != nil {
		cfg.Apps = append(cfg.Apps[:0:0], raw.Apps...)
		for i := range cfg.Apps {
			if strings.TrimSpace(cfg.Apps[i].ID) == "" {
				return nil, &ValidationError{Path: "apps", Err: fmt.Errorf("entry %d: id is required", i)}
			}
		}
	}

	return cfg, nil
}

func applyWindow(dst *WindowConfig, raw *RawWindowConfig) {
	if raw == nil {
		return
	}
	set(&dst.Width, raw.Width)
	set(&dst.Height, raw.Height)
	set(&dst.TitleBar, raw.TitleBar)
	set(&dst.Controls, raw.Controls)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
