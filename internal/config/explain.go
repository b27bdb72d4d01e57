package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log.level
//	canvas.width
//	icon.margin
//	windows.finder.title_bar
//	timers.toast_ms
//	tui.cell_width
//	http.listen
//	apps
//	apps.<id>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	if strings.HasPrefix(path, "apps.") {
		if src, ok := res.Sources["apps"]; ok {
			return value, src, nil
		}
	}

	if path == "apps" || strings.HasPrefix(path, "apps.") {
		if len(res.Config.Apps) == 0 {
			return value, Source{Kind: SourceBuiltin, Name: "catalog"}, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(n int) error {
		if len(parts) != n {
			return fmt.Errorf("unknown path %q", path)
		}
		return nil
	}

	switch parts[0] {
	case "log":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "level":
			return cfg.Log.Level, nil
		case "file":
			return cfg.Log.File, nil
		case "max_size_mb":
			return cfg.Log.MaxSizeMB, nil
		case "max_files":
			return cfg.Log.MaxFiles, nil
		}
	case "canvas":
		if len(parts) == 1 {
			return cfg.Canvas, nil
		}
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "width":
			return cfg.Canvas.Width, nil
		case "height":
			return cfg.Canvas.Height, nil
		case "source":
			return string(cfg.Canvas.Source), nil
		}
	case "icon":
		if len(parts) == 1 {
			return cfg.Icon, nil
		}
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "width":
			return cfg.Icon.Width, nil
		case "height":
			return cfg.Icon.Height, nil
		case "margin":
			return cfg.Icon.Margin, nil
		}
	case "windows":
		if len(parts) < 2 {
			return cfg.Windows, nil
		}
		var w WindowConfig
		switch parts[1] {
		case "finder":
			w = cfg.Windows.Finder
		case "login":
			w = cfg.Windows.Login
		default:
			return nil, fmt.Errorf("unknown window %q", parts[1])
		}
		if len(parts) == 2 {
			return w, nil
		}
		if err := leaf(3); err != nil {
			return nil, err
		}
		switch parts[2] {
		case "width":
			return w.Width, nil
		case "height":
			return w.Height, nil
		case "title_bar":
			return w.TitleBar, nil
		case "controls":
			return w.Controls, nil
		}
	case "timers":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "toast_ms":
			return cfg.Timers.ToastMS, nil
		case "typing_ms":
			return cfg.Timers.TypingMS, nil
		}
	case "tui":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "cell_width":
			return cfg.TUI.CellWidth, nil
		case "cell_height":
			return cfg.TUI.CellHeight, nil
		}
	case "http":
		if err := leaf(2); err != nil {
			return nil, err
		}
		switch parts[1] {
		case "listen":
			return cfg.HTTP.Listen, nil
		case "pointer_rate":
			return cfg.HTTP.PointerRate, nil
		case "pointer_burst":
			return cfg.HTTP.PointerBurst, nil
		}
	case "apps":
		cat, err := cfg.Catalog()
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			ids := make([]string, 0, cat.Len())
			for _, app := range cat.All() {
				ids = append(ids, app.ID)
			}
			return ids, nil
		}
		id := strings.Join(parts[1:], ".")
		app, ok := cat.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown app %q", id)
		}
		return app, nil
	}
	return nil, fmt.Errorf("unknown path %q", path)
}
