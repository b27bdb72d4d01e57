// Package runtimepath places the per-user files that live only as long as a
// login: the engine control socket and the terminal host log.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "glassdesk.sock"
	tuiLogName = "glassdesk-tui.log"
)

// Dir picks the first usable location among $XDG_RUNTIME_DIR, an existing
// /run/user/<uid> and a private /tmp/glassdesk-runtime-<uid>, which is
// created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	fallback := filepath.Join(os.TempDir(), fmt.Sprintf("glassdesk-runtime-%d", uid))
	if err := os.MkdirAll(fallback, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir %s: %w", fallback, err)
	}
	return fallback, nil
}

// SocketPath is where the engine daemon listens for CLI requests.
func SocketPath() (string, error) {
	return inDir(socketName)
}

// TUILogPath receives logs while the terminal host owns stderr.
func TUILogPath() (string, error) {
	return inDir(tuiLogName)
}

func inDir(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
