// Package prefs persists small user preferences that the UI changes at run
// time. They live in ~/.config/shelf/prefs.toml, next to the config file.
package prefs

import (
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/fsutil"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme string `toml:"theme"`
	// LibraryDir is the last query typed into the library picker.
	LibraryDir string `toml:"library_dir,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/shelf/prefs.toml"
	defaultTheme     = "Linen"
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme}
}

// Load reads preferences from path. Any problem reading them yields the
// defaults; preferences are never worth failing startup over.
func Load(path string) Prefs {
	prefs := Defaults()
	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return Defaults()
	}
	prefs.Theme = strings.TrimSpace(prefs.Theme)
	if prefs.Theme == "" {
		prefs.Theme = defaultTheme
	}
	prefs.LibraryDir = strings.TrimSpace(prefs.LibraryDir)
	return prefs
}

// Save writes preferences to path atomically, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := fsutil.WriteFileAtomic(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return fsutil.ExpandPath(defaultPrefsPath)
	}
	return fsutil.ExpandPath(path)
}
