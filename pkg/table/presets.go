package table

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed presets/*.yaml
var presetFS embed.FS

var ErrUnknownPreset = errors.New("table: unknown preset")

// Presets lists the names of the built-in tables, sorted.
func Presets() []string {
	matches, err := fs.Glob(presetFS, "presets/*.yaml")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// Preset loads a built-in table by name.
func Preset(name string) (*File, error) {
	if !slices.Contains(Presets(), name) {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, name, strings.Join(Presets(), ", "))
	}
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("error reading preset %q: %w", name, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading preset %q: %w", name, err)
	}
	return f, nil
}
