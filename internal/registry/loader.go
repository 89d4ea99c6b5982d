// Package registry discovers loadable models on disk and resolves the model
// ids passed to initialize into file paths for the engine.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sessiond/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from
// filenames. ID is the filename without extension; Path is the absolute
// file path.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		id := strings.TrimSuffix(name, filepath.Ext(name))
		models = append(models, types.Model{ID: id, Name: id, Path: filepath.Join(abs, name)})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Resolve maps a model id to its on-disk path.
func Resolve(models []types.Model, id string) (string, error) {
	for _, m := range models {
		if m.ID == id {
			return m.Path, nil
		}
	}
	return "", fmt.Errorf("model not found: %s", id)
}

// DefaultModel picks the configured default when present in the registry,
// else the first discovered model, else "".
func DefaultModel(models []types.Model, configured string) string {
	if configured != "" {
		for _, m := range models {
			if m.ID == configured {
				return configured
			}
		}
	}
	if len(models) > 0 {
		return models[0].ID
	}
	return ""
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
