// Package prefs persists small user preferences outside the snapshot
// database, currently the last filter selection.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tmcke/portview/internal/domain"
)

const filterFile = "filters.json"

func filterPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "portview")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, filterFile), nil
}

// SaveFilter writes the selection atomically.
func SaveFilter(f domain.FilterState) error {
	path, err := filterPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadFilter returns the saved selection, or nil when none exists.
func LoadFilter() (*domain.FilterState, error) {
	path, err := filterPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var f domain.FilterState
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Portfolio == "" {
		f.Portfolio = domain.FilterAll
	}
	if f.Program == "" {
		f.Program = domain.FilterAll
	}
	if f.Statuses == nil {
		f.Statuses = map[domain.Status]bool{}
	}
	return &f, nil
}
