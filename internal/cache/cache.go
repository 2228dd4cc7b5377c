// Package cache persists small JSON documents to flat files. Both the genre
// cache and the scrobble cache are stored this way: human-inspectable,
// fully rewritten on every save, no locking (single-process use).
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the JSON document at path into v. A missing file is not an
// error: v is left untouched, so callers get their zero value (typically an
// empty map) for caches that don't exist yet.
func Load(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing cache %s: %w", path, err)
	}
	return nil
}

// Save writes v to path as indented JSON, replacing any previous contents.
// The document is written to a temp file and renamed into place so a crash
// mid-write never leaves a truncated cache behind.
func Save(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("writing cache %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing cache %s: %w", path, err)
	}
	return nil
}
