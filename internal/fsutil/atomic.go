// Package fsutil provides the atomic file-persistence primitive shared by
// every store: writes go to a temp file, get fsync'd, then get renamed over
// the target, so a crash mid-write never leaves a partially-written file.
package fsutil

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and parents) if it doesn't already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// WriteJSONAtomic serializes v as indented JSON and atomically replaces path:
// write to a temp file in the same directory, fsync, then rename.
func WriteJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// ReadJSON decodes path's contents into v. It returns os.ErrNotExist
// unmodified when the file doesn't exist yet, so callers can distinguish
// "empty store" from "decode error".
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// IsNotExist reports whether err indicates a missing file, as returned by ReadJSON.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
