// Package storage provides atomic file operations for JSON data in ~/.relcut/
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Dir returns the relcut data directory, creating it if needed.
// RELCUT_HOME overrides the default ~/.relcut.
func Dir() (string, error) {
	dir := os.Getenv("RELCUT_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".relcut")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// SaveJSON atomically writes data as indented JSON to path.
// The parent directory is created if needed; the data is written to a
// temp file in the same directory and renamed over path.
func SaveJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(jsonData, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadJSON reads JSON from path into dest.
// Returns an error satisfying errors.Is(err, fs.ErrNotExist) if the file is missing.
func LoadJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
