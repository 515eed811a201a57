// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilePersister stores the in-progress selection as a JSON array so a
// restarted kiosk resumes where the visitor left off.
type FilePersister struct {
	Path string
}

func (p FilePersister) LoadSelection() ([]string, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse selection: %w", err)
	}
	return items, nil
}

// SaveSelection replaces the file atomically.
func (p FilePersister) SaveSelection(items []string) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".selection-*")
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save selection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return os.Rename(tmp.Name(), p.Path)
}
