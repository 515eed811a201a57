// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package i18n serves the translation tables for item names and UI strings.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"
)

//go:embed locales/*.json
var localesFS embed.FS

// DefaultLanguage is used when a key is missing from the requested table.
const DefaultLanguage = "en"

// Table maps translation keys to localized strings.
type Table map[string]string

// T returns the localized string, or the key itself when missing.
func (t Table) T(key string) string {
	if s, ok := t[key]; ok && s != "" {
		return s
	}
	return key
}

// Translator holds every loaded language.
type Translator struct {
	tables map[string]Table
}

// Load reads the embedded tables.
func Load() (*Translator, error) {
	return LoadFS(localesFS, "locales")
}

// LoadDir reads <lang>.json files from a directory on disk.
func LoadDir(dir string) (*Translator, error) {
	return LoadFS(os.DirFS(dir), ".")
}

func LoadFS(fsys fs.FS, dir string) (*Translator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}

	tr := &Translator{tables: make(map[string]Table)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		var table Table
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", e.Name(), err)
		}
		tr.tables[strings.TrimSuffix(e.Name(), ".json")] = table
	}

	if len(tr.tables) == 0 {
		return nil, fmt.Errorf("no translation tables in %s", dir)
	}
	return tr, nil
}

// Languages lists the loaded language tags, sorted.
func (tr *Translator) Languages() []string {
	return slices.Sorted(maps.Keys(tr.tables))
}

func (tr *Translator) Has(lang string) bool {
	_, ok := tr.tables[lang]
	return ok
}

// Table returns a copy of one language's table.
func (tr *Translator) Table(lang string) (Table, bool) {
	t, ok := tr.tables[lang]
	if !ok {
		return nil, false
	}
	return maps.Clone(t), true
}

// T looks key up in lang, then in DefaultLanguage, then returns the key.
func (tr *Translator) T(lang, key string) string {
	if s, ok := tr.tables[lang][key]; ok && s != "" {
		return s
	}
	if s, ok := tr.tables[DefaultLanguage][key]; ok && s != "" {
		return s
	}
	return key
}

// Func binds T to one language.
func (tr *Translator) Func(lang string) func(string) string {
	return func(key string) string { return tr.T(lang, key) }
}
