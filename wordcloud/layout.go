// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wordcloud

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-cloud/catalog"
)

// Options describe the canvas handed to a Layout.
type Options struct {
	Width   float64
	Height  float64
	Padding float64
	RTL     bool
}

// Placement is a word positioned on the canvas. X and Y are the top-left corner.
type Placement struct {
	Word
	X      float64
	Y      float64
	Rotate int
}

// Layout places sized words. Words that do not fit may be omitted.
type Layout interface {
	Place(words []Word, opts Options) ([]Placement, error)
}

var ErrEmptyCanvas = errors.New("canvas has no area")

// RowLayout fills rows largest word first. Glyph width is approximated as
// CharWidth * size per rune, row height as the tallest word in the row.
type RowLayout struct {
	CharWidth float64
}

func (l RowLayout) Place(words []Word, opts Options) ([]Placement, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrEmptyCanvas
	}
	charWidth := l.CharWidth
	if charWidth <= 0 {
		charWidth = 0.6
	}

	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b Word) int {
		switch {
		case a.Size > b.Size:
			return -1
		case a.Size < b.Size:
			return 1
		}
		return 0
	})

	var out []Placement
	x, y, rowHeight := 0.0, 0.0, 0.0
	for _, w := range sorted {
		width := float64(utf8.RuneCountInString(w.Label)) * charWidth * w.Size
		if width > opts.Width {
			continue
		}
		if x > 0 && x+width > opts.Width {
			y += rowHeight + opts.Padding
			x, rowHeight = 0, 0
		}
		if y+w.Size > opts.Height {
			continue
		}

		px := x
		if opts.RTL {
			px = opts.Width - x - width
		}
		out = append(out, Placement{Word: w, X: px, Y: y})

		x += width + opts.Padding
		rowHeight = max(rowHeight, w.Size)
	}
	return out, nil
}

// CountsReader supplies the aggregated frequency counters.
type CountsReader interface {
	GetCounts(ctx context.Context) (map[string]int, error)
}

// Renderer pulls counts, sizes the catalog and runs the layout.
type Renderer struct {
	counts  CountsReader
	catalog *catalog.Catalog
	layout  Layout
}

func NewRenderer(counts CountsReader, cat *catalog.Catalog, layout Layout) *Renderer {
	return &Renderer{counts: counts, catalog: cat, layout: layout}
}

// Render returns the placed words for lang.
func (r *Renderer) Render(ctx context.Context, lang string, translate func(string) string, opts Options) ([]Placement, error) {
	counts, err := r.counts.GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read counts: %w", err)
	}

	words := ComputeDisplaySizes(counts, r.catalog.Items(), translate)
	opts.RTL = IsRTL(lang)
	return r.layout.Place(words, opts)
}
