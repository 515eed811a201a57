// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wordcloud

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/quickly-cloud/catalog"
)

func TestRowLayout_LargestFirstWithinBounds(t *testing.T) {
	words := []Word{
		{ItemID: "a", Label: "ab", Size: 20},
		{ItemID: "b", Label: "ab", Size: 120},
		{ItemID: "c", Label: "ab", Size: 60},
	}
	opts := Options{Width: 400, Height: 400, Padding: 10}

	placed, err := RowLayout{}.Place(words, opts)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if len(placed) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(placed))
	}
	if placed[0].ItemID != "b" {
		t.Errorf("expected largest word first, got %s", placed[0].ItemID)
	}
	for _, p := range placed {
		width := 2 * 0.6 * p.Size
		if p.X < 0 || p.X+width > opts.Width || p.Y < 0 || p.Y+p.Size > opts.Height {
			t.Errorf("%s placed out of bounds: %+v", p.ItemID, p)
		}
	}
}

func TestRowLayout_WrapsAndDropsOverflow(t *testing.T) {
	words := []Word{
		{ItemID: "a", Label: "aaaa", Size: 50},
		{ItemID: "b", Label: "bbbb", Size: 50},
		{ItemID: "c", Label: "cccc", Size: 50},
		{ItemID: "huge", Label: "this label never fits", Size: 120},
	}
	placed, err := RowLayout{CharWidth: 0.5}.Place(words, Options{Width: 250, Height: 100})
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	// each word is 100 wide: two per row, two rows of height 50
	if len(placed) != 3 {
		t.Fatalf("expected 3 placements, got %d: %+v", len(placed), placed)
	}
	if placed[2].Y != 50 || placed[2].X != 0 {
		t.Errorf("expected third word wrapped to second row, got %+v", placed[2])
	}
}

func TestRowLayout_RTLMirrors(t *testing.T) {
	words := []Word{{ItemID: "a", Label: "abcd", Size: 50}}
	placed, _ := RowLayout{CharWidth: 0.5}.Place(words, Options{Width: 300, Height: 100, RTL: true})

	if len(placed) != 1 || placed[0].X != 200 {
		t.Errorf("expected word right-aligned at x=200, got %+v", placed)
	}
}

func TestRowLayout_EmptyCanvas(t *testing.T) {
	_, err := RowLayout{}.Place(nil, Options{})
	if !errors.Is(err, ErrEmptyCanvas) {
		t.Errorf("expected ErrEmptyCanvas, got %v", err)
	}
}

type stubCounts struct {
	counts map[string]int
	err    error
}

func (s stubCounts) GetCounts(ctx context.Context) (map[string]int, error) {
	return s.counts, s.err
}

type recordingLayout struct {
	words []Word
	opts  Options
}

func (l *recordingLayout) Place(words []Word, opts Options) ([]Placement, error) {
	l.words, l.opts = words, opts
	return nil, nil
}

func TestRenderer_Render(t *testing.T) {
	cat, _ := catalog.New(3)
	layout := &recordingLayout{}
	r := NewRenderer(stubCounts{counts: map[string]int{"item2": 4}}, cat, layout)

	if _, err := r.Render(context.Background(), "he", nil, Options{Width: 10, Height: 10}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !layout.opts.RTL {
		t.Error("expected RTL for he")
	}
	if len(layout.words) != 3 || layout.words[1].Size != ChosenMaxSize || layout.words[0].Size != UnchosenSize {
		t.Errorf("unexpected words %+v", layout.words)
	}
}

func TestRenderer_CountsError(t *testing.T) {
	cat, _ := catalog.New(3)
	wantErr := errors.New("unavailable")
	r := NewRenderer(stubCounts{err: wantErr}, cat, &recordingLayout{})

	if _, err := r.Render(context.Background(), "en", nil, Options{Width: 1, Height: 1}); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
