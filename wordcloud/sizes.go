// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package wordcloud turns historical selection counts into sized words and
// hands them to a placement engine.
package wordcloud

import "github.com/danielhkuo/quickly-cloud/catalog"

// Size tiers. Unchosen < Uniform ≈ ChosenMin < ChosenMax must hold.
const (
	UnchosenSize  = 20.0
	UniformSize   = 40.0
	ChosenMinSize = 30.0
	ChosenRange   = 90.0
	ChosenMaxSize = ChosenMinSize + ChosenRange
)

// Word is a catalog item ready for layout.
type Word struct {
	ItemID string
	Label  string
	Size   float64
	Count  int
}

// ComputeDisplaySizes sizes every catalog item, in catalog order.
//
// An empty counts map means nothing was ever recorded and every item gets
// UniformSize. Once the map has any key, even one holding zero, an item
// chosen at least once scales linearly from ChosenMinSize to ChosenMaxSize by
// count/maxCount and every other item gets UnchosenSize. A nil translate
// uses the item's name key as label.
func ComputeDisplaySizes(counts map[string]int, items []catalog.Item, translate func(key string) string) []Word {
	maxCount := 0
	for _, n := range counts {
		if n > maxCount {
			maxCount = n
		}
	}

	words := make([]Word, 0, len(items))
	for _, it := range items {
		count := max(counts[it.ID], 0)

		var size float64
		switch {
		case len(counts) == 0:
			size = UniformSize
		case count > 0:
			size = ChosenMinSize + float64(count)/float64(maxCount)*ChosenRange
		default:
			size = UnchosenSize
		}

		label := it.NameKey
		if translate != nil {
			label = translate(it.NameKey)
		}

		words = append(words, Word{
			ItemID: it.ID,
			Label:  label,
			Size:   size,
			Count:  count,
		})
	}
	return words
}

// IsRTL reports whether lang is written right to left.
func IsRTL(lang string) bool {
	switch lang {
	case "he", "ar":
		return true
	}
	return false
}
