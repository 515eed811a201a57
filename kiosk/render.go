// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kiosk

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/wordcloud"
)

func (k *Kiosk) printHelp() {
	k.printf("commands: toggle <n|id>, clear, submit, lang <tag>, cloud, list, reset --admin-key <key>, quit\n")
}

func (k *Kiosk) printList() {
	selected := k.ctrl.Selection()

	var b strings.Builder
	for i, item := range k.catalog.Items() {
		mark := " "
		if slices.Contains(selected, item.ID) {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %2d  %s\n", mark, i+1, k.translate(item.NameKey))
	}
	k.printf("%s", b.String())
}

func (k *Kiosk) printSelection(items []string) {
	labels := make([]string, 0, len(items))
	for _, id := range items {
		labels = append(labels, k.translate(id))
	}
	k.printf("%s (%d/%d): %s\n", k.translate("selected"), len(items), catalog.MaxSelections, strings.Join(labels, ", "))
}

// printCloud draws the cloud as text rows. Tier shows as case: the most
// chosen words in upper case, never-chosen words in lower case.
func (k *Kiosk) printCloud(ctx context.Context) {
	lang := k.ctrl.Language()
	placements, err := k.renderer.Render(ctx, lang, k.translate, wordcloud.Options{
		Width:   float64(k.width),
		Height:  float64(k.catalog.Len()) * wordcloud.ChosenMaxSize,
		Padding: 1,
	})
	if err != nil {
		k.printf("%s: %v\n", k.translate("wordCloud"), err)
		return
	}

	k.printf("%s\n%s", k.translate("wordCloud"), drawRows(placements, k.width))
	k.printCounts(placements)
	k.printTotal(ctx, lang)
}

// printTotal shows how many votes the server has stored. Skipped when the
// server cannot say.
func (k *Kiosk) printTotal(ctx context.Context, lang string) {
	cloud, err := k.api.GetCloud(ctx, lang)
	if err != nil {
		slog.Debug("total votes unavailable", "error", err)
		return
	}
	k.printf("%s: %d\n", k.translate("totalVotes"), cloud.TotalVotes)
}

func drawRows(placements []wordcloud.Placement, width int) string {
	rows := make(map[float64][]wordcloud.Placement)
	var ys []float64
	for _, p := range placements {
		if _, ok := rows[p.Y]; !ok {
			ys = append(ys, p.Y)
		}
		rows[p.Y] = append(rows[p.Y], p)
	}
	slices.Sort(ys)

	var b strings.Builder
	for _, y := range ys {
		line := []rune(strings.Repeat(" ", width))
		for _, p := range rows[y] {
			col := int(p.X)
			for i, r := range []rune(emphasize(p.Word)) {
				if col+i >= 0 && col+i < width {
					line[col+i] = r
				}
			}
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func emphasize(w wordcloud.Word) string {
	switch {
	case w.Size == wordcloud.UnchosenSize:
		return strings.ToLower(w.Label)
	case w.Size >= wordcloud.ChosenMinSize+wordcloud.ChosenRange/2:
		return strings.ToUpper(w.Label)
	}
	return w.Label
}

func (k *Kiosk) printCounts(placements []wordcloud.Placement) {
	chosen := slices.DeleteFunc(slices.Clone(placements), func(p wordcloud.Placement) bool {
		return p.Count == 0
	})
	if len(chosen) == 0 {
		k.printf("%s\n", k.translate("noSelections"))
		return
	}

	slices.SortStableFunc(chosen, func(a, b wordcloud.Placement) int {
		return cmp.Compare(b.Count, a.Count)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", k.translate("selectionCounts"))
	times := k.translate("times")
	for _, p := range chosen {
		fmt.Fprintf(&b, "  %s: %d %s\n", p.Label, p.Count, times)
	}
	k.printf("%s", b.String())
}
