// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package kiosk is the terminal front end: a line-oriented prompt that hosts
// one selection session and shows the word cloud after each vote.
package kiosk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/i18n"
	"github.com/danielhkuo/quickly-cloud/models"
	"github.com/danielhkuo/quickly-cloud/selection"
	"github.com/danielhkuo/quickly-cloud/wordcloud"
)

// API is everything the kiosk needs from the server.
type API interface {
	selection.Submitter
	selection.ConfigReader
	wordcloud.CountsReader
	GetTranslations(ctx context.Context, lang string) (i18n.Table, error)
	GetCloud(ctx context.Context, lang string) (models.CloudResponse, error)
	ClearCounts(ctx context.Context, adminKey string) (models.ClearCountsResponse, error)
}

type Kiosk struct {
	ctrl     *selection.Controller
	api      API
	catalog  *catalog.Catalog
	local    *i18n.Translator
	renderer *wordcloud.Renderer
	width    int

	mu     sync.Mutex
	out    io.Writer
	tables map[string]i18n.Table
}

type Option func(*Kiosk)

// WithWidth sets the terminal width used for the cloud.
func WithWidth(cols int) Option {
	return func(k *Kiosk) {
		if cols > 0 {
			k.width = cols
		}
	}
}

// New builds a kiosk around a fresh controller. Controller options such as
// selection.WithPersister pass through.
func New(api API, cat *catalog.Catalog, local *i18n.Translator, out io.Writer, opts []Option, ctrlOpts ...selection.Option) *Kiosk {
	k := &Kiosk{
		api:     api,
		catalog: cat,
		local:   local,
		width:   80,
		out:     out,
		tables:  make(map[string]i18n.Table),
	}
	for _, opt := range opts {
		opt(k)
	}

	k.ctrl = selection.NewController(cat, api, ctrlOpts...)
	k.renderer = wordcloud.NewRenderer(api, cat, wordcloud.RowLayout{CharWidth: 1.0 / wordcloud.UnchosenSize})
	return k
}

// Controller exposes the hosted session.
func (k *Kiosk) Controller() *selection.Controller {
	return k.ctrl
}

// Run reads commands from in until quit, EOF or ctx cancellation.
func (k *Kiosk) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, unsubscribe := k.ctrl.Subscribe()
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		k.watch(events)
	}()
	defer func() {
		unsubscribe()
		<-watched
	}()

	// The 60s default stays armed until the server answers
	go func() {
		if err := k.ctrl.LoadIdleTimeout(ctx, k.api); err != nil {
			slog.Debug("using default idle timeout", "error", err)
		}
	}()

	k.useLanguage(ctx, k.ctrl.Language())
	k.printf("%s\n", k.translate("title"))
	k.printList()
	k.printHelp()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if quit := k.exec(ctx, line); quit {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the kiosk should exit.
func (k *Kiosk) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "toggle", "t":
		if len(args) != 1 {
			k.printf("usage: toggle <item>\n")
			return false
		}
		k.toggle(k.resolveItem(args[0]))
	case "clear", "c":
		if err := k.ctrl.Clear(); err != nil {
			k.printf("%s\n", k.translate("loading"))
		}
	case "submit", "s", "go":
		k.submit(ctx)
	case "lang", "l":
		if len(args) != 1 {
			k.printf("usage: lang <%s>\n", strings.Join(k.local.Languages(), "|"))
			return false
		}
		if k.useLanguage(ctx, args[0]) {
			k.ctrl.SetLanguage(args[0])
		} else {
			k.printf("unknown language %q\n", args[0])
		}
	case "cloud":
		k.printCloud(ctx)
	case "reset":
		key, ok := adminKeyArg(args)
		if !ok {
			k.printf("usage: reset --admin-key <key>\n")
			return false
		}
		k.reset(ctx, key)
	case "list", "ls":
		k.printList()
	case "help", "?":
		k.printHelp()
	case "quit", "exit", "q":
		return true
	default:
		k.printf("unknown command %q, type help\n", cmd)
	}
	return false
}

// resolveItem accepts an item ID or its 1-based position in the catalog.
func (k *Kiosk) resolveItem(arg string) string {
	if n, err := strconv.Atoi(arg); err == nil {
		if ids := k.catalog.IDs(); n >= 1 && n <= len(ids) {
			return ids[n-1]
		}
	}
	return arg
}

func (k *Kiosk) toggle(itemID string) {
	changed, err := k.ctrl.Toggle(itemID)
	switch {
	case errors.Is(err, selection.ErrBusy):
		k.printf("%s\n", k.translate("loading"))
	case errors.Is(err, selection.ErrUnknownItem):
		k.printf("unknown item %q\n", itemID)
	case err != nil:
		k.printf("%v\n", err)
	case !changed:
		k.printf("%s\n", k.translate("maxReached"))
	}
}

func (k *Kiosk) submit(ctx context.Context) {
	if !k.ctrl.CanSubmit() {
		if k.ctrl.State() == selection.StateSubmitting {
			k.printf("%s\n", k.translate("loading"))
			return
		}
		have := catalog.MaxSelections - k.ctrl.Remaining()
		k.printf("%s (%d/%d)\n", k.translate("selectObjects"), have, catalog.MaxSelections)
		return
	}

	switch err := k.ctrl.Submit(ctx); {
	case err == nil:
		k.printCloud(ctx)
	case errors.Is(err, selection.ErrBusy):
		k.printf("%s\n", k.translate("loading"))
	default:
		// EventSubmitFailed already told the visitor
		slog.Debug("submit failed", "error", err)
	}
}

// adminKeyArg accepts "--admin-key KEY", "--admin-key=KEY" or a bare KEY.
func adminKeyArg(args []string) (string, bool) {
	switch {
	case len(args) == 2 && args[0] == "--admin-key":
		return args[1], true
	case len(args) == 1 && strings.HasPrefix(args[0], "--admin-key="):
		key := strings.TrimPrefix(args[0], "--admin-key=")
		return key, key != ""
	case len(args) == 1 && !strings.HasPrefix(args[0], "-"):
		return args[0], true
	}
	return "", false
}

// reset wipes every stored vote on the server and drops the local selection.
func (k *Kiosk) reset(ctx context.Context, adminKey string) {
	resp, err := k.api.ClearCounts(ctx, adminKey)
	if err != nil {
		k.printf("reset refused: %v\n", err)
		return
	}
	slog.Info("server counts cleared", "removed", resp.Removed)

	if err := k.ctrl.Clear(); err != nil {
		slog.Debug("selection kept after reset", "error", err)
	}
	k.printf("%s (%d)\n", k.translate("countsCleared"), resp.Removed)
}

// watch prints the session changes the visitor did not directly ask about.
func (k *Kiosk) watch(events <-chan selection.Event) {
	for ev := range events {
		switch ev.Kind {
		case selection.EventChanged:
			k.printSelection(ev.Selection)
		case selection.EventIdleReset:
			k.printf("%s\n", k.translate("idleReset"))
		case selection.EventSubmitting:
			k.printf("%s\n", k.translate("loading"))
		case selection.EventSubmitFailed:
			k.printf("%s\n", k.translate("submitFailed"))
		case selection.EventLanguageChanged:
			k.printf("%s\n", k.translate("title"))
			k.printList()
		}
	}
}

// useLanguage fetches the server's table for lang, falling back to the
// bundled one. It reports whether lang is usable at all.
func (k *Kiosk) useLanguage(ctx context.Context, lang string) bool {
	k.mu.Lock()
	_, cached := k.tables[lang]
	k.mu.Unlock()
	if cached {
		return true
	}

	table, err := k.api.GetTranslations(ctx, lang)
	if err != nil {
		slog.Debug("server translations unavailable", "lang", lang, "error", err)
		return k.local.Has(lang)
	}

	k.mu.Lock()
	k.tables[lang] = table
	k.mu.Unlock()
	return true
}

// translate resolves key in the current language: server table, bundled
// table, English, then the key itself.
func (k *Kiosk) translate(key string) string {
	lang := k.ctrl.Language()

	k.mu.Lock()
	table := k.tables[lang]
	k.mu.Unlock()

	if s, ok := table[key]; ok && s != "" {
		return s
	}
	return k.local.T(lang, key)
}

func (k *Kiosk) printf(format string, args ...any) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fmt.Fprintf(k.out, format, args...)
}
