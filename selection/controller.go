// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/quickly-cloud/catalog"
	"github.com/danielhkuo/quickly-cloud/models"
)

// DefaultIdleTimeout applies until a config value is loaded.
const DefaultIdleTimeout = 60 * time.Second

// State of the selection session.
type State int

const (
	StateEmpty State = iota
	StatePartial
	StateFull
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePartial:
		return "partial"
	case StateFull:
		return "full"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Submitter is the counting collaborator. On success it has durably
// incremented each submitted item's counter by one.
type Submitter interface {
	SubmitVote(ctx context.Context, req models.VoteRequest) error
}

// Persister keeps an in-progress selection across restarts.
type Persister interface {
	LoadSelection() ([]string, error)
	SaveSelection(items []string) error
}

// afterFunc schedules f after d and returns a stop function.
type afterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Controller owns one selection session.
type Controller struct {
	mu sync.Mutex

	catalog   *catalog.Catalog
	submitter Submitter
	persister Persister
	after     afterFunc

	selected    []string
	submitting  bool
	language    string
	idleTimeout time.Duration

	// timerStop is non-nil while an idle timer is armed.
	// timerGen invalidates callbacks of cancelled timers that already fired.
	timerStop func() bool
	timerGen  uint64

	subs    map[int]chan Event
	nextSub int
}

type Option func(*Controller)

func WithLanguage(lang string) Option {
	return func(c *Controller) { c.language = lang }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

func WithPersister(p Persister) Option {
	return func(c *Controller) { c.persister = p }
}

func withAfterFunc(f afterFunc) Option {
	return func(c *Controller) { c.after = f }
}

// NewController creates an empty session, or restores one from the persister.
func NewController(cat *catalog.Catalog, submitter Submitter, opts ...Option) *Controller {
	c := &Controller{
		catalog:     cat,
		submitter:   submitter,
		after:       realAfterFunc,
		language:    "en",
		idleTimeout: DefaultIdleTimeout,
		subs:        make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.persister != nil {
		c.restore()
	}
	return c
}

func (c *Controller) restore() {
	items, err := c.persister.LoadSelection()
	if err != nil {
		slog.Warn("failed to restore selection", "error", err)
		return
	}

	for _, id := range items {
		if len(c.selected) == catalog.MaxSelections {
			break
		}
		if !c.catalog.Contains(id) || slices.Contains(c.selected, id) {
			continue
		}
		c.selected = append(c.selected, id)
	}

	if len(c.selected) > 0 {
		c.mu.Lock()
		c.armLocked()
		c.mu.Unlock()
		slog.Info("selection restored", "items", c.selected)
	}
}

// Toggle removes itemID if selected, otherwise appends it when below capacity.
// It reports whether the selection changed. At capacity the call is a no-op.
func (c *Controller) Toggle(itemID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return false, ErrBusy
	}
	if !c.catalog.Contains(itemID) {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	if i := slices.Index(c.selected, itemID); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
	} else if len(c.selected) < catalog.MaxSelections {
		c.selected = append(c.selected, itemID)
	} else {
		return false, nil
	}

	c.mutatedLocked()
	c.publishLocked(EventChanged, nil)
	return true, nil
}

// Clear empties the selection and cancels the idle timer.
func (c *Controller) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return ErrBusy
	}

	c.selected = nil
	c.mutatedLocked()
	c.publishLocked(EventChanged, nil)
	return nil
}

// Submit sends the full selection to the counting collaborator.
// On failure the selection is left intact and the error is returned; there is
// no automatic retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	if len(c.selected) != catalog.MaxSelections {
		have := len(c.selected)
		c.mu.Unlock()
		return &PreconditionError{Have: have, Want: catalog.MaxSelections}
	}

	c.submitting = true
	c.cancelLocked()
	req := models.VoteRequest{
		Items:    c.snapshotLocked(),
		Language: c.language,
	}
	c.publishLocked(EventSubmitting, nil)
	c.mu.Unlock()

	err := c.submitter.SubmitVote(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		subErr := &CollaboratorUnavailableError{Op: "submit", Err: err}
		c.armLocked()
		c.publishLocked(EventSubmitFailed, subErr)
		slog.Warn("vote submission failed", "items", req.Items, "error", err)
		return subErr
	}

	c.selected = nil
	c.persistLocked()
	c.publishLocked(EventSubmitted, nil)
	slog.Info("vote submitted", "items", req.Items, "language", req.Language)
	return nil
}

// SetIdleTimeout replaces the idle duration. A live timer is cancelled and
// re-armed with the full new duration; elapsed time is not carried over.
func (c *Controller) SetIdleTimeout(d time.Duration) {
	if d <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.idleTimeout = d
	if c.timerStop != nil {
		c.armLocked()
	}
}

// SetLanguage changes the tag sent with submissions and notifies subscribers.
func (c *Controller) SetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lang == c.language {
		return
	}
	c.language = lang
	c.publishLocked(EventLanguageChanged, nil)
}

func (c *Controller) Selection() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) Language() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

func (c *Controller) IdleTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idleTimeout
}

// CanSubmit reports whether Submit would pass its precondition.
func (c *Controller) CanSubmit() bool {
	return c.State() == StateFull
}

// Remaining is how many more items can be picked.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return catalog.MaxSelections - len(c.selected)
}

func (c *Controller) stateLocked() State {
	switch {
	case c.submitting:
		return StateSubmitting
	case len(c.selected) == 0:
		return StateEmpty
	case len(c.selected) == catalog.MaxSelections:
		return StateFull
	}
	return StatePartial
}

func (c *Controller) snapshotLocked() []string {
	if len(c.selected) == 0 {
		return []string{}
	}
	return slices.Clone(c.selected)
}

func (c *Controller) mutatedLocked() {
	c.persistLocked()
	if len(c.selected) == 0 {
		c.cancelLocked()
		return
	}
	c.armLocked()
}

func (c *Controller) persistLocked() {
	if c.persister == nil {
		return
	}
	if err := c.persister.SaveSelection(c.snapshotLocked()); err != nil {
		slog.Warn("failed to persist selection", "error", err)
	}
}

func (c *Controller) armLocked() {
	c.cancelLocked()
	gen := c.timerGen
	c.timerStop = c.after(c.idleTimeout, func() { c.idleExpired(gen) })
}

func (c *Controller) cancelLocked() {
	if c.timerStop != nil {
		c.timerStop()
		c.timerStop = nil
	}
	c.timerGen++
}

func (c *Controller) idleExpired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.timerGen || c.submitting {
		return
	}
	c.timerStop = nil
	if len(c.selected) == 0 {
		return
	}

	slog.Info("selection reset after idle timeout", "items", c.selected, "timeout", c.idleTimeout)
	c.selected = nil
	c.persistLocked()
	c.publishLocked(EventIdleReset, nil)
}
