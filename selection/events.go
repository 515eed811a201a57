// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

// EventKind identifies what happened to the session.
type EventKind int

const (
	EventChanged EventKind = iota
	EventIdleReset
	EventSubmitting
	EventSubmitted
	EventSubmitFailed
	EventLanguageChanged
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventIdleReset:
		return "idle_reset"
	case EventSubmitting:
		return "submitting"
	case EventSubmitted:
		return "submitted"
	case EventSubmitFailed:
		return "submit_failed"
	case EventLanguageChanged:
		return "language_changed"
	}
	return "unknown"
}

// Event is delivered to subscribers after every state change.
// Selection is a snapshot taken at publish time.
type Event struct {
	Kind      EventKind
	State     State
	Selection []string
	Language  string
	Err       error
}

const subscriberBuffer = 16

// Subscribe registers an observer. Events are dropped for a subscriber whose
// buffer is full. The returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Event, subscriberBuffer)
	c.subs[id] = ch

	var once bool
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if once {
			return
		}
		once = true
		delete(c.subs, id)
		close(ch)
	}
}

// publishLocked must be called with c.mu held.
func (c *Controller) publishLocked(kind EventKind, err error) {
	ev := Event{
		Kind:      kind,
		State:     c.stateLocked(),
		Selection: c.snapshotLocked(),
		Language:  c.language,
		Err:       err,
	}
	for _, ch := range c.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
