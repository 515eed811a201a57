// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package selection implements the voter's in-progress pick list.

# States

	Empty ──toggle──▶ Partial ──toggle──▶ Full ──Submit──▶ Submitting
	  ▲                  │                  │                 │
	  └──Clear / idle────┴──────────────────┘      success ───┘ (Empty)
	                                               failure ──▶ Full

A Controller holds at most catalog.MaxSelections items. Submit requires the
selection to be exactly full and returns *PreconditionError otherwise.

# Idle reset

Every mutation that leaves the selection non-empty re-arms a single-shot
timer; emptying it cancels the timer. When the timer fires the selection is
cleared and EventIdleReset is published. The duration starts at
DefaultIdleTimeout and can be corrected later:

	ctrl := selection.NewController(cat, apiClient)
	go ctrl.LoadIdleTimeout(ctx, apiClient)

# Observers

Renderers subscribe instead of being called directly:

	events, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	for ev := range events {
		redraw(ev.Selection)
	}
*/
package selection
