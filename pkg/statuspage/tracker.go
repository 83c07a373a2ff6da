package statuspage

import (
	"context"
	"fmt"
	"sync"
)

// SeenStore records which incident IDs have already been processed.
type SeenStore interface {
	Contains(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, id string) error
}

// Tracker decides whether an incident is new information. It owns the
// one-shot seeding flag: while seeding, new IDs are recorded but not emitted.
type Tracker struct {
	store SeenStore

	// mu makes check-then-insert atomic across callers
	mu      sync.Mutex
	seeding bool
}

// NewTracker wraps store. With seed set, incidents seen before EndSeeding
// are recorded silently.
func NewTracker(store SeenStore, seed bool) *Tracker {
	return &Tracker{
		store:   store,
		seeding: seed,
	}
}

// Mark records id and reports whether it was unseen. Empty IDs are never
// new. The ID is inserted before the caller does anything else with it, so
// a later failure cannot cause a second emission.
func (t *Tracker) Mark(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	seen, err := t.store.Contains(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrStoreContains, err)
	}
	if seen {
		return false, nil
	}
	if err := t.store.Insert(ctx, id); err != nil {
		return false, fmt.Errorf("%s: %w", ErrStoreInsert, err)
	}
	return true, nil
}

// ObserveIncident returns the event to emit for incident, or ok=false when
// it was already seen, has no ID, or arrived while seeding.
func (t *Tracker) ObserveIncident(ctx context.Context, incident Incident) (NormalizedEvent, bool, error) {
	isNew, err := t.Mark(ctx, incident.ID)
	if err != nil || !isNew {
		return NormalizedEvent{}, false, err
	}
	if t.Seeding() {
		return NormalizedEvent{}, false, nil
	}
	return NormalizeIncident(incident), true, nil
}

// Seeding reports whether the first-cycle seeding window is still open.
func (t *Tracker) Seeding() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seeding
}

// EndSeeding closes the seeding window and reports whether it was open.
func (t *Tracker) EndSeeding() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.seeding
	t.seeding = false
	return was
}
