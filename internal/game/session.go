package game

import (
	"context"
	"time"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/combat"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/encounter"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/save"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/telemetry"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/view"
)

// persist writes the active run into its mode slot.
func (e *Engine) persist(ctx context.Context) error {
	blob, err := save.Encode(e.state)
	if err != nil {
		return err
	}
	return e.saves.Put(ctx, e.state.Mode, blob)
}

// Save forces a write of the active run, regardless of mode discipline.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return ErrNoRun
	}
	return e.persist(ctx)
}

// HasSave reports whether a slot holds a resumable run.
func (e *Engine) HasSave(ctx context.Context, mode run.Mode) (bool, error) {
	return e.saves.Has(ctx, mode)
}

// Resume loads the slot for the given mode and makes it the active run.
func (e *Engine) Resume(ctx context.Context, mode run.Mode) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	blob, err := e.saves.Get(ctx, mode)
	if err != nil {
		return view.Snapshot{}, err
	}
	s, err := save.Decode(blob)
	if err != nil {
		return view.Snapshot{}, err
	}

	e.state = s
	e.machine = encounter.NewMachine(s, combat.NewResolver(e.rng, e.log), e.rng, e.log)
	e.log.Printf("game: resumed %s run on floor %d", mode, s.Floor)
	return e.commit(), nil
}

// Events returns telemetry recorded since the given time.
func (e *Engine) Events(since time.Time) ([]telemetry.Event, error) {
	return e.events.GetEvents(since, nil)
}

// EventsAfter returns events past a cursor id, when the backing
// repository supports cursors.
func (e *Engine) EventsAfter(lastID int) []telemetry.Event {
	if mr, ok := e.events.(*telemetry.MemoryRepository); ok {
		return mr.After(lastID)
	}
	return nil
}

// Stats aggregates telemetry into balance statistics.
func (e *Engine) Stats(since time.Time) (telemetry.Stats, error) {
	events, err := e.events.GetEvents(since, nil)
	if err != nil {
		return telemetry.Stats{}, err
	}
	return telemetry.CalculateStats(events, since)
}
