package game

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/combat"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/encounter"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/save"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/telemetry"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/view"
)

var (
	ErrNoRun     = errors.New("no active run")
	ErrRunOver   = errors.New("run has ended")
	ErrNoBossYet = errors.New("guardian still stands")
)

// Options wires the engine's collaborators. Zero-value fields fall back
// to in-memory repositories, a real clock, and a quiet logger.
type Options struct {
	Saves   save.Repository
	Events  telemetry.Repository
	Clock   Clock
	Logger  *log.Logger
	Seed    int64
	Balance *config.Balance
}

// Engine drives one player session end to end: run lifecycle, encounter
// actions, persistence discipline, and the commit fan-out to observers.
// All entry points serialize on one mutex; inside it the encounter
// machine's busy latch provides the resolution-level gating.
type Engine struct {
	saves  save.Repository
	events telemetry.Repository
	clock  Clock
	log    *log.Logger
	rng    *rand.Rand

	mu       sync.Mutex
	state    *run.State
	machine  *encounter.Machine
	onCommit []func(view.Snapshot)
}

func NewEngine(opts Options) *Engine {
	if opts.Saves == nil {
		opts.Saves = save.NewMemoryRepository()
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepository()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	if opts.Balance != nil {
		applyBalance(opts.Balance)
	}
	return &Engine{
		saves:  opts.Saves,
		events: opts.Events,
		clock:  opts.Clock,
		log:    opts.Logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// OnCommit registers an observer called with a fresh snapshot after
// every committed state change. Observers run under the engine lock and
// must not call back in.
func (e *Engine) OnCommit(fn func(view.Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCommit = append(e.onCommit, fn)
}

func (e *Engine) commit() view.Snapshot {
	snap := view.Project(e.state)
	for _, fn := range e.onCommit {
		fn(snap)
	}
	return snap
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if err := e.events.RecordEvent(t, md); err != nil {
		e.log.Printf("game: telemetry drop %s: %v", t, err)
	}
}

// Snapshot returns the current view without mutating anything.
func (e *Engine) Snapshot() (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return view.Snapshot{}, ErrNoRun
	}
	return view.Project(e.state), nil
}

// NewRun starts a fresh run, replacing any active one.
func (e *Engine) NewRun(ctx context.Context, class run.Class, mode run.Mode) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := run.New(class, mode, e.rng)
	e.state = s
	e.machine = encounter.NewMachine(s, combat.NewResolver(e.rng, e.log), e.rng, e.log)

	e.record(telemetry.EventRunStarted, telemetry.EventMetadata{
		"class": string(s.Class), "mode": string(mode), "floor": s.Floor,
	})
	e.log.Printf("game: new %s run as %s", mode, s.Class)

	// The run start is a floor boundary, so checkpoint discipline writes
	// the slot now. A hardcore slot first appears on room entry.
	if s.Mode == run.ModeCheckpoint {
		if err := e.persist(ctx); err != nil {
			return view.Snapshot{}, err
		}
	}
	return e.commit(), nil
}

func (e *Engine) guard() error {
	if e.state == nil {
		return ErrNoRun
	}
	if e.state.HP <= 0 {
		return ErrRunOver
	}
	return nil
}

// EnterRoom moves into an adjacent room and stages its encounter.
func (e *Engine) EnterRoom(ctx context.Context, roomID int) (*encounter.EnterResult, view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, view.Snapshot{}, err
	}

	res, err := e.machine.Enter(roomID)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	if res.BossFight {
		e.record(telemetry.EventBossPhase, telemetry.EventMetadata{
			"floor": e.state.Floor, "room": roomID, "phase": "engaged",
		})
	}

	// Hardcore discipline writes the slot on every room entry.
	if e.state.Mode == run.ModeHardcore {
		if err := e.persist(ctx); err != nil {
			return nil, view.Snapshot{}, err
		}
	}
	return res, e.commit(), nil
}

// PickCard resolves the indexed card in the current room and latches the
// busy flag until AckReveal.
func (e *Engine) PickCard(ctx context.Context, idx int) (*combat.Outcome, view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, view.Snapshot{}, err
	}

	hpBefore := e.state.HP
	room := e.state.CurrentRoom()
	out, err := e.machine.Pick(idx)
	if err != nil {
		return nil, view.Snapshot{}, err
	}

	e.record(telemetry.EventCardResolved, telemetry.EventMetadata{
		"type": string(out.Card.Type), "val": out.Card.Val, "room": room.ID,
	})
	if out.WeaponBroke {
		e.record(telemetry.EventWeaponBroken, telemetry.EventMetadata{"monster_val": out.Card.Val})
	}
	if e.state.HP != hpBefore {
		e.record(telemetry.EventHPChanged, telemetry.EventMetadata{
			"delta": e.state.HP - hpBefore, "hp": e.state.HP, "cause": "combat",
		})
	}
	return e.finishResolution(ctx, room, out)
}

// finishResolution folds a resolution's aftermath into telemetry and the
// persistence discipline: room clears, boss victories, and death.
func (e *Engine) finishResolution(ctx context.Context, room *dungeon.Room, out *combat.Outcome) (*combat.Outcome, view.Snapshot, error) {
	if room.State == dungeon.StateCleared {
		e.record(telemetry.EventRoomCleared, telemetry.EventMetadata{"room": room.ID})
		if room.IsFinal {
			e.record(telemetry.EventBossPhase, telemetry.EventMetadata{
				"floor": e.state.Floor, "room": room.ID, "phase": "defeated",
			})
		}
	}

	if out.Dead {
		score := e.state.Score()
		e.record(telemetry.EventRunEnded, telemetry.EventMetadata{
			"floor": e.state.Floor, "score": score, "mode": string(e.state.Mode),
		})
		e.log.Printf("game: run over on floor %d, score %d", e.state.Floor, score)
		if e.state.Mode == run.ModeHardcore {
			if err := e.saves.Delete(ctx, run.ModeHardcore); err != nil {
				return nil, view.Snapshot{}, err
			}
		}
	}
	return out, e.commit(), nil
}

// Avoid backs out of the current room, returning its pile to the deck.
func (e *Engine) Avoid(ctx context.Context) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return view.Snapshot{}, err
	}

	roomID := e.state.CurrentRoomID
	if err := e.machine.Avoid(); err != nil {
		return view.Snapshot{}, err
	}
	e.record(telemetry.EventRoomAvoided, telemetry.EventMetadata{"room": roomID})
	return e.commit(), nil
}

// UseItem consumes an active hotbar item against the current room.
func (e *Engine) UseItem(ctx context.Context, loc inventory.Location) (*combat.ItemOutcome, view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, view.Snapshot{}, err
	}

	out, err := e.machine.UseItem(loc)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	e.record(telemetry.EventItemUsed, telemetry.EventMetadata{"item": string(out.Item)})
	if out.ForceAvoid {
		e.record(telemetry.EventRoomAvoided, telemetry.EventMetadata{
			"room": e.state.CurrentRoomID, "forced": true,
		})
	}
	return out, e.commit(), nil
}

// DrinkPotion consumes a hotbar potion.
func (e *Engine) DrinkPotion(ctx context.Context, loc inventory.Location) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return view.Snapshot{}, err
	}

	healed, err := e.machine.Resolver().DrinkPotion(e.state, loc)
	if err != nil {
		return view.Snapshot{}, err
	}
	if healed > 0 {
		e.record(telemetry.EventHPChanged, telemetry.EventMetadata{
			"delta": healed, "hp": e.state.HP, "cause": "potion",
		})
	}
	return e.commit(), nil
}

// Rest spends bonfire kindling.
func (e *Engine) Rest(ctx context.Context, cost int) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return view.Snapshot{}, err
	}

	healed, err := e.machine.Rest(cost)
	if err != nil {
		return view.Snapshot{}, err
	}
	e.record(telemetry.EventRested, telemetry.EventMetadata{
		"cost": cost, "healed": healed, "hp": e.state.HP,
	})
	return e.commit(), nil
}

// ChooseGift accepts a merchant offer.
func (e *Engine) ChooseGift(ctx context.Context, idx int) (*combat.Outcome, view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return nil, view.Snapshot{}, err
	}

	out, err := e.machine.ChooseGift(idx)
	if err != nil {
		return nil, view.Snapshot{}, err
	}
	e.record(telemetry.EventGiftChosen, telemetry.EventMetadata{
		"kind": string(out.Card.Gift.Kind), "room": e.state.CurrentRoomID,
	})
	e.record(telemetry.EventRoomCleared, telemetry.EventMetadata{"room": e.state.CurrentRoomID})
	return out, e.commit(), nil
}

// Swap moves items between two inventory locations.
func (e *Engine) Swap(ctx context.Context, src, dst inventory.Location) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return view.Snapshot{}, err
	}
	if e.machine.Busy() {
		return view.Snapshot{}, encounter.ErrBusy
	}
	if err := e.state.Inv.Swap(src, dst); err != nil {
		return view.Snapshot{}, err
	}
	return e.commit(), nil
}

// AckReveal releases the resolution latch.
func (e *Engine) AckReveal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.machine != nil {
		e.machine.AckReveal()
	}
}

// Descend moves to the next floor once the guardian has fallen.
func (e *Engine) Descend(ctx context.Context) (view.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.guard(); err != nil {
		return view.Snapshot{}, err
	}

	final := e.state.Dungeon.FinalRoom()
	if final == nil || final.State != dungeon.StateCleared {
		return view.Snapshot{}, ErrNoBossYet
	}

	e.state.Descend(e.rng)
	e.machine = encounter.NewMachine(e.state, combat.NewResolver(e.rng, e.log), e.rng, e.log)
	e.record(telemetry.EventFloorDescended, telemetry.EventMetadata{"floor": e.state.Floor})
	e.log.Printf("game: descended to floor %d", e.state.Floor)

	// Checkpoint discipline writes at floor boundaries.
	if err := e.persist(ctx); err != nil {
		return view.Snapshot{}, err
	}
	return e.commit(), nil
}
