package game

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/encounter"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/save"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/telemetry"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/view"
)

func testEngine(seed int64) *Engine {
	return NewEngine(Options{
		Clock:  NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Logger: log.New(io.Discard, "", 0),
		Seed:   seed,
	})
}

// adjacentMonsterRoom walks start-room corridors for the first ordinary
// room reachable through its two waypoints.
func adjacentMonsterRoom(t *testing.T, e *Engine) (wp1, wp2, target int) {
	t.Helper()
	d := e.state.Dungeon
	start := d.Room(0)
	for _, wid := range start.Connections {
		w1 := d.Room(wid)
		for _, wid2 := range w1.Connections {
			w2 := d.Room(wid2)
			if !w2.IsWaypoint || w2.ID == start.ID {
				continue
			}
			for _, rid := range w2.Connections {
				r := d.Room(rid)
				if r.IsWaypoint || r.ID == w1.ID {
					continue
				}
				if !r.IsFinal && !r.IsBonfire && !r.IsSpecial {
					return w1.ID, w2.ID, r.ID
				}
			}
		}
	}
	t.Skip("no ordinary room borders the start room with this seed")
	return 0, 0, 0
}

func TestEngine_NewRunPersistsAndCommits(t *testing.T) {
	ctx := context.Background()
	e := testEngine(21)

	var commits []view.Snapshot
	e.OnCommit(func(s view.Snapshot) { commits = append(commits, s) })

	snap, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Floor)
	assert.Len(t, commits, 1)

	has, err := e.HasSave(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestEngine_EnterRejectsNonAdjacent(t *testing.T) {
	ctx := context.Background()
	e := testEngine(22)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)

	final := e.state.Dungeon.FinalRoom()
	_, _, err = e.EnterRoom(ctx, final.ID)
	assert.ErrorIs(t, err, encounter.ErrNotAdjacent)
}

func TestEngine_PickFlowsThroughWaypoints(t *testing.T) {
	ctx := context.Background()
	e := testEngine(23)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)

	w1, w2, target := adjacentMonsterRoom(t, e)
	for _, id := range []int{w1, w2, target} {
		_, _, err = e.EnterRoom(ctx, id)
		require.NoError(t, err)
	}

	out, snap, err := e.PickCard(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.NotEmpty(t, snap.RoomCards)

	// Busy until acknowledged.
	_, _, err = e.PickCard(ctx, 0)
	assert.ErrorIs(t, err, encounter.ErrBusy)
	e.AckReveal()
	_, _, err = e.PickCard(ctx, 0)
	assert.NoError(t, err)
}

func TestEngine_HardcoreDeletesSaveOnDeath(t *testing.T) {
	ctx := context.Background()
	e := testEngine(24)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeHardcore)
	require.NoError(t, err)

	w1, w2, target := adjacentMonsterRoom(t, e)
	for _, id := range []int{w1, w2, target} {
		_, _, err = e.EnterRoom(ctx, id)
		require.NoError(t, err)
	}
	has, err := e.HasSave(ctx, run.ModeHardcore)
	require.NoError(t, err)
	require.True(t, has, "hardcore saves on room entry")

	// Rig the room so the next pick is lethal.
	e.state.HP = 1
	e.state.AP = 0
	e.state.Inv.Unequip("chest")
	e.state.Inv.Unequip("weapon")
	room := e.state.Dungeon.Room(target)
	room.Cards = []card.Card{{Type: card.TypeMonster, Val: 14, Name: "Primeval Ace"}}

	out, snap, err := e.PickCard(ctx, 0)
	require.NoError(t, err)
	assert.True(t, out.Dead)
	assert.True(t, snap.Over)

	has, err = e.HasSave(ctx, run.ModeHardcore)
	require.NoError(t, err)
	assert.False(t, has, "hardcore slot deleted on death")

	_, _, err = e.PickCard(ctx, 0)
	assert.ErrorIs(t, err, ErrRunOver)
}

func TestEngine_HardcoreSlotEmptyUntilRoomEntry(t *testing.T) {
	ctx := context.Background()
	e := testEngine(29)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeHardcore)
	require.NoError(t, err)

	has, err := e.HasSave(ctx, run.ModeHardcore)
	require.NoError(t, err)
	assert.False(t, has, "hardcore writes nothing before the first move")

	_, err = e.Resume(ctx, run.ModeHardcore)
	assert.ErrorIs(t, err, save.ErrNoSave)
}

func TestEngine_CheckpointSurvivesDeathAndResumes(t *testing.T) {
	ctx := context.Background()
	e := testEngine(25)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)

	e.state.HP = 0
	has, err := e.HasSave(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	require.True(t, has)

	snap, err := e.Resume(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Player.HP, "resume restores the floor-boundary state")
}

func TestEngine_DescendGatedOnGuardian(t *testing.T) {
	ctx := context.Background()
	e := testEngine(26)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)

	_, err = e.Descend(ctx)
	assert.ErrorIs(t, err, ErrNoBossYet)

	final := e.state.Dungeon.FinalRoom()
	final.State = dungeon.StateCleared

	snap, err := e.Descend(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Floor)

	// Checkpoint wrote the new floor.
	blob, err := e.saves.Get(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	loaded, err := save.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Floor)
}

func TestEngine_TelemetryFlows(t *testing.T) {
	ctx := context.Background()
	e := testEngine(27)
	_, err := e.NewRun(ctx, run.ClassKnight, run.ModeCheckpoint)
	require.NoError(t, err)

	events := e.EventsAfter(0)
	require.NotEmpty(t, events)
	assert.Equal(t, telemetry.EventRunStarted, events[0].Type)

	stats, err := e.Stats(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EventCounts[telemetry.EventRunStarted])
}

func TestEngine_SnapshotWithoutRun(t *testing.T) {
	e := testEngine(28)
	_, err := e.Snapshot()
	assert.ErrorIs(t, err, ErrNoRun)
}
