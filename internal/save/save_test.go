package save

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

func sampleRun(t *testing.T) *run.State {
	t.Helper()
	s := run.New(run.ClassKnight, run.ModeCheckpoint, rand.New(rand.NewSource(9)))
	s.HP = 13
	s.SoulCoins = 4
	s.Durability = 7
	s.SlainStack = []card.Card{{Type: card.TypeMonster, Val: 7, Name: "Rat-Bat"}}
	_, err := s.Inv.Equip(inventory.SlotWeapon, &inventory.Item{
		Kind: inventory.KindWeapon, Name: "Notched Axe", Val: 6,
	})
	require.NoError(t, err)
	_, err = s.Inv.AddToHotbar(&inventory.Item{Kind: inventory.KindPotion, Name: "Tonic", Val: 4})
	require.NoError(t, err)
	s.Dungeon.Rooms[1].State = dungeon.StateAvoided
	s.CurrentRoomID = s.Dungeon.Rooms[1].ID
	return s
}

func TestBlobRoundTrip(t *testing.T) {
	s := sampleRun(t)

	blob, err := Encode(s)
	require.NoError(t, err)

	got, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, s.HP, got.HP)
	assert.Equal(t, s.MaxHP, got.MaxHP)
	assert.Equal(t, s.Floor, got.Floor)
	assert.Equal(t, s.SoulCoins, got.SoulCoins)
	assert.Equal(t, s.Durability, got.Durability)
	assert.Equal(t, s.Mode, got.Mode)
	assert.Equal(t, s.CurrentRoomID, got.CurrentRoomID)
	assert.Equal(t, s.SlainStack, got.SlainStack)

	require.NotNil(t, got.Inv.Weapon())
	assert.Equal(t, "Notched Axe", got.Inv.Weapon().Name)
	assert.Equal(t, s.Deck.Cards(), got.Deck.Cards(), "deck order survives")

	require.Len(t, got.Dungeon.Rooms, len(s.Dungeon.Rooms))
	assert.Equal(t, dungeon.StateAvoided, got.Dungeon.Rooms[1].State)
	assert.Equal(t, s.Dungeon.Rooms[1].Connections, got.Dungeon.Rooms[1].Connections)

	// The decoded run must be live: the armor hook has to be rewired.
	got.Inv.Unequip(inventory.SlotChest)
	assert.Zero(t, got.MaxAP)
}

func TestDecode_RejectsGarbageAndWrongVersion(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"version": 99, "run": {}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"version": 1}`))
	assert.Error(t, err)
}

func TestMemoryRepository_Slots(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	has, err := repo.Has(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Get(ctx, run.ModeCheckpoint)
	assert.ErrorIs(t, err, ErrNoSave)

	require.NoError(t, repo.Put(ctx, run.ModeCheckpoint, []byte("one")))
	require.NoError(t, repo.Put(ctx, run.ModeHardcore, []byte("two")))

	blob, err := repo.Get(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), blob)

	// Overwrite replaces the slot wholesale.
	require.NoError(t, repo.Put(ctx, run.ModeCheckpoint, []byte("three")))
	blob, err = repo.Get(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.Equal(t, []byte("three"), blob)

	require.NoError(t, repo.Delete(ctx, run.ModeCheckpoint))
	has, err = repo.Has(ctx, run.ModeCheckpoint)
	require.NoError(t, err)
	assert.False(t, has)

	// The other slot is untouched.
	has, err = repo.Has(ctx, run.ModeHardcore)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLiteRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepository(db)
	s := sampleRun(t)
	blob, err := Encode(s)
	require.NoError(t, err)

	require.NoError(t, repo.Put(ctx, s.Mode, blob))

	has, err := repo.Has(ctx, s.Mode)
	require.NoError(t, err)
	assert.True(t, has)

	stored, err := repo.Get(ctx, s.Mode)
	require.NoError(t, err)
	got, err := Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, s.HP, got.HP)
	assert.Equal(t, s.Deck.Len(), got.Deck.Len())

	require.NoError(t, repo.Delete(ctx, s.Mode))
	_, err = repo.Get(ctx, s.Mode)
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestOpenSQLite_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}
