package run

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
)

func newRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

func TestNew_KnightStartingKit(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))

	assert.Equal(t, 20, s.HP)
	assert.Equal(t, 20, s.MaxHP)
	assert.Equal(t, 3, s.AP)
	assert.Equal(t, 3, s.MaxAP)
	assert.Equal(t, 1, s.Floor)
	assert.Equal(t, DurabilityUnbounded, s.Durability)
	require.NotNil(t, s.Inv.Equipment[inventory.SlotChest])
	assert.Equal(t, 44, s.Deck.Len())
}

func TestNew_ScoundrelAndMystic(t *testing.T) {
	sc := New(ClassScoundrel, ModeCheckpoint, newRNG(1))
	assert.Equal(t, 18, sc.MaxHP)
	assert.Equal(t, 2, sc.SoulCoins)
	it, ok := sc.Inv.At(inventory.BackpackLoc(0))
	require.True(t, ok)
	require.NotNil(t, it)
	assert.Equal(t, inventory.KindWeapon, it.Kind)

	my := New(ClassMystic, ModeHardcore, newRNG(1))
	assert.Equal(t, 16, my.MaxHP)
	assert.True(t, my.Inv.HasPassive(inventory.PassiveHerbs))
}

func TestTakeDamage_PoolThenFloor(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	// One armor piece: pool 3, floor 1.

	lost, dead := s.TakeDamage(6)
	assert.False(t, dead)
	// Pool absorbs AP-floor = 2, floor shaves 1 more: 6 -> 3.
	assert.Equal(t, 3, lost)
	assert.Equal(t, 1, s.AP)
	assert.Equal(t, 17, s.HP)
}

func TestTakeDamage_FloorAppliesEveryHit(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.AP = 0

	lost, _ := s.TakeDamage(5)
	assert.Equal(t, 4, lost)
	lost, _ = s.TakeDamage(5)
	assert.Equal(t, 4, lost)
}

func TestTakeDamage_NeverAmplifies(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	for _, d := range []int{0, 1, 2, 5, 14} {
		before := s.HP
		lost, _ := s.TakeDamage(d)
		assert.LessOrEqual(t, lost, d)
		assert.Equal(t, before-lost, s.HP)
	}
}

func TestTakeDamage_MirrorInterceptsLethal(t *testing.T) {
	s := New(ClassScoundrel, ModeCheckpoint, newRNG(1))
	s.HP = 4
	_, err := s.Inv.AddToHotbar(&inventory.Item{
		Kind:    inventory.KindPassive,
		Name:    "Full Mirror",
		Passive: inventory.PassiveMirror,
	})
	require.NoError(t, err)

	lost, dead := s.TakeDamage(10)
	assert.False(t, dead)
	assert.Equal(t, 3, lost, "hp spent down to the pin still counts")
	assert.Equal(t, 1, s.HP)
	assert.False(t, s.Inv.HasPassive(inventory.PassiveMirror))

	// Second lethal hit goes through.
	_, dead = s.TakeDamage(10)
	assert.True(t, dead)
}

func TestCanStrike_AndBreak(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.Inv.Equip(inventory.SlotWeapon, &inventory.Item{Kind: inventory.KindWeapon, Name: "Sword", Val: 7})

	assert.True(t, s.CanStrike(14), "fresh weapon strikes anything")

	s.Durability = 9
	assert.True(t, s.CanStrike(9))
	assert.False(t, s.CanStrike(10))

	s.SlainStack = []card.Card{{Val: 9, Type: card.TypeMonster}}
	broken := s.BreakWeapon()
	require.NotNil(t, broken)
	assert.Nil(t, s.Inv.Weapon())
	assert.Equal(t, DurabilityUnbounded, s.Durability)
	assert.Empty(t, s.SlainStack)
}

func TestWeaponChange_ResetsDurabilityAndTrophies(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.Inv.Equip(inventory.SlotWeapon, &inventory.Item{Kind: inventory.KindWeapon, Name: "Dagger", Val: 3})
	s.Durability = 4
	s.SlainStack = []card.Card{{Val: 4, Type: card.TypeMonster}}

	// Stow a fresh weapon and swap it into the slot.
	i, err := s.Inv.AddToBackpack(&inventory.Item{Kind: inventory.KindWeapon, Name: "Claymore", Val: 9})
	require.NoError(t, err)
	require.NoError(t, s.Inv.Swap(inventory.BackpackLoc(i), inventory.EquipLoc(inventory.SlotWeapon)))

	assert.Equal(t, DurabilityUnbounded, s.Durability, "fresh weapon starts untested")
	assert.Empty(t, s.SlainStack, "trophies do not transfer between weapons")
	assert.True(t, s.CanStrike(7))

	// Unequipping alone clears the tally too.
	s.Durability = 7
	s.SlainStack = []card.Card{{Val: 7, Type: card.TypeMonster}}
	_, err = s.Inv.Unequip(inventory.SlotWeapon)
	require.NoError(t, err)
	assert.Equal(t, DurabilityUnbounded, s.Durability)
	assert.Empty(t, s.SlainStack)
}

func TestSlay_TomeDoublesCoins(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.Slay(card.Card{Val: 5, Type: card.TypeMonster})
	assert.Equal(t, 1, s.SoulCoins)

	s.Inv.AddToBackpack(&inventory.Item{Kind: inventory.KindPassive, Passive: inventory.PassiveTome})
	s.Slay(card.Card{Val: 6, Type: card.TypeMonster})
	assert.Equal(t, 3, s.SoulCoins)
	assert.Len(t, s.SlainStack, 2)
}

func TestScore_CountsUnseenThreat(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.HP = 5
	s.Deck = card.NewDeck([]card.Card{
		{Val: 10, Type: card.TypeMonster},
		{Val: 4, Type: card.TypeWeapon},
	})
	room := s.Dungeon.Rooms[1]
	room.Cards = []card.Card{{Val: 7, Type: card.TypeMonster}}
	for _, r := range s.Dungeon.Rooms {
		if r != room {
			r.Cards = nil
		}
	}

	assert.Equal(t, 5-10-7, s.Score())
}

func TestDescend_ResetsDungeonScope(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	s.SoulCoins = 9
	s.CarryCard = &card.Card{Val: 3, Type: card.TypeMonster}
	s.LastAvoided = true
	s.CurrentRoomID = 4

	s.Descend(newRNG(2))

	assert.Equal(t, 2, s.Floor)
	assert.Equal(t, 9, s.SoulCoins)
	assert.Nil(t, s.CarryCard)
	assert.False(t, s.LastAvoided)
	assert.Equal(t, 0, s.CurrentRoomID)
	assert.Equal(t, 44, s.Deck.Len(), "floors 1-3 share the 1x deck size")
}

func TestRecalcArmor_ClampsPool(t *testing.T) {
	s := New(ClassKnight, ModeCheckpoint, newRNG(1))
	require.Equal(t, 3, s.AP)

	_, err := s.Inv.Unequip(inventory.SlotChest)
	require.NoError(t, err)

	assert.Zero(t, s.MaxAP)
	assert.Zero(t, s.AP, "pool clamps when the piece comes off")
}
