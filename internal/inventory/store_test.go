package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dagger() *Item  { return &Item{Kind: KindWeapon, Name: "Rusty Dagger", Val: 3} }
func cuirass() *Item { return &Item{Kind: KindArmor, Name: "Cuirass", Slot: SlotChest, AP: 4} }
func helm() *Item    { return &Item{Kind: KindArmor, Name: "Helm", Slot: SlotHead, AP: 2} }
func tonic() *Item   { return &Item{Kind: KindPotion, Name: "Tonic", Val: 5} }

func TestStore_EquipReturnsPrevious(t *testing.T) {
	s := NewStore()

	prev, err := s.Equip(SlotWeapon, dagger())
	require.NoError(t, err)
	assert.Nil(t, prev)

	sword := &Item{Kind: KindWeapon, Name: "Sword", Val: 7}
	prev, err = s.Equip(SlotWeapon, sword)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "Rusty Dagger", prev.Name)
	assert.Equal(t, sword, s.Weapon())
}

func TestStore_EquipRejectsWrongSlot(t *testing.T) {
	s := NewStore()

	_, err := s.Equip(SlotHead, dagger())
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = s.Equip(SlotHead, cuirass())
	assert.ErrorIs(t, err, ErrBadSlot)

	_, err = s.Equip(SlotChest, cuirass())
	assert.NoError(t, err)
}

func TestStore_BackpackFull(t *testing.T) {
	s := NewStore()
	for i := 0; i < BackpackSize; i++ {
		_, err := s.AddToBackpack(tonic())
		require.NoError(t, err)
	}
	_, err := s.AddToBackpack(tonic())
	assert.ErrorIs(t, err, ErrBackpackFull)
}

func TestStore_HotbarRejectsWeapons(t *testing.T) {
	s := NewStore()
	_, err := s.AddToHotbar(dagger())
	assert.ErrorIs(t, err, ErrBadSlot)

	i, err := s.AddToHotbar(tonic())
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}

func TestStore_SwapExchangesBothCells(t *testing.T) {
	s := NewStore()
	_, err := s.Equip(SlotWeapon, dagger())
	require.NoError(t, err)
	idx, err := s.AddToBackpack(&Item{Kind: KindWeapon, Name: "Axe", Val: 6})
	require.NoError(t, err)

	err = s.Swap(BackpackLoc(idx), EquipLoc(SlotWeapon))
	require.NoError(t, err)

	assert.Equal(t, "Axe", s.Weapon().Name)
	it, ok := s.At(BackpackLoc(idx))
	require.True(t, ok)
	assert.Equal(t, "Rusty Dagger", it.Name)
}

func TestStore_SwapFailureLeavesStoreUntouched(t *testing.T) {
	s := NewStore()
	idx, err := s.AddToBackpack(cuirass())
	require.NoError(t, err)

	err = s.Swap(BackpackLoc(idx), EquipLoc(SlotHead))
	assert.ErrorIs(t, err, ErrBadSlot)

	it, ok := s.At(BackpackLoc(idx))
	require.True(t, ok)
	assert.Equal(t, "Cuirass", it.Name)
	assert.Nil(t, s.Equipment[SlotHead])
}

func TestStore_SwapRejectsBadLocation(t *testing.T) {
	s := NewStore()
	err := s.Swap(BackpackLoc(BackpackSize), HotbarLoc(0))
	assert.ErrorIs(t, err, ErrBadLocation)
}

func TestStore_ArmorTotals(t *testing.T) {
	s := NewStore()
	_, err := s.Equip(SlotChest, cuirass())
	require.NoError(t, err)
	_, err = s.Equip(SlotHead, helm())
	require.NoError(t, err)
	_, err = s.Equip(SlotWeapon, dagger())
	require.NoError(t, err)

	assert.Equal(t, 6, s.ArmorTotal())
	assert.Equal(t, 2, s.ArmorPieces())
}

func TestStore_ArmorHookFiresOnEquipmentChange(t *testing.T) {
	s := NewStore()
	fired := 0
	s.SetArmorHook(func() { fired++ })

	_, err := s.Equip(SlotChest, cuirass())
	require.NoError(t, err)
	assert.Equal(t, 1, fired)

	_, err = s.Unequip(SlotChest)
	require.NoError(t, err)
	assert.Equal(t, 2, fired)

	// Moving items between backpack and hotbar never touches armor.
	idx, err := s.AddToBackpack(tonic())
	require.NoError(t, err)
	err = s.Swap(BackpackLoc(idx), HotbarLoc(0))
	require.NoError(t, err)
	assert.Equal(t, 2, fired)
}

func TestStore_FindPassive(t *testing.T) {
	s := NewStore()
	_, err := s.AddToBackpack(&Item{Kind: KindPassive, Name: "Herbs", Passive: PassiveHerbs})
	require.NoError(t, err)

	assert.True(t, s.HasPassive(PassiveHerbs))
	assert.False(t, s.HasPassive(PassiveMirror))

	loc, ok := s.FindPassive(PassiveHerbs)
	require.True(t, ok)
	assert.Equal(t, AreaBackpack, loc.Area)
}
