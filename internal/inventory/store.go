package inventory

import (
	"errors"
	"fmt"
)

const (
	SlotHead   = "head"
	SlotChest  = "chest"
	SlotHands  = "hands"
	SlotLegs   = "legs"
	SlotWeapon = "weapon"

	BackpackSize = 24
	HotbarSize   = 6
)

var EquipSlots = []string{SlotHead, SlotChest, SlotHands, SlotLegs, SlotWeapon}

var (
	ErrBackpackFull = errors.New("backpack full")
	ErrHotbarFull   = errors.New("hotbar full")
	ErrBadSlot      = errors.New("item does not fit slot")
	ErrBadLocation  = errors.New("invalid inventory location")
)

// Area names one of the three item regions a Location can point into.
type Area string

const (
	AreaEquipment Area = "equipment"
	AreaBackpack  Area = "backpack"
	AreaHotbar    Area = "hotbar"
)

// Location addresses a single item cell. Equipment uses Slot, the two
// arrays use Index.
type Location struct {
	Area  Area   `json:"area"`
	Slot  string `json:"slot,omitempty"`
	Index int    `json:"index"`
}

func EquipLoc(slot string) Location { return Location{Area: AreaEquipment, Slot: slot} }
func BackpackLoc(i int) Location    { return Location{Area: AreaBackpack, Index: i} }
func HotbarLoc(i int) Location      { return Location{Area: AreaHotbar, Index: i} }

// Store holds everything the player carries. An item lives in exactly one
// cell at a time; Swap is the only operation that moves items between
// cells, and it exchanges both occupants atomically.
type Store struct {
	Equipment map[string]*Item    `json:"equipment"`
	Backpack  [BackpackSize]*Item `json:"backpack"`
	Hotbar    [HotbarSize]*Item   `json:"hotbar"`

	onArmorChange  func()
	onWeaponChange func()
}

func NewStore() *Store {
	return &Store{Equipment: make(map[string]*Item, len(EquipSlots))}
}

// SetArmorHook registers the callback fired whenever equipment changes.
// The run layer uses it to recompute armor points.
func (s *Store) SetArmorHook(fn func()) { s.onArmorChange = fn }

// SetWeaponHook registers the callback fired whenever the weapon slot's
// occupant changes. The run layer uses it to reset the durability
// ceiling and drop the trophy stack of the outgoing weapon.
func (s *Store) SetWeaponHook(fn func()) { s.onWeaponChange = fn }

func (s *Store) armorChanged() {
	if s.onArmorChange != nil {
		s.onArmorChange()
	}
}

func (s *Store) weaponChanged() {
	if s.onWeaponChange != nil {
		s.onWeaponChange()
	}
}

func isWeaponSlot(loc Location) bool {
	return loc.Area == AreaEquipment && loc.Slot == SlotWeapon
}

// At returns the item at loc, or nil. The second return is false when loc
// is out of range.
func (s *Store) At(loc Location) (*Item, bool) {
	switch loc.Area {
	case AreaEquipment:
		for _, slot := range EquipSlots {
			if slot == loc.Slot {
				return s.Equipment[loc.Slot], true
			}
		}
		return nil, false
	case AreaBackpack:
		if loc.Index < 0 || loc.Index >= BackpackSize {
			return nil, false
		}
		return s.Backpack[loc.Index], true
	case AreaHotbar:
		if loc.Index < 0 || loc.Index >= HotbarSize {
			return nil, false
		}
		return s.Hotbar[loc.Index], true
	}
	return nil, false
}

func (s *Store) set(loc Location, it *Item) {
	switch loc.Area {
	case AreaEquipment:
		if it == nil {
			delete(s.Equipment, loc.Slot)
		} else {
			s.Equipment[loc.Slot] = it
		}
	case AreaBackpack:
		s.Backpack[loc.Index] = it
	case AreaHotbar:
		s.Hotbar[loc.Index] = it
	}
}

// accepts checks whether the cell at loc may hold it. A nil item (the
// empty half of a swap) is always accepted.
func (s *Store) accepts(loc Location, it *Item) error {
	if it == nil {
		return nil
	}
	switch loc.Area {
	case AreaEquipment:
		if !it.FitsEquipSlot(loc.Slot) {
			return fmt.Errorf("%w: %s in %s", ErrBadSlot, it.Kind, loc.Slot)
		}
	case AreaHotbar:
		if !it.HotbarEligible() {
			return fmt.Errorf("%w: %s on hotbar", ErrBadSlot, it.Kind)
		}
	}
	return nil
}

// Swap exchanges the occupants of two cells. Both directions are
// validated before anything moves, so a failed swap leaves the store
// untouched.
func (s *Store) Swap(src, dst Location) error {
	a, ok := s.At(src)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrBadLocation, src)
	}
	b, ok := s.At(dst)
	if !ok {
		return fmt.Errorf("%w: %+v", ErrBadLocation, dst)
	}
	if err := s.accepts(dst, a); err != nil {
		return err
	}
	if err := s.accepts(src, b); err != nil {
		return err
	}
	s.set(src, b)
	s.set(dst, a)
	if src.Area == AreaEquipment || dst.Area == AreaEquipment {
		s.armorChanged()
	}
	if isWeaponSlot(src) || isWeaponSlot(dst) {
		s.weaponChanged()
	}
	return nil
}

// Equip places the item in the named slot, returning whatever was there.
func (s *Store) Equip(slot string, it *Item) (*Item, error) {
	loc := EquipLoc(slot)
	if _, ok := s.At(loc); !ok {
		return nil, fmt.Errorf("%w: slot %q", ErrBadLocation, slot)
	}
	if err := s.accepts(loc, it); err != nil {
		return nil, err
	}
	prev := s.Equipment[slot]
	s.set(loc, it)
	s.armorChanged()
	if slot == SlotWeapon {
		s.weaponChanged()
	}
	return prev, nil
}

// Unequip empties the named slot and returns its former occupant.
func (s *Store) Unequip(slot string) (*Item, error) {
	loc := EquipLoc(slot)
	if _, ok := s.At(loc); !ok {
		return nil, fmt.Errorf("%w: slot %q", ErrBadLocation, slot)
	}
	prev := s.Equipment[slot]
	s.set(loc, nil)
	s.armorChanged()
	if slot == SlotWeapon {
		s.weaponChanged()
	}
	return prev, nil
}

// AddToBackpack places the item in the first free slot.
func (s *Store) AddToBackpack(it *Item) (int, error) {
	for i := range s.Backpack {
		if s.Backpack[i] == nil {
			s.Backpack[i] = it
			return i, nil
		}
	}
	return -1, ErrBackpackFull
}

// AddToHotbar places the item in the first free slot.
func (s *Store) AddToHotbar(it *Item) (int, error) {
	if !it.HotbarEligible() {
		return -1, fmt.Errorf("%w: %s on hotbar", ErrBadSlot, it.Kind)
	}
	for i := range s.Hotbar {
		if s.Hotbar[i] == nil {
			s.Hotbar[i] = it
			return i, nil
		}
	}
	return -1, ErrHotbarFull
}

// Remove empties the cell at loc and returns its occupant.
func (s *Store) Remove(loc Location) (*Item, error) {
	it, ok := s.At(loc)
	if !ok {
		return nil, fmt.Errorf("%w: %+v", ErrBadLocation, loc)
	}
	s.set(loc, nil)
	if loc.Area == AreaEquipment {
		s.armorChanged()
	}
	if isWeaponSlot(loc) {
		s.weaponChanged()
	}
	return it, nil
}

// Weapon returns the equipped weapon, or nil.
func (s *Store) Weapon() *Item { return s.Equipment[SlotWeapon] }

// ArmorTotal sums armor points over equipped armor pieces.
func (s *Store) ArmorTotal() int {
	total := 0
	for _, slot := range EquipSlots {
		if slot == SlotWeapon {
			continue
		}
		if it := s.Equipment[slot]; it != nil && it.Kind == KindArmor {
			total += it.AP
		}
	}
	return total
}

// ArmorPieces counts equipped armor items. Mitigation uses it as the
// per-hit damage floor.
func (s *Store) ArmorPieces() int {
	n := 0
	for _, slot := range EquipSlots {
		if slot == SlotWeapon {
			continue
		}
		if it := s.Equipment[slot]; it != nil && it.Kind == KindArmor {
			n++
		}
	}
	return n
}

// HasPassive reports whether a passive item with the given id is held
// anywhere in the inventory.
func (s *Store) HasPassive(id PassiveID) bool {
	_, ok := s.FindPassive(id)
	return ok
}

// FindPassive locates a held passive item.
func (s *Store) FindPassive(id PassiveID) (Location, bool) {
	for i, it := range s.Hotbar {
		if it != nil && it.Kind == KindPassive && it.Passive == id {
			return HotbarLoc(i), true
		}
	}
	for i, it := range s.Backpack {
		if it != nil && it.Kind == KindPassive && it.Passive == id {
			return BackpackLoc(i), true
		}
	}
	return Location{}, false
}
