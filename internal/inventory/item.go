package inventory

// ItemKind tags the item union. The resolver matches on it exhaustively.
type ItemKind string

const (
	KindWeapon  ItemKind = "weapon"
	KindArmor   ItemKind = "armor"
	KindPotion  ItemKind = "potion"
	KindActive  ItemKind = "active"
	KindPassive ItemKind = "passive"
)

// ActiveID names a one-shot utility item carried on the hotbar.
type ActiveID string

const (
	ActiveBomb        ActiveID = "bomb"
	ActiveSkeletonKey ActiveID = "skeleton_key"
	ActiveMusicBox    ActiveID = "music_box"
	ActiveHourglass   ActiveID = "hourglass"
)

// PassiveID names a continuous-effect item. Passives apply while held
// anywhere in the inventory.
type PassiveID string

const (
	PassiveLantern PassiveID = "lantern"
	PassiveMap     PassiveID = "map"
	PassiveHerbs   PassiveID = "herbs"
	PassiveMirror  PassiveID = "mirror"
	PassiveTome    PassiveID = "tome"
)

// Item is the inventory-side union. Weapons carry Val, armor carries
// Slot+AP, potions carry Val, utility items carry their Active/Passive id.
type Item struct {
	Kind ItemKind `json:"kind"`
	Name string   `json:"name"`

	Val  int    `json:"val,omitempty"`
	Slot string `json:"slot,omitempty"`
	AP   int    `json:"ap,omitempty"`

	Active  ActiveID  `json:"active,omitempty"`
	Passive PassiveID `json:"passive,omitempty"`
}

// HotbarEligible reports whether the item may sit on the hotbar.
func (it *Item) HotbarEligible() bool {
	switch it.Kind {
	case KindPotion, KindActive, KindPassive:
		return true
	}
	return false
}

// FitsEquipSlot reports whether the item may occupy the named equipment
// slot. Weapons go only in the weapon slot; armor must match its bound
// slot name.
func (it *Item) FitsEquipSlot(slot string) bool {
	switch it.Kind {
	case KindWeapon:
		return slot == SlotWeapon
	case KindArmor:
		return it.Slot == slot
	}
	return false
}
