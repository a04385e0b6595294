package card

import "strconv"

// Suit identifies the card family a card was printed with.
type Suit string

const (
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
	Spades   Suit = "♠"
)

// Type represents the kind of card in play.
type Type string

const (
	TypeMonster Type = "monster"
	TypeWeapon  Type = "weapon"
	TypePotion  Type = "potion"
	TypeGift    Type = "gift"
	TypeBonfire Type = "bonfire"
)

// BossSlot marks cards that belong to a guardian encounter.
type BossSlot string

const (
	SlotNone     BossSlot = ""
	SlotGuardian BossSlot = "guardian"
	SlotMinion   BossSlot = "minion"
)

// BossRole classifies a minion's contribution to the guardian fight.
type BossRole string

const (
	RoleNone      BossRole = ""
	RoleVanguard  BossRole = "vanguard"
	RoleBulwark   BossRole = "bulwark"
	RoleArchitect BossRole = "architect"
	RoleSorcerer  BossRole = "sorcerer"
	RoleMystic    BossRole = "mystic"
	RoleLoyalist  BossRole = "loyalist"
)

// GiftKind is the payload category behind a merchant gift card.
type GiftKind string

const (
	GiftWeapon GiftKind = "weapon"
	GiftPotion GiftKind = "potion"
	GiftArmor  GiftKind = "armor"
	GiftRepair GiftKind = "repair"
)

// Gift is the concrete payload resolved when a gift card is accepted.
type Gift struct {
	Kind GiftKind `json:"kind"`
	Val  int      `json:"val"`
	Slot string   `json:"slot,omitempty"` // armor slot for GiftArmor
	Name string   `json:"name"`
}

// Card is a single card drawn into a room. Once drawn it is immutable
// except for Val (debuffs and heals adjust it) and removal from play.
type Card struct {
	Suit     Suit     `json:"suit"`
	Val      int      `json:"val"`
	Type     Type     `json:"type"`
	Name     string   `json:"name"`
	IsSpell  bool     `json:"is_spell,omitempty"`
	BossSlot BossSlot `json:"boss_slot,omitempty"`
	BossRole BossRole `json:"boss_role,omitempty"`
	Gift     *Gift    `json:"gift,omitempty"`
}

// DisplayVal renders face values the way card tables print them.
func DisplayVal(v int) string {
	switch v {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	default:
		return strconv.Itoa(v)
	}
}
