package run

import (
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
)

// Class fixes the starting statline and seed inventory of a run.
type Class string

const (
	ClassKnight    Class = "knight"
	ClassScoundrel Class = "scoundrel"
	ClassMystic    Class = "mystic"
)

// Classes lists the playable classes in selection order.
var Classes = []Class{ClassKnight, ClassScoundrel, ClassMystic}

// ClassHP maps each class to its starting hit points. Balance config may
// override these at startup, before any run exists.
var ClassHP = map[Class]int{
	ClassKnight:    20,
	ClassScoundrel: 18,
	ClassMystic:    16,
}

func applyClass(s *State, class Class) {
	switch class {
	case ClassScoundrel:
		s.MaxHP = ClassHP[ClassScoundrel]
		s.SoulCoins = 2
		s.Inv.AddToBackpack(&inventory.Item{
			Kind: inventory.KindWeapon,
			Name: "Keen Dirk",
			Val:  3,
		})
	case ClassMystic:
		s.MaxHP = ClassHP[ClassMystic]
		s.Inv.AddToHotbar(&inventory.Item{
			Kind:    inventory.KindPassive,
			Name:    "Bundle of Herbs",
			Passive: inventory.PassiveHerbs,
		})
	default:
		// Knight is also the fallback for unrecognized input.
		s.Class = ClassKnight
		s.MaxHP = ClassHP[ClassKnight]
		s.Inv.Equip(inventory.SlotChest, &inventory.Item{
			Kind: inventory.KindArmor,
			Name: "Battered Cuirass",
			Slot: inventory.SlotChest,
			AP:   3,
		})
		s.AP = 3
	}
	s.HP = s.MaxHP
	s.RecalcArmor()
}
