package encounter

import (
	"fmt"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/combat"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// giftOptions is how many weighted offers a merchant lays out, before
// the conditional repair offer.
const giftOptions = 3

// maxWeaponVal caps a honed weapon at the highest card face value.
const maxWeaponVal = 14

var armorSlots = []string{
	inventory.SlotHead, inventory.SlotChest, inventory.SlotHands, inventory.SlotLegs,
}

// stageMerchant rolls the room's offers once and pins them, so walking
// out and back shows the same table.
func (m *Machine) stageMerchant(room *dungeon.Room) {
	if room.Generated != nil {
		return
	}
	tier := card.FloorTier(m.s.Floor)

	for i := 0; i < giftOptions; i++ {
		roll := m.rng.Float64()
		var g card.Gift
		switch {
		case roll < 0.4:
			v := 3 + m.rng.Intn(6) + 2*tier
			g = card.Gift{Kind: card.GiftWeapon, Val: v, Name: card.WeaponName(m.s.Floor, v)}
		case roll < 0.7:
			v := 4 + m.rng.Intn(6) + 2*tier
			g = card.Gift{Kind: card.GiftPotion, Val: v, Name: fmt.Sprintf("Vitality Incense %d", v)}
		default:
			slot := armorSlots[m.rng.Intn(len(armorSlots))]
			v := 2 + m.rng.Intn(3) + tier
			g = card.Gift{Kind: card.GiftArmor, Val: v, Slot: slot, Name: fmt.Sprintf("Warded %s plate", slot)}
		}
		room.Generated = append(room.Generated, card.Card{
			Type: card.TypeGift,
			Val:  g.Val,
			Name: g.Name,
			Gift: &g,
		})
	}

	if m.s.Inv.Weapon() != nil || m.s.MaxAP > 0 {
		boost := 1 + m.rng.Intn(6)
		g := card.Gift{Kind: card.GiftRepair, Val: boost, Name: fmt.Sprintf("Whetstone and Rivets (+%d)", boost)}
		room.Generated = append(room.Generated, card.Card{
			Type: card.TypeGift,
			Val:  g.Val,
			Name: g.Name,
			Gift: &g,
		})
	}
}

// ChooseGift accepts one merchant offer. Gifts are mutually exclusive:
// acceptance clears the room and discards the rest of the table. A
// capacity failure leaves the table standing for a different choice.
func (m *Machine) ChooseGift(idx int) (*combat.Outcome, error) {
	if m.busy {
		return nil, ErrBusy
	}
	room := m.s.CurrentRoom()
	if !room.IsSpecial || room.State == dungeon.StateCleared {
		return nil, fmt.Errorf("%w: room %d is not a merchant", ErrNoGift, room.ID)
	}
	if idx < 0 || idx >= len(room.Generated) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoGift, idx, len(room.Generated))
	}

	c := room.Generated[idx]
	out := &combat.Outcome{Card: c}
	g := c.Gift

	switch g.Kind {
	case card.GiftWeapon:
		it := &inventory.Item{Kind: inventory.KindWeapon, Name: g.Name, Val: g.Val}
		if _, err := m.s.Inv.AddToBackpack(it); err != nil {
			return nil, err
		}
		out.Stored = true
	case card.GiftArmor:
		it := &inventory.Item{Kind: inventory.KindArmor, Name: g.Name, Slot: g.Slot, AP: g.Val}
		if _, err := m.s.Inv.AddToBackpack(it); err != nil {
			return nil, err
		}
		out.Stored = true
	case card.GiftPotion:
		it := &inventory.Item{Kind: inventory.KindPotion, Name: g.Name, Val: g.Val}
		if _, err := m.s.Inv.AddToHotbar(it); err == nil {
			out.Stored = true
		} else {
			out.Healed = m.s.Heal(g.Val)
		}
	case card.GiftRepair:
		if w := m.s.Inv.Weapon(); w != nil {
			w.Val += g.Val
			if w.Val > maxWeaponVal {
				w.Val = maxWeaponVal
			}
		}
		m.s.Durability = run.DurabilityUnbounded
		m.s.SlainStack = nil
		m.s.AP = m.s.MaxAP
		m.log.Printf("encounter: repair gift hones the weapon by +%d and restores armor", g.Val)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrNoGift, g.Kind)
	}

	room.Generated = nil
	m.clearRoom(room)
	return out, nil
}
