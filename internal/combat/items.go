package combat

import (
	"errors"
	"fmt"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

var ErrNotActive = errors.New("item is not usable")

// ItemOutcome reports what a one-shot item did. ForceAvoid asks the
// caller to run its avoid path with the streak rule bypassed.
type ItemOutcome struct {
	Item       inventory.ActiveID `json:"item"`
	ForceAvoid bool               `json:"force_avoid,omitempty"`
	Damaged    []card.Card        `json:"damaged,omitempty"`
	Destroyed  []card.Card        `json:"destroyed,omitempty"`
}

// UseActive consumes the active item at loc and applies its effect to
// the current room. Passives and potions are not handled here.
func (rv *Resolver) UseActive(s *run.State, room *dungeon.Room, loc inventory.Location) (*ItemOutcome, error) {
	it, ok := s.Inv.At(loc)
	if !ok || it == nil {
		return nil, fmt.Errorf("%w: empty location", ErrNotActive)
	}
	if it.Kind != inventory.KindActive {
		return nil, fmt.Errorf("%w: %s", ErrNotActive, it.Kind)
	}

	out := &ItemOutcome{Item: it.Active}
	switch it.Active {
	case inventory.ActiveBomb:
		rv.bomb(s, room, out)
	case inventory.ActiveMusicBox:
		rv.musicBox(room, out)
	case inventory.ActiveSkeletonKey:
		out.ForceAvoid = true
	case inventory.ActiveHourglass:
		// No effect is wired to the hourglass yet.
		rv.log.Printf("combat: hourglass turned, nothing happens")
	default:
		return nil, fmt.Errorf("%w: unknown active %q", ErrNotActive, it.Active)
	}

	s.Inv.Remove(loc)
	return out, nil
}

// bomb hits one random surviving monster for max(2, weaponValue-2).
func (rv *Resolver) bomb(s *run.State, room *dungeon.Room, out *ItemOutcome) {
	idxs := monsterIndexes(room)
	if len(idxs) == 0 {
		return
	}
	target := idxs[rv.rng.Intn(len(idxs))]

	dmg := 2
	if w := s.Inv.Weapon(); w != nil && w.Val-2 > dmg {
		dmg = w.Val - 2
	}
	room.Cards[target].Val -= dmg
	if room.Cards[target].Val <= 0 {
		out.Destroyed = append(out.Destroyed, room.Cards[target])
		removeCard(room, target)
	} else {
		out.Damaged = append(out.Damaged, room.Cards[target])
	}
}

// musicBox weakens every monster in the room by 2, floored at zero.
func (rv *Resolver) musicBox(room *dungeon.Room, out *ItemOutcome) {
	for _, i := range monsterIndexes(room) {
		room.Cards[i].Val -= 2
		if room.Cards[i].Val < 0 {
			room.Cards[i].Val = 0
		}
		out.Damaged = append(out.Damaged, room.Cards[i])
	}
}

func monsterIndexes(room *dungeon.Room) []int {
	var idxs []int
	for i, c := range room.Cards {
		if c.Type == card.TypeMonster {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// DrinkPotion consumes a hotbar potion, healing its value.
func (rv *Resolver) DrinkPotion(s *run.State, loc inventory.Location) (int, error) {
	it, ok := s.Inv.At(loc)
	if !ok || it == nil {
		return 0, fmt.Errorf("%w: empty location", ErrNotActive)
	}
	if it.Kind != inventory.KindPotion {
		return 0, fmt.Errorf("%w: %s", ErrNotActive, it.Kind)
	}
	s.Inv.Remove(loc)
	return s.Heal(it.Val), nil
}
