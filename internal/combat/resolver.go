package combat

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// interceptChance is the odds that a surviving loyalist minion takes a
// hit aimed at the guardian.
const interceptChance = 0.35

// mysticGuardianHeal is the hp the guardian regains when a mystic minion
// falls.
const mysticGuardianHeal = 5

var ErrNoSuchCard = errors.New("no card at index")

// Resolver applies a single card resolution to the run state. It owns
// the monster damage math, the weapon durability rules, and the boss
// role interactions. Room lifecycle (quotas, clearing, carry-over) stays
// with the caller.
type Resolver struct {
	rng *rand.Rand
	log *log.Logger
}

func NewResolver(rng *rand.Rand, logger *log.Logger) *Resolver {
	return &Resolver{rng: rng, log: logger}
}

// Outcome reports everything a single resolution did, for the caller to
// fold into encounter state and telemetry.
type Outcome struct {
	Card        card.Card  `json:"card"`
	Redirected  *card.Card `json:"redirected,omitempty"`
	DamageTaken int        `json:"damage_taken"`
	Healed      int        `json:"healed"`
	Slain       bool       `json:"slain"`
	WeaponBroke bool       `json:"weapon_broke"`
	GuardianHP  int        `json:"guardian_heal,omitempty"`
	Stored      bool       `json:"stored"`
	Dead        bool       `json:"dead"`
}

// Resolve takes the card at idx out of the room and applies it. Capacity
// failures (weapon card, full backpack) leave the card in place and
// return the sentinel unchanged so the caller can offer another choice.
func (rv *Resolver) Resolve(s *run.State, room *dungeon.Room, idx int) (*Outcome, error) {
	if idx < 0 || idx >= len(room.Cards) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchCard, idx, len(room.Cards))
	}
	c := room.Cards[idx]

	switch c.Type {
	case card.TypeWeapon:
		return rv.resolveWeaponCard(s, room, idx, c)
	case card.TypePotion:
		return rv.resolvePotionCard(s, room, idx, c)
	case card.TypeMonster:
		return rv.resolveMonster(s, room, idx, c)
	default:
		return nil, fmt.Errorf("card type %q cannot be picked in combat", c.Type)
	}
}

func (rv *Resolver) resolveWeaponCard(s *run.State, room *dungeon.Room, idx int, c card.Card) (*Outcome, error) {
	it := &inventory.Item{Kind: inventory.KindWeapon, Name: c.Name, Val: c.Val}
	if _, err := s.Inv.AddToBackpack(it); err != nil {
		// Card stays in the room; nothing changed.
		return nil, err
	}
	removeCard(room, idx)
	return &Outcome{Card: c, Stored: true}, nil
}

func (rv *Resolver) resolvePotionCard(s *run.State, room *dungeon.Room, idx int, c card.Card) (*Outcome, error) {
	out := &Outcome{Card: c}
	it := &inventory.Item{Kind: inventory.KindPotion, Name: c.Name, Val: c.Val}
	if _, err := s.Inv.AddToHotbar(it); err == nil {
		out.Stored = true
	} else {
		out.Healed = s.Heal(c.Val)
	}
	removeCard(room, idx)
	return out, nil
}

func (rv *Resolver) resolveMonster(s *run.State, room *dungeon.Room, idx int, c card.Card) (*Outcome, error) {
	out := &Outcome{Card: c}
	bossFight := room.State == dungeon.StateBossActive

	// A hit on the guardian may be bodyblocked by a surviving loyalist.
	if bossFight && c.BossSlot == card.SlotGuardian {
		if li := findMinionByRole(room, card.RoleLoyalist); li >= 0 && rv.rng.Float64() < interceptChance {
			idx = li
			c = room.Cards[li]
			out.Redirected = &c
			rv.log.Printf("combat: loyalist %q intercepts the guardian hit", c.Name)
		}
	}

	effective := c.Val
	bonus := 0
	if bossFight {
		effective, bonus = applyMinionRoles(room, idx, effective)
	}

	dmg := effective
	weapon := s.Inv.Weapon()
	if weapon != nil {
		dmg = effective - weapon.Val
		if dmg < 0 {
			dmg = 0
		}
		if s.CanStrike(effective) {
			// Threshold tightens to the raw face value, not the boosted one.
			s.Durability = c.Val
		} else {
			out.WeaponBroke = true
		}
	}
	dmg += bonus

	removeCard(room, idx)
	out.Slain = true
	s.Slay(c)

	if out.WeaponBroke {
		// The breaking kill never survives on the trophy stack.
		s.BreakWeapon()
	}

	if bossFight && c.BossSlot == card.SlotMinion && c.BossRole == card.RoleMystic {
		if gi := findGuardian(room); gi >= 0 {
			room.Cards[gi].Val += mysticGuardianHeal
			out.GuardianHP = mysticGuardianHeal
		}
	}

	out.DamageTaken, out.Dead = s.TakeDamage(dmg)
	return out, nil
}

// applyMinionRoles folds every surviving non-guardian minion other than
// the target into the effective value and the flat bonus damage rider.
func applyMinionRoles(room *dungeon.Room, targetIdx, effective int) (int, int) {
	bonus := 0
	for i, m := range room.Cards {
		if i == targetIdx || m.BossSlot != card.SlotMinion {
			continue
		}
		switch m.BossRole {
		case card.RoleVanguard, card.RoleBulwark:
			bonus += m.Val
		case card.RoleArchitect:
			half := m.Val / 2
			effective += half
			bonus += half
		case card.RoleSorcerer:
			effective -= 2
			if effective < 0 {
				effective = 0
			}
			bonus += 2
		}
	}
	return effective, bonus
}

func findMinionByRole(room *dungeon.Room, role card.BossRole) int {
	for i, m := range room.Cards {
		if m.BossSlot == card.SlotMinion && m.BossRole == role {
			return i
		}
	}
	return -1
}

func findGuardian(room *dungeon.Room) int {
	for i, m := range room.Cards {
		if m.BossSlot == card.SlotGuardian {
			return i
		}
	}
	return -1
}

// GuardianAlive reports whether a guardian-slot card remains in the room.
func GuardianAlive(room *dungeon.Room) bool {
	return findGuardian(room) >= 0
}

func removeCard(room *dungeon.Room, idx int) {
	room.Cards = append(room.Cards[:idx], room.Cards[idx+1:]...)
}
