package run

import (
	"math/rand"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
)

// Mode selects the save discipline for a run.
type Mode string

const (
	// ModeCheckpoint saves at floor boundaries and keeps the save on death.
	ModeCheckpoint Mode = "checkpoint"
	// ModeHardcore saves after every room entry and deletes on death.
	ModeHardcore Mode = "hardcore"
)

// DurabilityUnbounded marks a weapon that has not yet slain anything.
// Face values start at 2, so zero is free to act as the sentinel.
const DurabilityUnbounded = 0

// State is the whole mutable simulation state of one run. Everything in
// it round-trips through the save blob.
type State struct {
	Class     Class `json:"class"`
	HP        int   `json:"hp"`
	MaxHP     int   `json:"max_hp"`
	Floor     int   `json:"floor"`
	SoulCoins int   `json:"soul_coins"`
	AP        int   `json:"ap"`
	MaxAP     int   `json:"max_ap"`
	Mode      Mode  `json:"mode"`

	// Durability is the face-value ceiling the equipped weapon can still
	// strike without breaking. DurabilityUnbounded until the first kill.
	Durability int `json:"durability"`

	SlainStack  []card.Card `json:"slain_stack"`
	CarryCard   *card.Card  `json:"carry_card,omitempty"`
	LastAvoided bool        `json:"last_avoided"`

	Inv           *inventory.Store `json:"inventory"`
	Deck          *card.Deck       `json:"deck"`
	Dungeon       *dungeon.Dungeon `json:"dungeon"`
	CurrentRoomID int              `json:"current_room_id"`
}

// New starts a fresh run on floor 1 for the given class.
func New(class Class, mode Mode, rng *rand.Rand) *State {
	s := &State{
		Class:      class,
		Floor:      1,
		Mode:       mode,
		Durability: DurabilityUnbounded,
		Inv:        inventory.NewStore(),
	}
	s.Inv.SetArmorHook(s.RecalcArmor)
	s.Inv.SetWeaponHook(s.ResetWeaponTally)
	applyClass(s, class)
	s.Deck = card.BuildDeck(1, rng)
	s.Dungeon = dungeon.Generate(1, rng)
	s.CurrentRoomID = 0
	return s
}

// Rewire restores the non-serialized links after a load: the armor hook
// and a consistency pass over derived armor values.
func (s *State) Rewire() {
	if s.Inv == nil {
		s.Inv = inventory.NewStore()
	}
	if s.Inv.Equipment == nil {
		s.Inv.Equipment = map[string]*inventory.Item{}
	}
	s.Inv.SetArmorHook(s.RecalcArmor)
	s.Inv.SetWeaponHook(s.ResetWeaponTally)
	s.RecalcArmor()
}

// ResetWeaponTally clears the durability ceiling and trophy stack. Fired
// whenever the weapon slot's occupant changes: a freshly equipped weapon
// starts untested, and trophies do not transfer between weapons.
func (s *State) ResetWeaponTally() {
	s.Durability = DurabilityUnbounded
	s.SlainStack = nil
}

// RecalcArmor recomputes max armor points from equipped pieces and clamps
// the current pool down to the new max.
func (s *State) RecalcArmor() {
	s.MaxAP = s.Inv.ArmorTotal()
	if s.AP > s.MaxAP {
		s.AP = s.MaxAP
	}
}

// CanStrike reports whether the equipped weapon survives striking a
// monster with the given face value.
func (s *State) CanStrike(faceVal int) bool {
	return s.Durability == DurabilityUnbounded || faceVal <= s.Durability
}

// BreakWeapon destroys the equipped weapon: the slot empties, the
// durability ceiling resets, and the trophy stack is lost.
func (s *State) BreakWeapon() *inventory.Item {
	broken, _ := s.Inv.Unequip(inventory.SlotWeapon)
	s.Durability = DurabilityUnbounded
	s.SlainStack = nil
	return broken
}

// Slay records a monster kill on the trophy stack and pays out soul
// coins. The tome passive doubles the payout.
func (s *State) Slay(c card.Card) {
	s.SlainStack = append(s.SlainStack, c)
	coins := 1
	if s.Inv.HasPassive(inventory.PassiveTome) {
		coins++
	}
	s.SoulCoins += coins
}

// Heal restores up to n hit points and returns the amount applied.
func (s *State) Heal(n int) int {
	if n < 0 {
		n = 0
	}
	if s.HP+n > s.MaxHP {
		n = s.MaxHP - s.HP
	}
	s.HP += n
	return n
}

// TakeDamage runs armor mitigation and applies the remainder to hp.
//
// Mitigation layers in two steps: while the armor pool exceeds the slot
// floor, the pool absorbs first; whatever remains is then reduced by the
// floor on every hit. A held mirror intercepts one would-be-lethal hit,
// pinning hp at 1 and consuming itself; the hp actually spent down to 1
// still counts as lost.
//
// Returns the hp actually lost and whether the run ended.
func (s *State) TakeDamage(incoming int) (hpLost int, dead bool) {
	if incoming <= 0 {
		return 0, false
	}
	floorBlock := s.Inv.ArmorPieces()

	if s.AP > floorBlock {
		absorb := s.AP - floorBlock
		if absorb > incoming {
			absorb = incoming
		}
		s.AP -= absorb
		incoming -= absorb
	}
	if incoming > 0 {
		incoming -= floorBlock
		if incoming < 0 {
			incoming = 0
		}
	}

	if incoming >= s.HP {
		if loc, ok := s.Inv.FindPassive(inventory.PassiveMirror); ok {
			s.Inv.Remove(loc)
			lost := s.HP - 1
			s.HP = 1
			return lost, false
		}
	}

	s.HP -= incoming
	return incoming, s.HP <= 0
}

// Score is the death tally: remaining hp minus every monster value still
// unseen in the deck and in undrawn room piles.
func (s *State) Score() int {
	threat := 0
	if s.Deck != nil {
		threat += s.Deck.MonsterSum()
	}
	if s.Dungeon != nil {
		threat += s.Dungeon.RoomMonsterSum()
	}
	return s.HP - threat
}

// Descend moves the run to the next floor: a new deck and dungeon are
// generated, dungeon-scoped fields reset, and the player returns to the
// start room. Carried equipment, hp, and coins persist.
func (s *State) Descend(rng *rand.Rand) {
	s.Floor++
	s.Deck = card.BuildDeck(s.Floor, rng)
	s.Dungeon = dungeon.Generate(s.Floor, rng)
	s.CurrentRoomID = 0
	s.CarryCard = nil
	s.LastAvoided = false
}

// CurrentRoom returns the room the player stands in.
func (s *State) CurrentRoom() *dungeon.Room {
	return s.Dungeon.Room(s.CurrentRoomID)
}
