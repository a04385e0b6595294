package encounter

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/combat"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// roomQuota is how many cards a visit must resolve to clear a monster
// room, when the room holds that many.
const roomQuota = 3

// roomDraw is the pile size dealt to a monster room on first visit,
// carry-over card included.
const roomDraw = 4

// RestHealPerCost is the hp restored per point of bonfire kindling.
// Balance config may override it at startup.
var RestHealPerCost = 5

var (
	ErrBusy         = errors.New("resolution in progress")
	ErrNotAdjacent  = errors.New("room not adjacent")
	ErrAvoidIllegal = errors.New("avoid not allowed")
	ErrBossGate     = errors.New("uncleared rooms remain before the guardian")
	ErrNoEncounter  = errors.New("nothing to resolve here")
	ErrNoRest       = errors.New("no rest available")
	ErrNoGift       = errors.New("no such gift")
)

// Machine drives one run's room encounters. All mutation funnels through
// it one action at a time; the busy flag holds a resolution open until
// the caller acknowledges the reveal.
type Machine struct {
	s   *run.State
	rv  *combat.Resolver
	rng *rand.Rand
	log *log.Logger

	picks int
	busy  bool
}

func NewMachine(s *run.State, rv *combat.Resolver, rng *rand.Rand, logger *log.Logger) *Machine {
	return &Machine{s: s, rv: rv, rng: rng, log: logger}
}

// Run exposes the machine's run state.
func (m *Machine) Run() *run.State { return m.s }

// Resolver exposes the combat resolver for direct item use.
func (m *Machine) Resolver() *combat.Resolver { return m.rv }

// Busy reports whether a resolution is waiting on AckReveal.
func (m *Machine) Busy() bool { return m.busy }

// AckReveal is the animation-complete callback: it releases the busy
// latch so the next pick can land.
func (m *Machine) AckReveal() { m.busy = false }

// EnterResult describes what entering a room exposed.
type EnterResult struct {
	Room      *dungeon.Room `json:"room"`
	BossFight bool          `json:"boss_fight,omitempty"`
	Gifts     []card.Card   `json:"gifts,omitempty"`
	RestLeft  int           `json:"rest_left,omitempty"`
}

// Enter moves the player into an adjacent room and stages its encounter.
func (m *Machine) Enter(roomID int) (*EnterResult, error) {
	if m.busy {
		return nil, ErrBusy
	}
	cur := m.s.CurrentRoom()
	target := m.s.Dungeon.Room(roomID)
	if target == nil {
		return nil, fmt.Errorf("%w: room %d", ErrNotAdjacent, roomID)
	}
	if roomID != m.s.CurrentRoomID && !cur.ConnectedTo(roomID) {
		return nil, fmt.Errorf("%w: room %d from %d", ErrNotAdjacent, roomID, m.s.CurrentRoomID)
	}

	res := &EnterResult{Room: target}

	switch {
	case target.IsWaypoint:
		// Pass-through.
	case target.IsFinal:
		if err := m.stageBoss(target); err != nil {
			return nil, err
		}
		res.BossFight = target.State == dungeon.StateBossActive
	case target.IsSpecial && target.State != dungeon.StateCleared:
		m.stageMerchant(target)
		res.Gifts = target.Generated
	case target.IsBonfire && target.State != dungeon.StateCleared:
		res.RestLeft = target.RestRemaining
	case target.State == dungeon.StateCleared:
		// Pass-through.
	default:
		m.stageMonsters(target)
	}

	// Commit the move only once staging cannot fail anymore.
	m.s.CurrentRoomID = roomID
	m.picks = 0
	return res, nil
}

// stageMonsters deals the room's pile on first visit: the carried-over
// card first, then deck draws up to the pile size. A short deck deals a
// short pile.
func (m *Machine) stageMonsters(room *dungeon.Room) {
	if len(room.Cards) > 0 {
		return
	}
	if m.s.CarryCard != nil {
		room.Cards = append(room.Cards, *m.s.CarryCard)
		m.s.CarryCard = nil
	}
	for len(room.Cards) < roomDraw {
		c, ok := m.s.Deck.Draw()
		if !ok {
			break
		}
		room.Cards = append(room.Cards, c)
	}
}

// stageBoss opens the guardian challenge. The gate requires every
// ordinary monster room on the floor to be resolved first.
func (m *Machine) stageBoss(room *dungeon.Room) error {
	if room.State == dungeon.StateBossActive {
		return nil
	}
	if !m.s.Dungeon.AllMonsterRoomsResolved() {
		return ErrBossGate
	}
	room.State = dungeon.StateBossActive
	if len(room.Cards) == 0 {
		room.Cards = buildBossCards(m.s.Floor, m.rng)
	}
	m.log.Printf("encounter: guardian challenge opened on floor %d", m.s.Floor)
	return nil
}

func buildBossCards(floor int, rng *rand.Rand) []card.Card {
	tier := card.FloorTier(floor)
	guardianVal := 10 + 2*tier

	roles := []card.BossRole{
		card.RoleVanguard, card.RoleBulwark, card.RoleArchitect,
		card.RoleSorcerer, card.RoleMystic, card.RoleLoyalist,
	}
	rng.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	cards := []card.Card{{
		Suit:     card.Spades,
		Val:      guardianVal,
		Type:     card.TypeMonster,
		Name:     card.MonsterName(floor, 14),
		BossSlot: card.SlotGuardian,
	}}
	for _, role := range roles[:3] {
		v := 3 + rng.Intn(5) + 2*tier
		cards = append(cards, card.Card{
			Suit:     card.Clubs,
			Val:      v,
			Type:     card.TypeMonster,
			Name:     card.MonsterName(floor, v),
			BossSlot: card.SlotMinion,
			BossRole: role,
		})
	}
	return cards
}

// Pick resolves the room card at idx. Monster rooms clear on the third
// resolved card of the visit, handing any leftover card to the next room
// entered. Boss rooms clear when the guardian falls.
func (m *Machine) Pick(idx int) (*combat.Outcome, error) {
	if m.busy {
		return nil, ErrBusy
	}
	room := m.s.CurrentRoom()
	if room.State != dungeon.StateUncleared && room.State != dungeon.StateBossActive {
		return nil, ErrNoEncounter
	}
	if room.IsSpecial || room.IsBonfire {
		return nil, ErrNoEncounter
	}

	out, err := m.rv.Resolve(m.s, room, idx)
	if err != nil {
		// Capacity and bad-index rejections never latch the busy flag.
		return nil, err
	}
	m.busy = true

	if out.Dead {
		return out, nil
	}

	if room.State == dungeon.StateBossActive {
		if !combat.GuardianAlive(room) {
			room.Cards = nil
			m.clearRoom(room)
		}
		return out, nil
	}

	m.picks++
	if m.picks >= roomQuota || len(room.Cards) == 0 {
		if len(room.Cards) == 1 {
			leftover := room.Cards[0]
			m.s.CarryCard = &leftover
			room.Cards = nil
		}
		m.clearRoom(room)
	}
	return out, nil
}

func (m *Machine) clearRoom(room *dungeon.Room) {
	room.State = dungeon.StateCleared
	m.s.LastAvoided = false
	m.picks = 0
}

// Avoid backs out of the current room before anything is resolved. The
// pile goes to the bottom of the deck unshuffled and the room can be
// retried later as a fresh draw. Two avoids in a row are illegal.
func (m *Machine) Avoid() error {
	if m.busy {
		return ErrBusy
	}
	if m.s.LastAvoided {
		return fmt.Errorf("%w: previous room was avoided", ErrAvoidIllegal)
	}
	return m.avoid()
}

// ForceAvoid is the skeleton-key path: the streak rule is bypassed.
func (m *Machine) ForceAvoid() error {
	if m.busy {
		return ErrBusy
	}
	return m.avoid()
}

func (m *Machine) canAvoid() error {
	room := m.s.CurrentRoom()
	if room.State != dungeon.StateUncleared || room.IsSpecial || room.IsBonfire || room.IsFinal {
		return fmt.Errorf("%w: room %d", ErrAvoidIllegal, room.ID)
	}
	if m.picks > 0 {
		return fmt.Errorf("%w: %d cards already resolved", ErrAvoidIllegal, m.picks)
	}
	return nil
}

func (m *Machine) avoid() error {
	if err := m.canAvoid(); err != nil {
		return err
	}
	room := m.s.CurrentRoom()
	m.s.Deck.Return(room.Cards...)
	room.Cards = nil
	room.State = dungeon.StateAvoided
	m.s.LastAvoided = true
	return nil
}

// UseItem consumes an active hotbar item against the current room. A
// skeleton key triggers the forced-avoid path directly.
func (m *Machine) UseItem(loc inventory.Location) (*combat.ItemOutcome, error) {
	if m.busy {
		return nil, ErrBusy
	}
	// A skeleton key's avoid must be legal before the key is spent.
	if it, ok := m.s.Inv.At(loc); ok && it != nil && it.Kind == inventory.KindActive && it.Active == inventory.ActiveSkeletonKey {
		if err := m.canAvoid(); err != nil {
			return nil, err
		}
	}
	out, err := m.rv.UseActive(m.s, m.s.CurrentRoom(), loc)
	if err != nil {
		return nil, err
	}
	if out.ForceAvoid {
		if err := m.ForceAvoid(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Rest spends 1-3 kindling at a bonfire, healing five per point. The
// herbs passive adds a flat five. The bonfire clears when its kindling
// is gone.
func (m *Machine) Rest(cost int) (int, error) {
	if m.busy {
		return 0, ErrBusy
	}
	room := m.s.CurrentRoom()
	if !room.IsBonfire || room.State == dungeon.StateCleared {
		return 0, fmt.Errorf("%w: room %d", ErrNoRest, room.ID)
	}
	if cost < 1 || cost > 3 || cost > room.RestRemaining {
		return 0, fmt.Errorf("%w: cost %d with %d remaining", ErrNoRest, cost, room.RestRemaining)
	}

	heal := RestHealPerCost * cost
	if m.s.Inv.HasPassive(inventory.PassiveHerbs) {
		heal += 5
	}
	healed := m.s.Heal(heal)
	room.RestRemaining -= cost
	if room.RestRemaining == 0 {
		m.clearRoom(room)
	}
	return healed, nil
}
