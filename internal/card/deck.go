package card

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Deck is an ordered sequence of cards. It shrinks from the front via Draw
// and grows at the back when an avoided room returns its cards. Returned
// cards are never reshuffled.
type Deck struct {
	cards []Card
}

// monsterSuits holds the two suit pools a floor's monsters come from. Pool
// order rotates with the floor tier so higher floors lead with a different
// family, which matters only for draw flavor, not balance.
var monsterSuits = [3][2]Suit{
	{Clubs, Spades},
	{Spades, Clubs},
	{Clubs, Spades},
}

// BuildDeck assembles and shuffles the deck for a floor. The multiplier is
// 1x on floors 1-3, 2x on 4-6 and 3x on 7-9; it scales the monster, weapon
// and potion pools alike. Floor 1 yields 26 monsters, 9 weapons and 9
// potions: 44 cards.
func BuildDeck(floor int, rng *rand.Rand) *Deck {
	tier := FloorTier(floor)
	mult := tier + 1

	cards := make([]Card, 0, mult*44)
	for i := 0; i < mult; i++ {
		for _, suit := range monsterSuits[tier] {
			for v := 2; v <= 14; v++ {
				cards = append(cards, Card{
					Suit: suit,
					Val:  v,
					Type: TypeMonster,
					Name: MonsterName(floor, v),
				})
			}
		}
		for v := 2; v <= 10; v++ {
			cards = append(cards, Card{
				Suit: Diamonds,
				Val:  v,
				Type: TypeWeapon,
				Name: WeaponName(floor, v),
			})
		}
		for v := 2; v <= 10; v++ {
			cards = append(cards, Card{
				Suit: Hearts,
				Val:  v,
				Type: TypePotion,
				Name: fmt.Sprintf("Vitality Incense %d", v),
			})
		}
	}

	d := &Deck{cards: cards}
	d.Shuffle(rng)
	return d
}

// NewDeck wraps an existing card sequence, preserving order. Used when
// restoring a run from a save blob.
func NewDeck(cards []Card) *Deck {
	return &Deck{cards: cards}
}

// Shuffle permutes the deck uniformly.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. ok is false once the deck is
// exhausted; callers degrade gracefully on empty decks.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// Return appends cards to the bottom of the deck, in the order given.
func (d *Deck) Return(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

// Len reports the number of cards remaining.
func (d *Deck) Len() int { return len(d.cards) }

// Cards returns a copy of the remaining cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// MonsterSum totals the face values of all monsters still in the deck.
// Death scoring counts unseen threat against the player.
func (d *Deck) MonsterSum() int {
	sum := 0
	for _, c := range d.cards {
		if c.Type == TypeMonster {
			sum += c.Val
		}
	}
	return sum
}

// MarshalJSON serializes the deck as a bare card array, preserving draw
// order.
func (d *Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.cards)
}

// UnmarshalJSON restores a deck from a bare card array.
func (d *Deck) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.cards)
}
