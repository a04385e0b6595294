package dungeon

import (
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
)

// State tracks where a room sits in its encounter lifecycle.
type State string

const (
	StateUncleared  State = "uncleared"
	StateCleared    State = "cleared"
	StateAvoided    State = "avoided"
	StateBossActive State = "boss_active"
)

// Room is a node in the floor graph. Waypoints are synthetic rooms that
// subdivide corridors: always cleared, never holding combat cards.
type Room struct {
	ID          int         `json:"id"`
	GX          float64     `json:"gx"`
	GY          float64     `json:"gy"`
	W           int         `json:"w"`
	H           int         `json:"h"`
	State       State       `json:"state"`
	Cards       []card.Card `json:"cards"`
	Connections []int       `json:"connections"`

	IsWaypoint bool `json:"is_waypoint,omitempty"`
	IsSpecial  bool `json:"is_special,omitempty"`
	IsBonfire  bool `json:"is_bonfire,omitempty"`
	IsFinal    bool `json:"is_final,omitempty"`

	// RestRemaining is the kindling left at a bonfire room.
	RestRemaining int `json:"rest_remaining,omitempty"`

	// Generated holds a merchant room's offer set. It is produced lazily on
	// first entry and then pinned for the life of the floor so re-entry
	// shows the same offers.
	Generated []card.Card `json:"generated,omitempty"`
}

// ConnectedTo reports whether id is directly reachable from the room.
func (r *Room) ConnectedTo(id int) bool {
	for _, c := range r.Connections {
		if c == id {
			return true
		}
	}
	return false
}

// Dungeon is a connected floor graph rooted at room 0.
type Dungeon struct {
	Rooms []*Room `json:"rooms"`
	Floor int     `json:"floor"`

	byID map[int]*Room
}

// Room returns the room with the given id, or nil.
func (d *Dungeon) Room(id int) *Room {
	if d.byID == nil {
		d.reindex()
	}
	return d.byID[id]
}

func (d *Dungeon) reindex() {
	d.byID = make(map[int]*Room, len(d.Rooms))
	for _, r := range d.Rooms {
		d.byID[r.ID] = r
	}
}

// ThemeIndex is the visual theme slot for the floor, cycling through the
// nine ambience sets the renderer ships with.
func (d *Dungeon) ThemeIndex() int {
	return (d.Floor - 1) % 9
}

// AllMonsterRoomsResolved reports whether the guardian challenge is open:
// every non-waypoint room must be cleared, a merchant, or a bonfire.
func (d *Dungeon) AllMonsterRoomsResolved() bool {
	for _, r := range d.Rooms {
		if r.IsWaypoint || r.IsSpecial || r.IsBonfire || r.IsFinal {
			continue
		}
		if r.State != StateCleared {
			return false
		}
	}
	return true
}

// RoomMonsterSum totals monster face values sitting in undrawn room card
// piles. Used by death scoring together with the deck remainder.
func (d *Dungeon) RoomMonsterSum() int {
	sum := 0
	for _, r := range d.Rooms {
		for _, c := range r.Cards {
			if c.Type == card.TypeMonster {
				sum += c.Val
			}
		}
	}
	return sum
}

// FinalRoom returns the floor's guardian room.
func (d *Dungeon) FinalRoom() *Room {
	for _, r := range d.Rooms {
		if r.IsFinal {
			return r
		}
	}
	return nil
}
