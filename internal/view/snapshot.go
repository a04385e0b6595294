package view

import (
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/card"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/dungeon"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// RoomView is the renderer-facing projection of a room. No card piles
// are exposed here; undrawn content stays hidden until an encounter
// surfaces it.
type RoomView struct {
	ID          int           `json:"id"`
	GX          float64       `json:"gx"`
	GY          float64       `json:"gy"`
	W           int           `json:"w"`
	H           int           `json:"h"`
	State       dungeon.State `json:"state"`
	Connections []int         `json:"connections"`
	IsWaypoint  bool          `json:"is_waypoint,omitempty"`
	IsSpecial   bool          `json:"is_special,omitempty"`
	IsBonfire   bool          `json:"is_bonfire,omitempty"`
	IsFinal     bool          `json:"is_final,omitempty"`
	RestRem     int           `json:"rest_remaining,omitempty"`
}

// PlayerView carries the HUD numbers.
type PlayerView struct {
	Class      run.Class `json:"class"`
	HP         int       `json:"hp"`
	MaxHP      int       `json:"max_hp"`
	AP         int       `json:"ap"`
	MaxAP      int       `json:"max_ap"`
	SoulCoins  int       `json:"soul_coins"`
	Durability int       `json:"durability"`
	SlainCount int       `json:"slain_count"`
}

// Snapshot is the full read-only view pushed after every committed state
// change.
type Snapshot struct {
	Floor         int              `json:"floor"`
	ThemeIndex    int              `json:"theme_index"`
	CurrentRoomID int              `json:"current_room_id"`
	PlayerGX      float64          `json:"player_gx"`
	PlayerGY      float64          `json:"player_gy"`
	Rooms         []RoomView       `json:"rooms"`
	Player        PlayerView       `json:"player"`
	DeckRemaining int              `json:"deck_remaining"`
	RoomCards     []card.Card      `json:"room_cards,omitempty"`
	Inventory     *inventory.Store `json:"inventory"`
	Mode          run.Mode         `json:"mode"`
	Over          bool             `json:"over,omitempty"`
	Score         int              `json:"score,omitempty"`
}

// Project builds a snapshot from live run state. The result shares no
// mutable slices with the simulation except the inventory store, which
// callers must treat as read-only.
func Project(s *run.State) Snapshot {
	snap := Snapshot{
		Floor:         s.Floor,
		ThemeIndex:    s.Dungeon.ThemeIndex(),
		CurrentRoomID: s.CurrentRoomID,
		DeckRemaining: s.Deck.Len(),
		Inventory:     s.Inv,
		Mode:          s.Mode,
		Player: PlayerView{
			Class:      s.Class,
			HP:         s.HP,
			MaxHP:      s.MaxHP,
			AP:         s.AP,
			MaxAP:      s.MaxAP,
			SoulCoins:  s.SoulCoins,
			Durability: s.Durability,
			SlainCount: len(s.SlainStack),
		},
	}

	for _, r := range s.Dungeon.Rooms {
		conns := make([]int, len(r.Connections))
		copy(conns, r.Connections)
		snap.Rooms = append(snap.Rooms, RoomView{
			ID: r.ID, GX: r.GX, GY: r.GY, W: r.W, H: r.H,
			State: r.State, Connections: conns,
			IsWaypoint: r.IsWaypoint, IsSpecial: r.IsSpecial,
			IsBonfire: r.IsBonfire, IsFinal: r.IsFinal,
			RestRem: r.RestRemaining,
		})
	}

	if cur := s.CurrentRoom(); cur != nil {
		snap.PlayerGX = cur.GX
		snap.PlayerGY = cur.GY
		if cur.State == dungeon.StateUncleared || cur.State == dungeon.StateBossActive {
			snap.RoomCards = append(snap.RoomCards, cur.Cards...)
		}
		if cur.IsSpecial && cur.State != dungeon.StateCleared {
			snap.RoomCards = append(snap.RoomCards, cur.Generated...)
		}
	}

	if s.HP <= 0 {
		snap.Over = true
		snap.Score = s.Score()
	}
	return snap
}
