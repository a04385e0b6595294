package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period        string            `json:"period"`
	EventCounts   map[EventType]int `json:"event_counts"`
	CardsPerRoom  float64           `json:"cards_per_room"`
	CardsResolved int               `json:"cards_resolved"`
	RoomsCleared  int               `json:"rooms_cleared"`
	RoomsAvoided  int               `json:"rooms_avoided"`
	WeaponsBroken int               `json:"weapons_broken"`
	RunsEnded     int               `json:"runs_ended"`
	FloorsCleared int               `json:"floors_cleared"`
	DamageByCause map[string]int    `json:"damage_by_cause"`
	GiftsByKind   map[string]int    `json:"gifts_by_kind"`
}

// CalculateStats computes balance stats from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:        since.Format("2006-01-02"),
		EventCounts:   make(map[EventType]int),
		DamageByCause: make(map[string]int),
		GiftsByKind:   make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventCardResolved:
			stats.CardsResolved++
		case EventRoomCleared:
			stats.RoomsCleared++
		case EventRoomAvoided:
			stats.RoomsAvoided++
		case EventWeaponBroken:
			stats.WeaponsBroken++
		case EventRunEnded:
			stats.RunsEnded++
		case EventFloorDescended:
			stats.FloorsCleared++
		case EventHPChanged:
			if cause, ok := metadata["cause"].(string); ok {
				if delta, ok := metadata["delta"].(float64); ok && delta < 0 {
					stats.DamageByCause[cause] += int(-delta)
				}
			}
		case EventGiftChosen:
			if kind, ok := metadata["kind"].(string); ok {
				stats.GiftsByKind[kind]++
			}
		}
	}

	if stats.RoomsCleared > 0 {
		stats.CardsPerRoom = float64(stats.CardsResolved) / float64(stats.RoomsCleared)
	}

	return stats, nil
}
