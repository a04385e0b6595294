package telemetry

import "time"

type EventType string

const (
	EventCardResolved   EventType = "card_resolved"
	EventWeaponBroken   EventType = "weapon_broken"
	EventHPChanged      EventType = "hp_changed"
	EventRoomCleared    EventType = "room_cleared"
	EventRoomAvoided    EventType = "room_avoided"
	EventBossPhase      EventType = "boss_phase"
	EventRunStarted     EventType = "run_started"
	EventRunEnded       EventType = "run_ended"
	EventFloorDescended EventType = "floor_descended"
	EventGiftChosen     EventType = "gift_chosen"
	EventItemUsed       EventType = "item_used"
	EventRested         EventType = "rested"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
