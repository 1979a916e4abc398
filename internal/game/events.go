package game

// EventType names a committed change to a table.
type EventType string

const (
	EventTableJoined    EventType = "table_joined"
	EventTableLeft      EventType = "table_left"
	EventStackAdjusted  EventType = "stack_adjusted"
	EventHandStarted    EventType = "hand_started"
	EventPlayerActed    EventType = "player_acted"
	EventStreetAdvanced EventType = "street_advanced"
	EventHandEnded      EventType = "hand_ended"
)
