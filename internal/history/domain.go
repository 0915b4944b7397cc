package history

import "time"

// Entry is one recorded admin action.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    *string        `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Filter narrows the history listing.
type Filter struct {
	Entity  string
	ActorID string
	Page    int
	PerPage int
}
