package domain

import (
	"context"
	"time"
)

// Event is read-only context for message composition.
// swagger:model Event
type Event struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	Venue    string    `json:"venue"`
}

// EventRepository defines read operations for events.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
}
