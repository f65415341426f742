package application

import "github.com/manikadiri/healthnav/internal/domain"

type EventKind string

const (
	EventBooked    EventKind = "booked"
	EventUpdated   EventKind = "updated"
	EventCancelled EventKind = "cancelled"
)

// UpdateEvent describes one change to the token record. Previous and
// Current are copies; either is nil when no record existed on that side.
type UpdateEvent struct {
	Kind     EventKind
	Previous *domain.Token
	Current  *domain.Token
	Alert    *domain.Alert
}

func copyToken(token *domain.Token) *domain.Token {
	if token == nil {
		return nil
	}
	clone := *token
	return &clone
}
