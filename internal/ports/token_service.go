package ports

import (
	"context"

	"github.com/manikadiri/healthnav/internal/domain"
)

// TokenService is the server-side authority for bookings and queue position.
type TokenService interface {
	Book(ctx context.Context, hospitalID domain.HospitalID, sessionID domain.SessionID) (domain.Token, error)
	Status(ctx context.Context, code domain.TokenCode) (domain.QueueStatus, error)
}
