package application

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/ports"
	"github.com/oklog/ulid/v2"
)

// SessionService owns the guest session id sent with booking requests. The
// id is generated once per installation and kept until storage is cleared.
type SessionService struct {
	store ports.KeyValueStore
	clock ports.Clock
}

func NewSessionService(store ports.KeyValueStore, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{store: store, clock: clock}
}

// EnsureSession returns the stored session id, generating and persisting a
// new one when none is stored. created reports whether a new id was made.
func (s *SessionService) EnsureSession(ctx context.Context) (domain.SessionID, bool, error) {
	raw, err := s.store.Get(ctx, SlotSession)
	switch {
	case err == nil:
		if sessionID := domain.SessionID(raw); sessionID.Valid() {
			return sessionID, false, nil
		}
	case !errors.Is(err, domain.ErrKeyNotFound):
		return "", false, fmt.Errorf("load session id: %w", err)
	}

	sessionID, err := s.newSessionID()
	if err != nil {
		return "", false, err
	}
	if err := s.store.Put(ctx, SlotSession, string(sessionID)); err != nil {
		return "", false, fmt.Errorf("save session id: %w", err)
	}

	return sessionID, true, nil
}

func (s *SessionService) Reset(ctx context.Context) error {
	if err := s.store.Delete(ctx, SlotSession); err != nil {
		return fmt.Errorf("delete session id: %w", err)
	}
	return nil
}

func (s *SessionService) newSessionID() (domain.SessionID, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(s.clock.Now()), entropy)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	return domain.SessionID(domain.SessionIDPrefix + strings.ToLower(id.String())), nil
}
