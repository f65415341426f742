package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/logging"
	"github.com/manikadiri/healthnav/internal/ports"
)

type LifecycleOptions struct {
	PollInterval time.Duration
	Logger       *log.Logger
}

// TokenLifecycle is the single owner of the active token record. It
// persists every change, drives the queue poller and notifies subscribers.
type TokenLifecycle struct {
	store   ports.KeyValueStore
	service ports.TokenService
	clock   ports.Clock
	logger  *log.Logger
	poller  *QueuePoller

	mu    sync.Mutex
	token *domain.Token

	// emitMu keeps listener delivery in the same order as state changes.
	emitMu      sync.Mutex
	listenersMu sync.Mutex
	listeners   map[int]func(UpdateEvent)
	nextID      int
}

func NewTokenLifecycle(store ports.KeyValueStore, service ports.TokenService, clock ports.Clock, opts LifecycleOptions) *TokenLifecycle {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	lifecycle := &TokenLifecycle{
		store:     store,
		service:   service,
		clock:     clock,
		logger:    logging.OrDiscard(opts.Logger),
		listeners: map[int]func(UpdateEvent){},
	}
	lifecycle.poller = NewQueuePoller(service, lifecycle, opts.PollInterval, lifecycle.logger)

	return lifecycle
}

func (l *TokenLifecycle) Poller() *QueuePoller {
	return l.poller
}

// Restore loads the persisted record. A malformed record is discarded and
// reported as absent.
func (l *TokenLifecycle) Restore(ctx context.Context) (domain.Token, bool, error) {
	raw, err := l.store.Get(ctx, SlotToken)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			l.setToken(nil)
			return domain.Token{}, false, nil
		}
		return domain.Token{}, false, fmt.Errorf("load token record: %w", err)
	}

	token, err := decodeTokenRecord(raw)
	if err != nil {
		l.logger.Warn("discarding malformed token record", "err", err)
		if deleteErr := l.store.Delete(ctx, SlotToken); deleteErr != nil {
			l.logger.Warn("could not delete malformed token record", "err", deleteErr)
		}
		l.setToken(nil)
		return domain.Token{}, false, nil
	}

	l.setToken(&token)
	l.logger.Debug("restored token record", "code", token.Code, "people_ahead", token.PeopleAhead)

	return token, true, nil
}

// Resume restores the persisted record and starts polling when one exists.
func (l *TokenLifecycle) Resume(ctx context.Context) (domain.Token, bool, error) {
	token, ok, err := l.Restore(ctx)
	if err != nil || !ok {
		return token, ok, err
	}

	l.mu.Lock()
	if l.token != nil && l.token.Code == token.Code {
		l.poller.Start(token.Code)
	}
	l.mu.Unlock()

	return token, true, nil
}

func (l *TokenLifecycle) BookToken(ctx context.Context, hospitalID domain.HospitalID, sessionID domain.SessionID) (domain.Token, error) {
	hospitalID = domain.HospitalID(strings.TrimSpace(string(hospitalID)))
	if hospitalID == "" {
		return domain.Token{}, domain.ErrInvalidHospital
	}

	booked, err := l.service.Book(ctx, hospitalID, sessionID)
	if err != nil {
		return domain.Token{}, fmt.Errorf("book token: %w", err)
	}
	if booked.HospitalID == "" {
		booked.HospitalID = hospitalID
	}
	if err := booked.Validate(); err != nil {
		return domain.Token{}, fmt.Errorf("book token: %w: %w", domain.ErrServiceUnavailable, err)
	}

	now := l.clock.Now()
	if booked.BookedAt.IsZero() {
		booked.BookedAt = now
	}
	booked.UpdatedAt = now

	encoded, err := encodeTokenRecord(booked)
	if err != nil {
		return domain.Token{}, err
	}

	l.mu.Lock()
	if err := l.store.Put(ctx, SlotToken, encoded); err != nil {
		l.mu.Unlock()
		return domain.Token{}, fmt.Errorf("save token record: %w", err)
	}
	previous := l.token
	current := booked
	l.token = &current
	l.poller.Start(current.Code)
	l.emitLocked(UpdateEvent{Kind: EventBooked, Previous: copyToken(previous), Current: copyToken(&current)})

	l.logger.Info("token booked", "code", current.Code, "hospital", current.HospitalID, "people_ahead", current.PeopleAhead)

	return current, nil
}

// CancelToken stops polling and forgets the record. Without an active
// record it does nothing.
func (l *TokenLifecycle) CancelToken(ctx context.Context) error {
	l.mu.Lock()
	l.poller.Stop()
	if l.token == nil {
		l.mu.Unlock()
		return nil
	}

	if err := l.store.Delete(ctx, SlotToken); err != nil {
		l.mu.Unlock()
		return fmt.Errorf("delete token record: %w", err)
	}
	previous := l.token
	l.token = nil
	l.emitLocked(UpdateEvent{Kind: EventCancelled, Previous: copyToken(previous)})

	l.logger.Info("token cancelled", "code", previous.Code)

	return nil
}

// ApplyStatusUpdate folds one queue report into the record. Reports without
// a queue position and reports for a code that is no longer active are
// dropped and reported as not applied. A missing wait keeps the last known
// estimate.
func (l *TokenLifecycle) ApplyStatusUpdate(ctx context.Context, code domain.TokenCode, status domain.QueueStatus) (UpdateEvent, bool, error) {
	if !status.Usable() {
		l.logger.Debug("dropping queue status without a position", "code", code)
		return UpdateEvent{}, false, nil
	}

	l.mu.Lock()
	if l.token == nil || l.token.Code != code {
		l.mu.Unlock()
		l.logger.Debug("dropping queue status for inactive token", "code", code)
		return UpdateEvent{}, false, nil
	}

	previous := *l.token
	updated := previous
	updated.PeopleAhead = *status.PeopleAhead
	updated.EstimatedWaitMinutes = status.WaitOr(previous.EstimatedWaitMinutes)
	updated.UpdatedAt = l.clock.Now()

	encoded, err := encodeTokenRecord(updated)
	if err != nil {
		l.mu.Unlock()
		return UpdateEvent{}, false, err
	}
	if err := l.store.Put(ctx, SlotToken, encoded); err != nil {
		l.mu.Unlock()
		return UpdateEvent{}, false, fmt.Errorf("save token record: %w", err)
	}
	l.token = &updated

	event := UpdateEvent{
		Kind:     EventUpdated,
		Previous: copyToken(&previous),
		Current:  copyToken(&updated),
		Alert:    domain.EvaluateAlert(previous.PeopleAhead, updated.PeopleAhead, updated.EstimatedWaitMinutes, code),
	}
	l.emitLocked(event)

	return event, true, nil
}

// Refresh fetches the queue status once, outside the poller schedule.
// Unlike poll ticks, failures are returned to the caller.
func (l *TokenLifecycle) Refresh(ctx context.Context) (UpdateEvent, bool, error) {
	token, ok := l.Current()
	if !ok {
		return UpdateEvent{}, false, domain.ErrNoActiveToken
	}

	status, err := l.service.Status(ctx, token.Code)
	if err != nil {
		return UpdateEvent{}, false, fmt.Errorf("refresh queue status: %w", err)
	}

	return l.ApplyStatusUpdate(ctx, token.Code, status)
}

func (l *TokenLifecycle) Current() (domain.Token, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.token == nil {
		return domain.Token{}, false
	}
	return *l.token, true
}

// Subscribe registers listener for update events and returns a function
// that removes it. Listeners must not call TokenLifecycle mutators
// synchronously.
func (l *TokenLifecycle) Subscribe(listener func(UpdateEvent)) func() {
	l.listenersMu.Lock()
	defer l.listenersMu.Unlock()

	id := l.nextID
	l.nextID++
	l.listeners[id] = listener

	return func() {
		l.listenersMu.Lock()
		defer l.listenersMu.Unlock()
		delete(l.listeners, id)
	}
}

// Close stops polling and waits for in-flight ticks to finish.
func (l *TokenLifecycle) Close() {
	l.poller.Stop()
	l.poller.Wait()
}

func (l *TokenLifecycle) setToken(token *domain.Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token = copyToken(token)
}

// emitLocked must be called with l.mu held; it releases l.mu before
// invoking listeners.
func (l *TokenLifecycle) emitLocked(event UpdateEvent) {
	l.emitMu.Lock()
	l.mu.Unlock()
	defer l.emitMu.Unlock()

	l.listenersMu.Lock()
	listeners := make([]func(UpdateEvent), 0, len(l.listeners))
	for id := 0; id < l.nextID; id++ {
		if listener, ok := l.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	l.listenersMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
