package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/ports/mocks"
	"github.com/stretchr/testify/mock"
)

func newTestClock(t *testing.T) *mocks.MockClock {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(testNow).Maybe()
	return clock
}

type memoryStore struct {
	mu     sync.Mutex
	slots  map[string]string
	putErr error
	puts   int
}

func newMemoryStore(slots map[string]string) *memoryStore {
	if slots == nil {
		slots = map[string]string{}
	}
	return &memoryStore{slots: slots}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.slots[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.slots[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, key)
	return nil
}

func (s *memoryStore) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.slots[key]
	return value, ok
}

func (s *memoryStore) setPutErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
}

// scriptedStatus replays queued status reports, repeating the last one.
type scriptedStatus struct {
	mu      sync.Mutex
	replies []domain.QueueStatus
	calls   int
}

func (s *scriptedStatus) next() domain.QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.replies) == 0 {
		return domain.QueueStatus{}
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply
}

func (s *scriptedStatus) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func queueStatus(ahead, wait int) domain.QueueStatus {
	return domain.QueueStatus{PeopleAhead: &ahead, EstimatedWaitMinutes: &wait}
}

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
