package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/manikadiri/healthnav/internal/domain"
	"github.com/manikadiri/healthnav/internal/logging"
	"github.com/manikadiri/healthnav/internal/ports"
)

type HistoryService struct {
	store  ports.KeyValueStore
	logger *log.Logger
}

func NewHistoryService(store ports.KeyValueStore, logger *log.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logging.OrDiscard(logger)}
}

// List returns recent searches, most recent first. A corrupted slot reads
// as empty.
func (s *HistoryService) List(ctx context.Context) ([]string, error) {
	history, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return []string(history), nil
}

func (s *HistoryService) Add(ctx context.Context, query string) ([]string, error) {
	history, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated := history.Add(query)
	data, err := json.Marshal([]string(updated))
	if err != nil {
		return nil, fmt.Errorf("encode search history: %w", err)
	}
	if err := s.store.Put(ctx, SlotHistory, string(data)); err != nil {
		return nil, fmt.Errorf("save search history: %w", err)
	}

	return []string(updated), nil
}

func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, SlotHistory); err != nil {
		return fmt.Errorf("delete search history: %w", err)
	}
	return nil
}

func (s *HistoryService) load(ctx context.Context) (domain.SearchHistory, error) {
	raw, err := s.store.Get(ctx, SlotHistory)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.SearchHistory{}, nil
		}
		return nil, fmt.Errorf("load search history: %w", err)
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Warn("ignoring corrupted search history", "err", err)
		return domain.SearchHistory{}, nil
	}
	if len(entries) > domain.MaxSearchHistory {
		entries = entries[:domain.MaxSearchHistory]
	}

	return domain.SearchHistory(entries), nil
}
