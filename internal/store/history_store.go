package store

import (
	"sync"

	"badminton-manager/internal/domain"
)

// HistoryStore is the append-only log of completed matches.
type HistoryStore struct {
	mu      sync.Mutex
	kv      *KV
	matches []domain.MatchHistory
}

func NewHistoryStore(kv *KV) *HistoryStore {
	return &HistoryStore{kv: kv}
}

func (s *HistoryStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = nil
	_, err := s.kv.Get(keyHistory, &s.matches)
	return err
}

func (s *HistoryStore) All() []domain.MatchHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MatchHistory, len(s.matches))
	copy(out, s.matches)
	return out
}

// Record appends a finalized match. Entries are immutable once recorded.
func (s *HistoryStore) Record(m domain.MatchHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = append(s.matches, m)
	return s.kv.Put(keyHistory, s.matches)
}

// ForDay returns every recorded match attributed to the day.
func (s *HistoryStore) ForDay(dayID int64) []domain.MatchHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.MatchHistory
	for _, m := range s.matches {
		if m.DayID == dayID {
			out = append(out, m)
		}
	}
	return out
}
