package store

import (
	"fmt"
	"sync"

	"badminton-manager/internal/domain"
)

// ShuttleStore is the session-wide shuttle tally. Numbers are registered at
// most once; callers must treat a rejected Add as a failed precondition and
// abandon whatever state change depended on it.
type ShuttleStore struct {
	mu       sync.Mutex
	kv       *KV
	shuttles []domain.Shuttle
}

func NewShuttleStore(kv *KV) *ShuttleStore {
	return &ShuttleStore{kv: kv}
}

func (s *ShuttleStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shuttles = nil
	_, err := s.kv.Get(keyShuttles, &s.shuttles)
	return err
}

func (s *ShuttleStore) All() []domain.Shuttle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Shuttle, len(s.shuttles))
	copy(out, s.shuttles)
	return out
}

// Taken reports whether the number is already registered this session.
func (s *ShuttleStore) Taken(number int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.taken(number)
}

func (s *ShuttleStore) taken(number int) bool {
	for _, sh := range s.shuttles {
		if sh.Number == number {
			return true
		}
	}
	return false
}

// Add registers a shuttle number, attributed to the given day. A duplicate
// number is rejected and the collection left unchanged.
func (s *ShuttleStore) Add(number int, dayID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(number) {
		return fmt.Errorf("shuttle %d: %w", number, ErrShuttleTaken)
	}
	s.shuttles = append(s.shuttles, domain.Shuttle{Number: number, DayID: dayID})
	return s.flush()
}

// CountForDay returns how many shuttles were registered under the day.
func (s *ShuttleStore) CountForDay(dayID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, sh := range s.shuttles {
		if sh.DayID == dayID {
			n++
		}
	}
	return n
}

func (s *ShuttleStore) flush() error {
	return s.kv.Put(keyShuttles, s.shuttles)
}
