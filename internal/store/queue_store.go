package store

import (
	"sync"

	"badminton-manager/internal/domain"
)

// QueueStore holds pending matches. Entry ids are monotonic starting at 1 and
// are not reused after removals; Clear resets the counter.
type QueueStore struct {
	mu      sync.Mutex
	kv      *KV
	entries []domain.QueuedMatch
	counter int64
}

func NewQueueStore(kv *KV) *QueueStore {
	return &QueueStore{kv: kv, counter: 1}
}

func (s *QueueStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.counter = 1
	if _, err := s.kv.Get(keyQueue, &s.entries); err != nil {
		return err
	}
	if _, err := s.kv.Get(keyQueueCounter, &s.counter); err != nil {
		return err
	}
	return nil
}

func (s *QueueStore) All() []domain.QueuedMatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.QueuedMatch, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *QueueStore) ByID(id int64) (domain.QueuedMatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.QueuedMatch{}, false
}

// Contains reports whether the player appears in any queue entry.
func (s *QueueStore) Contains(playerID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		for _, id := range e.PlayerIDs() {
			if id == playerID {
				return true
			}
		}
	}
	return false
}

// Add appends a new entry with the next queue id.
func (s *QueueStore) Add(left, right []domain.Player, court string) (domain.QueuedMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.QueuedMatch{
		ID:               s.counter,
		LeftSidePlayers:  append([]domain.Player(nil), left...),
		RightSidePlayers: append([]domain.Player(nil), right...),
		Court:            court,
	}
	s.entries = append(s.entries, entry)
	s.counter++

	if err := s.flush(); err != nil {
		return domain.QueuedMatch{}, err
	}
	return entry, nil
}

// SetCourt assigns or reassigns the entry's court. Several entries may point
// at the same unstarted court; only one can ever be promoted.
func (s *QueueStore) SetCourt(id int64, court string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Court = court
			return s.flush()
		}
	}
	return ErrQueueNotFound
}

func (s *QueueStore) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.flush()
		}
	}
	return ErrQueueNotFound
}

// Clear empties the queue and resets the id counter.
func (s *QueueStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.counter = 1
	return s.flush()
}

func (s *QueueStore) flush() error {
	if err := s.kv.Put(keyQueue, s.entries); err != nil {
		return err
	}
	return s.kv.Put(keyQueueCounter, s.counter)
}
