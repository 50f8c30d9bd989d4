package store

import (
	"fmt"
	"sync"

	"badminton-manager/internal/domain"
)

// CourtStore holds the courts in memory and snapshots the whole collection
// after every mutation.
type CourtStore struct {
	mu     sync.Mutex
	kv     *KV
	courts []domain.Court
}

func NewCourtStore(kv *KV) *CourtStore {
	return &CourtStore{kv: kv}
}

func (s *CourtStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courts = nil
	_, err := s.kv.Get(keyCourts, &s.courts)
	return err
}

func (s *CourtStore) All() []domain.Court {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Court, len(s.courts))
	copy(out, s.courts)
	return out
}

func (s *CourtStore) ByName(name string) (domain.Court, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courts {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Court{}, false
}

// Add creates an available court with one open usage interval.
func (s *CourtStore) Add(name string) (domain.Court, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return domain.Court{}, ErrEmptyName
	}
	for _, c := range s.courts {
		if c.Name == name {
			return domain.Court{}, fmt.Errorf("court %q: %w", name, ErrNameTaken)
		}
	}

	now := domain.NowMillis()
	court := domain.Court{
		Name:   name,
		Status: domain.CourtAvailable,
		CourtUsages: []domain.CourtUsage{
			{StartTime: &now},
		},
	}
	s.courts = append(s.courts, court)

	if err := s.flush(); err != nil {
		return domain.Court{}, err
	}
	return court, nil
}

// Update applies a partial update to the named court.
func (s *CourtStore) Update(name string, patch domain.CourtPatch) error {
	return s.Mutate(name, func(c *domain.Court) {
		c.Apply(patch)
	})
}

// Mutate runs fn against the stored court and persists the result.
func (s *CourtStore) Mutate(name string, fn func(*domain.Court)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.courts {
		if s.courts[i].Name == name {
			fn(&s.courts[i])
			return s.flush()
		}
	}
	return ErrCourtNotFound
}

// Delete removes the named court. Courts hosting a match cannot be deleted.
func (s *CourtStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.courts {
		if s.courts[i].Name != name {
			continue
		}
		if s.courts[i].Status == domain.CourtUsing {
			return ErrCourtInUse
		}
		s.courts = append(s.courts[:i], s.courts[i+1:]...)
		return s.flush()
	}
	return ErrCourtNotFound
}

func (s *CourtStore) flush() error {
	return s.kv.Put(keyCourts, s.courts)
}
