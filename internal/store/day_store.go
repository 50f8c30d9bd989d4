package store

import (
	"sync"

	"badminton-manager/internal/domain"
)

// DayStore holds session day records. Day history is never wiped by starting
// a new day; only the reset flow clears it.
type DayStore struct {
	mu   sync.Mutex
	kv   *KV
	days []domain.SessionDay
}

func NewDayStore(kv *KV) *DayStore {
	return &DayStore{kv: kv}
}

func (s *DayStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = nil
	_, err := s.kv.Get(keyDays, &s.days)
	return err
}

func (s *DayStore) All() []domain.SessionDay {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SessionDay, len(s.days))
	copy(out, s.days)
	return out
}

func (s *DayStore) ByID(id int64) (domain.SessionDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.days {
		if d.ID == id {
			return d, true
		}
	}
	return domain.SessionDay{}, false
}

// Active returns the currently active day, if any.
func (s *DayStore) Active() (domain.SessionDay, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.days {
		if d.IsActive {
			return d, true
		}
	}
	return domain.SessionDay{}, false
}

// StartNew deactivates any active day and appends a fresh active one with the
// next id and sequential number.
func (s *DayStore) StartNew(date string, startTime int64) (domain.SessionDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for i := range s.days {
		s.days[i].IsActive = false
		if s.days[i].ID > maxID {
			maxID = s.days[i].ID
		}
	}

	day := domain.SessionDay{
		ID:        maxID + 1,
		Number:    len(s.days) + 1,
		Date:      date,
		StartTime: startTime,
		IsActive:  true,
	}
	s.days = append(s.days, day)

	if err := s.flush(); err != nil {
		return domain.SessionDay{}, err
	}
	return day, nil
}

// Mutate runs fn against the stored day and persists the result.
func (s *DayStore) Mutate(id int64, fn func(*domain.SessionDay)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.days {
		if s.days[i].ID == id {
			fn(&s.days[i])
			return s.flush()
		}
	}
	return ErrDayNotFound
}

func (s *DayStore) flush() error {
	return s.kv.Put(keyDays, s.days)
}
