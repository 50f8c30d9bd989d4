package store

import (
	"fmt"
	"sync"

	"badminton-manager/internal/domain"
)

// PlayerStore holds the roster in memory and snapshots it to the KV store
// after every mutation, together with the last allocated id.
type PlayerStore struct {
	mu      sync.Mutex
	kv      *KV
	players []domain.Player
	lastID  int64
}

func NewPlayerStore(kv *KV) *PlayerStore {
	return &PlayerStore{kv: kv}
}

// Load hydrates the roster from the KV store. Call once at startup.
func (s *PlayerStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = nil
	s.lastID = 0
	if _, err := s.kv.Get(keyPlayers, &s.players); err != nil {
		return err
	}
	if _, err := s.kv.Get(keyLastPlayerID, &s.lastID); err != nil {
		return err
	}
	return nil
}

// All returns a copy of the roster.
func (s *PlayerStore) All() []domain.Player {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Player, len(s.players))
	copy(out, s.players)
	return out
}

func (s *PlayerStore) ByID(id int64) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Player{}, false
}

func (s *PlayerStore) ByName(name string) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if p.Name == name {
			return p, true
		}
	}
	return domain.Player{}, false
}

// NameByID returns the player's name, or "" when the id is unknown.
func (s *PlayerStore) NameByID(id int64) string {
	p, ok := s.ByID(id)
	if !ok {
		return ""
	}
	return p.Name
}

// Add creates a player with the next monotonic id and status "come".
func (s *PlayerStore) Add(name string, rank domain.Rank) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return domain.Player{}, ErrEmptyName
	}
	for _, p := range s.players {
		if p.Name == name {
			return domain.Player{}, fmt.Errorf("player %q: %w", name, ErrNameTaken)
		}
	}

	now := domain.NowMillis()
	player := domain.Player{
		ID:           s.lastID + 1,
		Name:         name,
		Status:       domain.StatusCome,
		Rank:         rank,
		IsPaid:       false,
		WaitingSince: now,
		ComeTime:     &now,
		History:      []domain.MatchHistory{},
	}
	s.players = append(s.players, player)
	s.lastID++

	if err := s.flush(); err != nil {
		return domain.Player{}, err
	}
	return player, nil
}

// UpdateByName applies a partial update to the named player.
func (s *PlayerStore) UpdateByName(name string, patch domain.PlayerPatch) error {
	return s.mutate(func(p *domain.Player) bool { return p.Name == name }, func(p *domain.Player) {
		p.Apply(patch)
	})
}

// UpdateByID applies a partial update to the player with the given id.
func (s *PlayerStore) UpdateByID(id int64, patch domain.PlayerPatch) error {
	return s.mutate(func(p *domain.Player) bool { return p.ID == id }, func(p *domain.Player) {
		p.Apply(patch)
	})
}

// MutateByID runs fn against the stored player and persists the result.
func (s *PlayerStore) MutateByID(id int64, fn func(*domain.Player)) error {
	return s.mutate(func(p *domain.Player) bool { return p.ID == id }, fn)
}

func (s *PlayerStore) mutate(match func(*domain.Player) bool, fn func(*domain.Player)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.players {
		if match(&s.players[i]) {
			fn(&s.players[i])
			return s.flush()
		}
	}
	return ErrPlayerNotFound
}

// ResetAll sets every player offline and clears per-session stats, keeping
// id, name, rank and paid state.
func (s *PlayerStore) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := domain.NowMillis()
	for i := range s.players {
		s.players[i].Status = domain.StatusOffline
		s.players[i].WaitingSince = now
		s.players[i].ComeTime = nil
		s.players[i].GoHomeTime = nil
		s.players[i].History = []domain.MatchHistory{}
	}
	return s.flush()
}

func (s *PlayerStore) flush() error {
	if err := s.kv.Put(keyPlayers, s.players); err != nil {
		return err
	}
	return s.kv.Put(keyLastPlayerID, s.lastID)
}
