package service

import (
	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/rs/zerolog"
)

// QueueService manages the pending-match queue. Queue membership and player
// status are kept in sync: queued players leave the selectable pool, and any
// player stranded in "queue" status with no entry is healed back to "come".
type QueueService struct {
	logger  zerolog.Logger
	players *store.PlayerStore
	courts  *store.CourtStore
	queue   *store.QueueStore
}

func NewQueueService(
	logger zerolog.Logger,
	players *store.PlayerStore,
	courts *store.CourtStore,
	queue *store.QueueStore,
) *QueueService {
	return &QueueService{logger: logger, players: players, courts: courts, queue: queue}
}

// Enqueue stages a match of exactly two players per side, optionally with a
// court already chosen. The four players move to "queue" status.
func (s *QueueService) Enqueue(leftIDs, rightIDs []int64, court string) (domain.QueuedMatch, error) {
	if len(leftIDs) != 2 || len(rightIDs) != 2 {
		return domain.QueuedMatch{}, ErrWrongSideCount
	}
	if court != "" {
		if _, ok := s.courts.ByName(court); !ok {
			return domain.QueuedMatch{}, store.ErrCourtNotFound
		}
	}

	left, err := s.snapshot(leftIDs)
	if err != nil {
		return domain.QueuedMatch{}, err
	}
	right, err := s.snapshot(rightIDs)
	if err != nil {
		return domain.QueuedMatch{}, err
	}

	entry, err := s.queue.Add(left, right, court)
	if err != nil {
		return domain.QueuedMatch{}, err
	}

	for _, id := range entry.PlayerIDs() {
		if err := s.players.UpdateByID(id, domain.PlayerPatch{
			Status: utils.Ptr(domain.StatusQueue),
		}); err != nil {
			return domain.QueuedMatch{}, err
		}
	}

	s.logger.Info().Int64("queue_id", entry.ID).Str("court", court).Msg("match queued")
	return entry, nil
}

// AssignCourt sets or overwrites the entry's court. Other entries may point
// at the same court; promotion settles the contention.
func (s *QueueService) AssignCourt(queueID int64, court string) error {
	if _, ok := s.courts.ByName(court); !ok {
		return store.ErrCourtNotFound
	}
	return s.queue.SetCourt(queueID, court)
}

// Dequeue removes the entry and returns its players to "come", unless a
// player still appears in another entry. Their waiting clock is untouched:
// they never got to play.
func (s *QueueService) Dequeue(queueID int64) error {
	entry, ok := s.queue.ByID(queueID)
	if !ok {
		return store.ErrQueueNotFound
	}
	if err := s.queue.Remove(queueID); err != nil {
		return err
	}

	for _, id := range entry.PlayerIDs() {
		if s.queue.Contains(id) {
			continue
		}
		if err := s.releaseFromQueue(id); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties the queue, resets the id counter and releases every queued
// player.
func (s *QueueService) Clear() error {
	entries := s.queue.All()
	if err := s.queue.Clear(); err != nil {
		return err
	}

	for _, entry := range entries {
		for _, id := range entry.PlayerIDs() {
			if err := s.releaseFromQueue(id); err != nil {
				return err
			}
		}
	}

	s.logger.Info().Msg("match queue cleared")
	return nil
}

// Reconcile heals players stuck in "queue" status that no entry references,
// e.g. after a manual queue edit.
func (s *QueueService) Reconcile() error {
	for _, p := range s.players.All() {
		if p.Status != domain.StatusQueue {
			continue
		}
		if s.queue.Contains(p.ID) {
			continue
		}
		if err := s.releaseFromQueue(p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *QueueService) releaseFromQueue(playerID int64) error {
	player, ok := s.players.ByID(playerID)
	if !ok || player.Status != domain.StatusQueue {
		return nil
	}
	return s.players.UpdateByID(playerID, domain.PlayerPatch{
		Status: utils.Ptr(domain.StatusCome),
	})
}

func (s *QueueService) snapshot(ids []int64) ([]domain.Player, error) {
	out := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := s.players.ByID(id)
		if !ok {
			return nil, store.ErrPlayerNotFound
		}
		out = append(out, p)
	}
	return out, nil
}
