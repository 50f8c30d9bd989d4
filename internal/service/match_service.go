package service

import (
	"fmt"

	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/rs/zerolog"
)

// MatchService orchestrates the match lifecycle across players, courts,
// shuttles and history. Every operation either completes fully or is rejected
// before any state changes.
type MatchService struct {
	logger   zerolog.Logger
	players  *store.PlayerStore
	courts   *store.CourtStore
	shuttles *store.ShuttleStore
	history  *store.HistoryStore
	queue    *store.QueueStore
	days     *store.DayStore
}

func NewMatchService(
	logger zerolog.Logger,
	players *store.PlayerStore,
	courts *store.CourtStore,
	shuttles *store.ShuttleStore,
	history *store.HistoryStore,
	queue *store.QueueStore,
	days *store.DayStore,
) *MatchService {
	return &MatchService{
		logger:   logger,
		players:  players,
		courts:   courts,
		shuttles: shuttles,
		history:  history,
		queue:    queue,
		days:     days,
	}
}

// StartMatch begins a match on an available court with exactly two players
// per side and a shuttle number not yet used this session.
func (s *MatchService) StartMatch(leftIDs, rightIDs []int64, courtName string, shuttleNumber int) error {
	if err := s.startOnCourt(leftIDs, rightIDs, courtName, shuttleNumber); err != nil {
		return err
	}

	s.logger.Info().
		Str("court", courtName).
		Int("shuttle", shuttleNumber).
		Msg("match started")
	return nil
}

// StartQueuedMatch promotes a queue entry onto its assigned court. On success
// the entry is removed from the queue.
func (s *MatchService) StartQueuedMatch(queueID int64, shuttleNumber int) error {
	entry, ok := s.queue.ByID(queueID)
	if !ok {
		return store.ErrQueueNotFound
	}
	if entry.Court == "" {
		return ErrNoCourtSelected
	}

	var leftIDs, rightIDs []int64
	for _, p := range entry.LeftSidePlayers {
		leftIDs = append(leftIDs, p.ID)
	}
	for _, p := range entry.RightSidePlayers {
		rightIDs = append(rightIDs, p.ID)
	}

	if err := s.startOnCourt(leftIDs, rightIDs, entry.Court, shuttleNumber); err != nil {
		return err
	}

	if err := s.queue.Remove(queueID); err != nil {
		return err
	}

	s.logger.Info().
		Int64("queue_id", queueID).
		Str("court", entry.Court).
		Msg("queued match started")
	return nil
}

func (s *MatchService) startOnCourt(leftIDs, rightIDs []int64, courtName string, shuttleNumber int) error {
	if len(leftIDs) != 2 || len(rightIDs) != 2 {
		return ErrWrongSideCount
	}
	if courtName == "" {
		return ErrNoCourtSelected
	}
	if shuttleNumber <= 0 {
		return ErrInvalidShuttle
	}

	court, ok := s.courts.ByName(courtName)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.Status != domain.CourtAvailable {
		return fmt.Errorf("court %q: %w", courtName, ErrCourtUnavailable)
	}

	ids := append(append([]int64(nil), leftIDs...), rightIDs...)
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("player %d: %w", id, ErrDuplicatePlayer)
		}
		seen[id] = true

		player, ok := s.players.ByID(id)
		if !ok {
			return store.ErrPlayerNotFound
		}
		if player.Status == domain.StatusPlaying {
			return fmt.Errorf("player %q: %w", player.Name, ErrPlayerBusy)
		}
	}

	dayID := s.activeDayID()

	// Registering the shuttle is the only mutation that can still fail; it
	// comes first so a duplicate number leaves everything untouched.
	if err := s.shuttles.Add(shuttleNumber, dayID); err != nil {
		return err
	}

	now := domain.NowMillis()
	match := &domain.MatchHistory{
		LeftSidePlayersID:  append([]int64(nil), leftIDs...),
		RightSidePlayersID: append([]int64(nil), rightIDs...),
		StartedTime:        &now,
		ShuttleNumber:      []int{shuttleNumber},
		WinnerPlayersID:    []int64{},
		LoserPlayersID:     []int64{},
		CourtName:          courtName,
		DayID:              dayID,
	}

	if err := s.courts.Mutate(courtName, func(c *domain.Court) {
		c.Status = domain.CourtUsing
		c.CurrentMatch = match
	}); err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.players.UpdateByID(id, domain.PlayerPatch{
			Status: utils.Ptr(domain.StatusPlaying),
		}); err != nil {
			return err
		}
	}
	return nil
}

// AddShuttleToMatch registers one more shuttle against the court's live match.
func (s *MatchService) AddShuttleToMatch(courtName string, shuttleNumber int) error {
	court, ok := s.courts.ByName(courtName)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.Status != domain.CourtUsing || court.CurrentMatch == nil {
		return ErrNoMatchInProgress
	}
	if shuttleNumber <= 0 {
		return ErrInvalidShuttle
	}

	if err := s.shuttles.Add(shuttleNumber, s.activeDayID()); err != nil {
		return err
	}

	return s.courts.Mutate(courtName, func(c *domain.Court) {
		if c.CurrentMatch != nil {
			c.CurrentMatch.ShuttleNumber = append(c.CurrentMatch.ShuttleNumber, shuttleNumber)
		}
	})
}

// EndMatch finalizes the court's live match: participants go back to "come"
// with a fresh waiting timestamp, the stamped match lands in the global log
// and in each participant's history, and the court is freed. Calling it on a
// court with no match is a no-op.
func (s *MatchService) EndMatch(courtName string) error {
	court, ok := s.courts.ByName(courtName)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.CurrentMatch == nil {
		return nil
	}

	match := *court.CurrentMatch
	now := domain.NowMillis()
	match.EndedTime = &now

	for _, id := range match.ParticipantIDs() {
		if err := s.players.MutateByID(id, func(p *domain.Player) {
			p.Status = domain.StatusCome
			p.WaitingSince = now
			p.History = append(p.History, match)
			if match.DayID != 0 {
				if p.MatchesPlayedByDay == nil {
					p.MatchesPlayedByDay = make(map[int64]int)
				}
				p.MatchesPlayedByDay[match.DayID]++
			}
		}); err != nil {
			return err
		}
	}

	if err := s.history.Record(match); err != nil {
		return err
	}

	if err := s.courts.Mutate(courtName, func(c *domain.Court) {
		c.Status = domain.CourtAvailable
		c.MatchCount++
		c.CurrentMatch = nil
		if match.DayID != 0 {
			if c.MatchCountByDay == nil {
				c.MatchCountByDay = make(map[int64]int)
			}
			c.MatchCountByDay[match.DayID]++
		}
	}); err != nil {
		return err
	}

	s.logger.Info().
		Str("court", courtName).
		Int64("duration_ms", now-utils.OrZero(match.StartedTime)).
		Msg("match ended")
	return nil
}

// OngoingMatches returns every court currently hosting a match.
func (s *MatchService) OngoingMatches() []domain.Court {
	var out []domain.Court
	for _, c := range s.courts.All() {
		if c.Status == domain.CourtUsing && c.CurrentMatch != nil {
			out = append(out, c)
		}
	}
	return out
}

func (s *MatchService) activeDayID() int64 {
	if day, ok := s.days.Active(); ok {
		return day.ID
	}
	return 0
}
