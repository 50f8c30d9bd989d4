package service

import (
	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"
	"badminton-manager/internal/utils"

	"github.com/rs/zerolog"
)

// RosterService manages players, courts and shuttles outside of live matches.
type RosterService struct {
	logger   zerolog.Logger
	players  *store.PlayerStore
	courts   *store.CourtStore
	shuttles *store.ShuttleStore
	days     *store.DayStore
}

func NewRosterService(
	logger zerolog.Logger,
	players *store.PlayerStore,
	courts *store.CourtStore,
	shuttles *store.ShuttleStore,
	days *store.DayStore,
) *RosterService {
	return &RosterService{
		logger:   logger,
		players:  players,
		courts:   courts,
		shuttles: shuttles,
		days:     days,
	}
}

func (s *RosterService) AddPlayer(name string, rank domain.Rank) (domain.Player, error) {
	player, err := s.players.Add(name, rank)
	if err != nil {
		return domain.Player{}, err
	}
	s.logger.Info().Str("player", name).Str("rank", string(rank)).Msg("player added")
	return player, nil
}

// MarkCome flags the player as arrived (or re-arrived) and restarts their
// waiting clock. Already-present players are left untouched.
func (s *RosterService) MarkCome(name string) error {
	player, ok := s.players.ByName(name)
	if !ok {
		return store.ErrPlayerNotFound
	}
	if player.Status == domain.StatusCome {
		return nil
	}

	now := domain.NowMillis()
	return s.players.UpdateByName(name, domain.PlayerPatch{
		Status:       utils.Ptr(domain.StatusCome),
		WaitingSince: &now,
		ComeTime:     &now,
	})
}

func (s *RosterService) MarkPause(name string) error {
	return s.players.UpdateByName(name, domain.PlayerPatch{
		Status: utils.Ptr(domain.StatusPause),
	})
}

func (s *RosterService) MarkGoHome(name string) error {
	now := domain.NowMillis()
	return s.players.UpdateByName(name, domain.PlayerPatch{
		Status:     utils.Ptr(domain.StatusGoHome),
		GoHomeTime: &now,
	})
}

// TogglePaid flips the paid flag. Settling up sends the player home; undoing
// a payment brings them back to "come".
func (s *RosterService) TogglePaid(name string) error {
	player, ok := s.players.ByName(name)
	if !ok {
		return store.ErrPlayerNotFound
	}

	if player.IsPaid {
		now := domain.NowMillis()
		return s.players.UpdateByName(name, domain.PlayerPatch{
			IsPaid:       utils.Ptr(false),
			Status:       utils.Ptr(domain.StatusCome),
			WaitingSince: &now,
		})
	}

	now := domain.NowMillis()
	return s.players.UpdateByName(name, domain.PlayerPatch{
		IsPaid:     utils.Ptr(true),
		Status:     utils.Ptr(domain.StatusGoHome),
		GoHomeTime: &now,
	})
}

func (s *RosterService) UpdatePlayer(name string, patch domain.PlayerPatch) error {
	return s.players.UpdateByName(name, patch)
}

func (s *RosterService) UpdatePlayerByID(id int64, patch domain.PlayerPatch) error {
	return s.players.UpdateByID(id, patch)
}

// ResetAllPlayersStats sends everyone offline and clears per-session stats.
func (s *RosterService) ResetAllPlayersStats() error {
	if err := s.players.ResetAll(); err != nil {
		return err
	}
	s.logger.Info().Msg("all player stats reset")
	return nil
}

func (s *RosterService) AddCourt(name string) (domain.Court, error) {
	court, err := s.courts.Add(name)
	if err != nil {
		return domain.Court{}, err
	}
	s.logger.Info().Str("court", name).Msg("court added")
	return court, nil
}

// UpdateCourt applies a manual correction to a court. Status edits are
// rejected while a match is running there.
func (s *RosterService) UpdateCourt(name string, patch domain.CourtPatch) error {
	court, ok := s.courts.ByName(name)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.Status == domain.CourtUsing && patch.Status != nil {
		return store.ErrCourtInUse
	}
	return s.courts.Update(name, patch)
}

func (s *RosterService) DeleteCourt(name string) error {
	if err := s.courts.Delete(name); err != nil {
		return err
	}
	s.logger.Info().Str("court", name).Msg("court deleted")
	return nil
}

// PauseCourt suspends an idle court, closing its open usage interval.
// A court hosting a match cannot be paused.
func (s *RosterService) PauseCourt(name string) error {
	court, ok := s.courts.ByName(name)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.Status == domain.CourtUsing {
		return store.ErrCourtInUse
	}
	if court.Status == domain.CourtPause {
		return nil
	}

	return s.courts.Mutate(name, func(c *domain.Court) {
		c.Status = domain.CourtPause
		if n := len(c.CourtUsages); n > 0 && c.CourtUsages[n-1].EndTime == nil {
			now := domain.NowMillis()
			usage := &c.CourtUsages[n-1]
			usage.EndTime = &now
			total := int64(0)
			if usage.StartTime != nil {
				total = (now - *usage.StartTime) / 60000
			}
			if total < 0 {
				total = 0
			}
			usage.TotalMinutes = &total
		}
	})
}

// ResumeCourt reopens a paused court with a fresh usage interval.
func (s *RosterService) ResumeCourt(name string) error {
	court, ok := s.courts.ByName(name)
	if !ok {
		return store.ErrCourtNotFound
	}
	if court.Status != domain.CourtPause {
		return nil
	}

	return s.courts.Mutate(name, func(c *domain.Court) {
		c.Status = domain.CourtAvailable
		now := domain.NowMillis()
		c.CourtUsages = append(c.CourtUsages, domain.CourtUsage{StartTime: &now})
	})
}

// AddShuttle registers a shuttle number under the active day. Duplicates are
// rejected without changing the tally.
func (s *RosterService) AddShuttle(number int) error {
	if number <= 0 {
		return ErrInvalidShuttle
	}
	dayID := int64(0)
	if day, ok := s.days.Active(); ok {
		dayID = day.ID
	}
	return s.shuttles.Add(number, dayID)
}
