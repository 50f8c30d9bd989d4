package service

import (
	"time"

	"badminton-manager/internal/domain"
	"badminton-manager/internal/store"

	"github.com/rs/zerolog"
)

// DayService wraps the session in start/end-of-day semantics and produces
// per-day exports and summaries.
type DayService struct {
	logger   zerolog.Logger
	days     *store.DayStore
	players  *store.PlayerStore
	courts   *store.CourtStore
	shuttles *store.ShuttleStore
	history  *store.HistoryStore
	queueSvc *QueueService
}

func NewDayService(
	logger zerolog.Logger,
	days *store.DayStore,
	players *store.PlayerStore,
	courts *store.CourtStore,
	shuttles *store.ShuttleStore,
	history *store.HistoryStore,
	queueSvc *QueueService,
) *DayService {
	return &DayService{
		logger:   logger,
		days:     days,
		players:  players,
		courts:   courts,
		shuttles: shuttles,
		history:  history,
		queueSvc: queueSvc,
	}
}

// StartNewDay deactivates any running day and opens a fresh one. Per-day
// counters are keyed by day id, so the new day's tallies start at zero
// without wiping earlier days.
func (s *DayService) StartNewDay() (domain.SessionDay, error) {
	now := domain.NowMillis()
	day, err := s.days.StartNew(time.Now().Format("2006-01-02"), now)
	if err != nil {
		return domain.SessionDay{}, err
	}

	s.logger.Info().Int64("day_id", day.ID).Int("number", day.Number).Msg("new day started")
	return day, nil
}

// EndCurrentDay stamps the active day closed and clears the live match queue.
// Match history is untouched.
func (s *DayService) EndCurrentDay() (domain.SessionDay, error) {
	day, ok := s.days.Active()
	if !ok {
		return domain.SessionDay{}, ErrNoActiveDay
	}

	now := domain.NowMillis()
	if err := s.days.Mutate(day.ID, func(d *domain.SessionDay) {
		d.EndTime = &now
		d.IsActive = false
	}); err != nil {
		return domain.SessionDay{}, err
	}

	if err := s.queueSvc.Clear(); err != nil {
		return domain.SessionDay{}, err
	}

	day.EndTime = &now
	day.IsActive = false
	s.logger.Info().Int64("day_id", day.ID).Msg("day ended")
	return day, nil
}

// DayExport is the downloadable snapshot for one day.
type DayExport struct {
	Day     domain.SessionDay     `json:"day"`
	Matches []domain.MatchHistory `json:"matches"`
}

// ExportDay returns the day's snapshot, or nil when the day is unknown.
// Callers must nil-check.
func (s *DayService) ExportDay(dayID int64) *DayExport {
	day, ok := s.days.ByID(dayID)
	if !ok {
		return nil
	}
	matches := s.history.ForDay(dayID)
	if matches == nil {
		matches = []domain.MatchHistory{}
	}
	return &DayExport{Day: day, Matches: matches}
}

// PlayerDayStats is one player's tallies for a day.
type PlayerDayStats struct {
	MatchesPlayed int `json:"matchesPlayed"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
}

// CourtDayStats is one court's tallies for a day.
type CourtDayStats struct {
	MatchesPlayed     int   `json:"matchesPlayed"`
	TotalUsageMinutes int64 `json:"totalUsageMinutes"`
}

// DaySummary aggregates a day's activity for reporting.
type DaySummary struct {
	DayID               int64                    `json:"dayId"`
	TotalMatches        int                      `json:"totalMatches"`
	ShuttlesUsed        int                      `json:"shuttlesUsed"`
	TotalPlayingMinutes int64                    `json:"totalPlayingMinutes"`
	PlayerStats         map[int64]PlayerDayStats `json:"playerStats"`
	CourtStats          map[string]CourtDayStats `json:"courtStats"`
}

// A match with unknown duration counts as half an hour in the totals.
const fallbackMatchMinutes = 30

// SummarizeDay derives the day's report from the stores. Returns nil for an
// unknown day.
func (s *DayService) SummarizeDay(dayID int64) *DaySummary {
	day, ok := s.days.ByID(dayID)
	if !ok {
		return nil
	}

	matches := s.history.ForDay(day.ID)

	summary := &DaySummary{
		DayID:        day.ID,
		TotalMatches: len(matches),
		ShuttlesUsed: s.shuttles.CountForDay(day.ID),
		PlayerStats:  make(map[int64]PlayerDayStats),
		CourtStats:   make(map[string]CourtDayStats),
	}

	for _, m := range matches {
		if minutes, ok := m.DurationMinutes(); ok {
			summary.TotalPlayingMinutes += minutes
		} else {
			summary.TotalPlayingMinutes += fallbackMatchMinutes
		}
	}

	for _, p := range s.players.All() {
		played := p.MatchesPlayedByDay[day.ID]
		if played == 0 {
			continue
		}
		wins := 0
		for _, m := range matches {
			for _, id := range m.WinnerPlayersID {
				if id == p.ID {
					wins++
					break
				}
			}
		}
		summary.PlayerStats[p.ID] = PlayerDayStats{
			MatchesPlayed: played,
			Wins:          wins,
			Losses:        played - wins,
		}
	}

	for _, c := range s.courts.All() {
		played := c.MatchCountByDay[day.ID]
		if played == 0 {
			continue
		}
		var usage int64
		for _, m := range matches {
			if m.CourtName != c.Name {
				continue
			}
			if minutes, ok := m.DurationMinutes(); ok {
				usage += minutes
			} else {
				usage += fallbackMatchMinutes
			}
		}
		summary.CourtStats[c.Name] = CourtDayStats{
			MatchesPlayed:     played,
			TotalUsageMinutes: usage,
		}
	}

	return summary
}
