package domain

// CourtStatus tracks whether a court can host a match.
type CourtStatus string

const (
	CourtAvailable CourtStatus = "available"
	CourtUsing     CourtStatus = "using"
	CourtPause     CourtStatus = "pause"
)

// CourtUsage is one interval during which the court was open for play.
type CourtUsage struct {
	StartTime    *int64 `json:"startTime"`
	EndTime      *int64 `json:"endTime"`
	TotalMinutes *int64 `json:"totalMinutes"`
}

// Court is a physical court. CurrentMatch is non-nil exactly while the court
// status is "using".
type Court struct {
	Name         string        `json:"name"`
	Status       CourtStatus   `json:"status"`
	MatchCount   int           `json:"matchCount"`
	CourtUsages  []CourtUsage  `json:"courtUsages"`
	CurrentMatch *MatchHistory `json:"currentMatch"`

	// MatchCountByDay tallies completed matches per session day id.
	MatchCountByDay map[int64]int `json:"matchCountByDay,omitempty"`
}

// CourtPatch is a partial update to a court. Nil fields are left untouched.
type CourtPatch struct {
	Status     *CourtStatus
	MatchCount *int
}

func (c *Court) Apply(patch CourtPatch) {
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.MatchCount != nil {
		c.MatchCount = *patch.MatchCount
	}
}

// Shuttle is a usage tally for one shuttlecock. Numbers are unique across the
// whole session, not per match.
type Shuttle struct {
	Number int   `json:"number"`
	DayID  int64 `json:"dayId,omitempty"`
}
