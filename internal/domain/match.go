package domain

// MatchHistory records one match, live or completed. It links players by id
// and shuttles by number but owns neither. WinnerPlayersID, LoserPlayersID and
// SetResult are reserved for a future result-entry feature; no current flow
// populates them.
type MatchHistory struct {
	LeftSidePlayersID  []int64 `json:"leftSidePlayersID"`
	RightSidePlayersID []int64 `json:"rightSidePlayersID"`
	StartedTime        *int64  `json:"startedTime"`
	EndedTime          *int64  `json:"endedTime"`
	WinnerPlayersID    []int64 `json:"WinnerPlayersID"`
	LoserPlayersID     []int64 `json:"LoserPlayersID"`
	SetResult          bool    `json:"SetResult"`
	ShuttleNumber      []int   `json:"ShuttleNumber"`

	CourtName string `json:"courtName,omitempty"`
	DayID     int64  `json:"dayId,omitempty"`
}

// ParticipantIDs returns both side lists as one slice, left side first.
func (m *MatchHistory) ParticipantIDs() []int64 {
	ids := make([]int64, 0, len(m.LeftSidePlayersID)+len(m.RightSidePlayersID))
	ids = append(ids, m.LeftSidePlayersID...)
	ids = append(ids, m.RightSidePlayersID...)
	return ids
}

// Involves reports whether the given player took part in the match.
func (m *MatchHistory) Involves(playerID int64) bool {
	for _, id := range m.ParticipantIDs() {
		if id == playerID {
			return true
		}
	}
	return false
}

// DurationMinutes returns the match length in whole minutes, or ok=false when
// either timestamp is missing.
func (m *MatchHistory) DurationMinutes() (int64, bool) {
	if m.StartedTime == nil || m.EndedTime == nil {
		return 0, false
	}
	return (*m.EndedTime - *m.StartedTime) / 60000, true
}

// QueuedMatch is a staged match waiting for a court and a start. Player
// snapshots are embedded so the queue survives roster edits; the court is
// optional until assignment.
type QueuedMatch struct {
	ID               int64    `json:"id"`
	LeftSidePlayers  []Player `json:"leftSidePlayers"`
	RightSidePlayers []Player `json:"rightSidePlayers"`
	Court            string   `json:"court,omitempty"`
}

// PlayerIDs returns the ids of all four queued players.
func (q *QueuedMatch) PlayerIDs() []int64 {
	ids := make([]int64, 0, len(q.LeftSidePlayers)+len(q.RightSidePlayers))
	for _, p := range q.LeftSidePlayers {
		ids = append(ids, p.ID)
	}
	for _, p := range q.RightSidePlayers {
		ids = append(ids, p.ID)
	}
	return ids
}
