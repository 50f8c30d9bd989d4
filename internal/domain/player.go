package domain

import "time"

// PlayerStatus tracks where a player is in the session lifecycle.
type PlayerStatus string

const (
	StatusCome    PlayerStatus = "come"
	StatusPlaying PlayerStatus = "playing"
	StatusPause   PlayerStatus = "pause"
	StatusQueue   PlayerStatus = "queue"
	StatusGoHome  PlayerStatus = "go home"
	StatusOffline PlayerStatus = "offline"
)

// Rank is a player's skill tier. It is used for grouping and filtering only,
// never for automated skill balancing.
type Rank string

const (
	RankBG      Rank = "bg"
	RankBGPlus  Rank = "bg+"
	RankNMinus  Rank = "n-"
	RankN       Rank = "n"
	RankNPlus   Rank = "n+"
	RankS       Rank = "s"
	RankSPlus   Rank = "s+"
	RankUnknown Rank = "unknow"
)

// RankPriority is the fixed display/grouping order for ranks.
var RankPriority = []Rank{RankBG, RankBGPlus, RankNMinus, RankN, RankNPlus, RankS, RankSPlus, RankUnknown}

// ParseRank maps free-form input onto a known rank, falling back to RankUnknown.
func ParseRank(s string) Rank {
	for _, r := range RankPriority {
		if string(r) == s {
			return r
		}
	}
	return RankUnknown
}

// Player is a session participant. IDs are monotonic and never reused; names
// are unique across the roster. All timestamps are unix milliseconds.
type Player struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Status       PlayerStatus   `json:"status"`
	Rank         Rank           `json:"rank"`
	IsPaid       bool           `json:"isPaid"`
	WaitingSince int64          `json:"waitingSince"`
	ComeTime     *int64         `json:"comeTime"`
	GoHomeTime   *int64         `json:"goHomeTime"`
	History      []MatchHistory `json:"history"`

	// MatchesPlayedByDay tallies completed matches per session day id.
	MatchesPlayedByDay map[int64]int `json:"matchesPlayedByDay,omitempty"`
}

// PlayerPatch is a partial update to a player. Nil fields are left untouched.
type PlayerPatch struct {
	Name         *string
	Rank         *Rank
	Status       *PlayerStatus
	IsPaid       *bool
	WaitingSince *int64
	ComeTime     *int64
	GoHomeTime   *int64
}

// Apply merges the patch into the player.
func (p *Player) Apply(patch PlayerPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Rank != nil {
		p.Rank = *patch.Rank
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.IsPaid != nil {
		p.IsPaid = *patch.IsPaid
	}
	if patch.WaitingSince != nil {
		p.WaitingSince = *patch.WaitingSince
	}
	if patch.ComeTime != nil {
		p.ComeTime = patch.ComeTime
	}
	if patch.GoHomeTime != nil {
		p.GoHomeTime = patch.GoHomeTime
	}
}

// NowMillis is the timestamp format used across all persisted entities.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
