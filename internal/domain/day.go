package domain

// SessionDay is one day of play. At most one day is active at a time.
type SessionDay struct {
	ID        int64  `json:"id"`
	Number    int    `json:"number"`
	Date      string `json:"date"`
	StartTime int64  `json:"startTime"`
	EndTime   *int64 `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}
