package service

import "errors"

// Validation rejections. Each one means the operation was abandoned with no
// state change.
var (
	ErrNotEnoughPlayers  = errors.New("must have at least 4 available players")
	ErrNoRanksSelected   = errors.New("select at least one rank to filter players")
	ErrWrongSideCount    = errors.New("select 2 players per side")
	ErrDuplicatePlayer   = errors.New("player listed on more than one slot")
	ErrPlayerBusy        = errors.New("player is already in a match")
	ErrNoCourtSelected   = errors.New("select a court for this match")
	ErrCourtUnavailable  = errors.New("court is not available")
	ErrNoMatchInProgress = errors.New("no match in progress on this court")
	ErrInvalidShuttle    = errors.New("enter a valid shuttle number")
	ErrNoActiveDay       = errors.New("there is no active day")
)
