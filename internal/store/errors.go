package store

import "errors"

var (
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNameTaken      = errors.New("name must be unique")
	ErrPlayerNotFound = errors.New("player not found")
	ErrCourtNotFound  = errors.New("court not found")
	ErrCourtInUse     = errors.New("court is currently in use")
	ErrShuttleTaken   = errors.New("shuttle number must be unique")
	ErrQueueNotFound  = errors.New("queue entry not found")
	ErrDayNotFound    = errors.New("day not found")
)
