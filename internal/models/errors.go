package models

import "errors"

// Custom errors
var (
	ErrInsufficientData = errors.New("not enough matchup rows to train a model")
	ErrNoSnapshot       = errors.New("team has no prior game snapshot")
	ErrUnknownTeam      = errors.New("team name could not be resolved")
	ErrEmptyTimeline    = errors.New("timeline contains no games")
)
