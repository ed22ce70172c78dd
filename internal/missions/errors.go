package missions

import "errors"

var (
	ErrNotFound          = errors.New("mission not found")
	ErrPersistence       = errors.New("persistence failure")
	ErrTooFewMissions    = errors.New("at least 2 missions required for comparison")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidSimulation = errors.New("invalid simulation result")
)

const errAnalysisNotCompleted = "Mission analysis not completed"
