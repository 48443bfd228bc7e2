package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrRosterUnavailable     = errors.New("roster unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrLoadFailed            = errors.New("fact load failed")
)
