package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidLimit       = errors.New("invalid list limit")
	ErrDuplicatePeriod    = errors.New("period already applied")
	ErrSeasonLocked       = errors.New("season is locked by another process")
	ErrInvalidPerformance = errors.New("invalid performance")
)
