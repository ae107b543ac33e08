package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidPeriod  = errors.New("invalid period performance")
	ErrSeasonMismatch = errors.New("performance belongs to another season")
	ErrBackpressure   = errors.New("queue full")
)
