// Package model contains domain models passed between layers.
package model

import "time"

// PeriodEvent wraps a weekly performance submitted by clients.
// It is the payload carried through the queue to the workers.
type PeriodEvent struct {
	EventID     string // unique id for tracing a submission
	Performance PeriodPerformance
	ReceivedAt  time.Time
}
