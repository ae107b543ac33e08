package repository

import "time"

// Option applies a configuration option to the Ledger.
type Option func(*Ledger)

// WithStrictPeriods controls whether a period already counted for an
// identity is refused. Disabling it restores plain accumulation.
func WithStrictPeriods(strict bool) Option {
	return func(l *Ledger) {
		l.strict = strict
	}
}

// WithClock sets the time source used for UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		if clock != nil {
			l.clock = clock
		}
	}
}
