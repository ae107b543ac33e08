package match

import "go.opentelemetry.io/otel/trace"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer replaces the name scorer used by the fuzzy strategy.
func WithScorer(s NameScorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithFuzzyThreshold sets the minimum fuzzy score accepted as a match.
// Values outside (0,1] are ignored.
func WithFuzzyThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 && threshold <= 1 {
			e.threshold = threshold
		}
	}
}

// WithSortedCandidates makes the engine iterate candidates ordered by SourceID
// instead of input order, so ties break the same way on every run.
func WithSortedCandidates() Option {
	return func(e *Engine) {
		e.sorted = true
	}
}

// WithTracer sets the tracer used for resolution spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}
