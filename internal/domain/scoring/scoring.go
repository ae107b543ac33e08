// Package scoring computes fantasy points from a stat line under the
// standard, half-PPR and PPR conventions.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/byline/internal/domain/model"
)

// Weight names accepted by WithWeightsFromConfig.
const (
	WeightPassYards    = "pass_yards"
	WeightPassTD       = "pass_td"
	WeightInterception = "interception"
	WeightRushYards    = "rush_yards"
	WeightRushTD       = "rush_td"
	WeightRecYards     = "rec_yards"
	WeightRecTD        = "rec_td"
	WeightTwoPoint     = "two_point"
	WeightFumbleLost   = "fumble_lost"
	WeightHalfPPR      = "reception_half_ppr"
	WeightPPR          = "reception_ppr"
)

// Weights are the coefficients of the linear scoring formulas.
type Weights struct {
	PassYards    float64
	PassTD       float64
	Interception float64
	RushYards    float64
	RushTD       float64
	RecYards     float64
	RecTD        float64
	TwoPoint     float64
	FumbleLost   float64
	HalfPPRBonus float64
	PPRBonus     float64
}

// DefaultWeights returns the conventional fantasy scoring coefficients.
func DefaultWeights() Weights {
	return Weights{
		PassYards:    0.04,
		PassTD:       4,
		Interception: -2,
		RushYards:    0.1,
		RushTD:       6,
		RecYards:     0.1,
		RecTD:        6,
		TwoPoint:     2,
		FumbleLost:   -2,
		HalfPPRBonus: 0.5,
		PPRBonus:     1,
	}
}

func (w *Weights) set(name string, v float64) bool {
	switch name {
	case WeightPassYards:
		w.PassYards = v
	case WeightPassTD:
		w.PassTD = v
	case WeightInterception:
		w.Interception = v
	case WeightRushYards:
		w.RushYards = v
	case WeightRushTD:
		w.RushTD = v
	case WeightRecYards:
		w.RecYards = v
	case WeightRecTD:
		w.RecTD = v
	case WeightTwoPoint:
		w.TwoPoint = v
	case WeightFumbleLost:
		w.FumbleLost = v
	case WeightHalfPPR:
		w.HalfPPRBonus = v
	case WeightPPR:
		w.PPRBonus = v
	default:
		return false
	}
	return true
}

// Option applies a configuration option to the InMemoryScorer.
type Option func(*InMemoryScorer)

// WithWeights replaces all weights.
func WithWeights(w Weights) Option {
	return func(s *InMemoryScorer) {
		s.weights = w
	}
}

// WithWeightsFromConfig overrides individual weights by name.
// Unknown names and non-finite values are ignored.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(s *InMemoryScorer) {
		for name, v := range weights {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			s.weights.set(name, v)
		}
	}
}

// Scorer computes points for a stat line.
type Scorer interface {
	// Score computes points, honoring ctx for cancellation.
	Score(ctx context.Context, stats model.StatLine) (model.Points, error)
}

// InMemoryScorer implements Scorer with fixed linear formulas.
type InMemoryScorer struct {
	weights Weights
}

// NewInMemoryScorer creates a scorer with default weights and applies opts.
func NewInMemoryScorer(opts ...Option) *InMemoryScorer {
	s := &InMemoryScorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active weights.
func (s *InMemoryScorer) Weights() Weights {
	return s.weights
}

// Score computes points for stats.
func (s *InMemoryScorer) Score(ctx context.Context, stats model.StatLine) (model.Points, error) {
	if err := ctx.Err(); err != nil {
		return model.Points{}, fmt.Errorf("context cancelled: %w", err)
	}
	return Compute(stats, s.weights), nil
}

// Compute applies w to stats. Non-finite stat values contribute zero.
func Compute(stats model.StatLine, w Weights) model.Points {
	v := func(x float64) float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	}

	standard := v(stats.Passing.Yards)*w.PassYards +
		v(stats.Passing.Touchdowns)*w.PassTD +
		v(stats.Passing.Interceptions)*w.Interception +
		v(stats.Rushing.Yards)*w.RushYards +
		v(stats.Rushing.Touchdowns)*w.RushTD +
		v(stats.Receiving.Yards)*w.RecYards +
		v(stats.Receiving.Touchdowns)*w.RecTD +
		v(stats.Misc.TwoPointConversions)*w.TwoPoint +
		v(stats.Misc.FumblesLost)*w.FumbleLost
	receptions := v(stats.Receiving.Receptions)

	return model.Points{
		Standard: Round2(standard),
		HalfPPR:  Round2(standard + receptions*w.HalfPPRBonus),
		PPR:      Round2(standard + receptions*w.PPRBonus),
	}
}

// Round2 rounds x to two decimals, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
