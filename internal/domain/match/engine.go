// Package match links identity records from two sources.
//
// Three strategies run in order, each over the records the previous ones
// left unlinked:
//
//  1. exact normalized name, team and position (confidence 1.0)
//  2. exact normalized name and position, team ignored (confidence 0.9)
//  3. best fuzzy name score among same-position candidates, accepted when
//     the score is at least the threshold (confidence = score)
//
// Every primary and every candidate ends up in at most one link. Matching is
// greedy: primaries are visited in input order and, on ties, the first
// candidate in iteration order wins. The engine never mutates its inputs.
package match

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/normalize"
	"github.com/okian/byline/internal/domain/similarity"
)

// Default confidences and threshold.
const (
	ConfidenceExactNameTeamPosition = 1.0
	ConfidenceExactNamePosition     = 0.9
	DefaultFuzzyThreshold           = 0.75
)

// NameScorer scores two raw names in [0,1].
type NameScorer interface {
	Score(a, b string) float64
}

// Engine resolves identities across two sources.
type Engine struct {
	scorer    NameScorer
	threshold float64
	sorted    bool
	tracer    trace.Tracer
}

// New creates an engine with the default scorer and threshold.
func New(opts ...Option) *Engine {
	e := &Engine{
		scorer:    similarity.Scorer{},
		threshold: DefaultFuzzyThreshold,
		tracer:    otel.Tracer("byline/match"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Threshold returns the fuzzy acceptance threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

type entry struct {
	rec model.IdentityRecord
	key model.NormalizedKey
}

func prepare(records []model.IdentityRecord) []entry {
	out := make([]entry, len(records))
	for i, r := range records {
		out[i] = entry{rec: r, key: normalize.Key(r)}
	}
	return out
}

// pass holds the mutable bookkeeping of one Resolve call.
type pass struct {
	primary    []entry
	candidates []entry
	linked     []bool
	taken      []bool
	// ids guard the one-link-per-id rule when a source repeats an id.
	linkedIDs map[string]struct{}
	takenIDs  map[string]struct{}
	links     []model.MatchLink
}

func (p *pass) primaryOpen(i int) bool {
	if p.linked[i] {
		return false
	}
	_, dup := p.linkedIDs[p.primary[i].rec.SourceID]
	return !dup
}

func (p *pass) candidateOpen(j int) bool {
	if p.taken[j] {
		return false
	}
	_, dup := p.takenIDs[p.candidates[j].rec.SourceID]
	return !dup
}

func (p *pass) link(i, j int, confidence float64, s model.Strategy) {
	p.linked[i] = true
	p.taken[j] = true
	pid, cid := p.primary[i].rec.SourceID, p.candidates[j].rec.SourceID
	p.linkedIDs[pid] = struct{}{}
	p.takenIDs[cid] = struct{}{}
	p.links = append(p.links, model.MatchLink{
		PrimaryID:   pid,
		CandidateID: cid,
		Confidence:  confidence,
		Strategy:    s,
	})
}

// Resolve links primary records to candidate records.
func (e *Engine) Resolve(ctx context.Context, primary, candidates []model.IdentityRecord) Resolution {
	_, span := e.tracer.Start(ctx, "match.Resolve",
		trace.WithAttributes(
			attribute.Int("match.primaries", len(primary)),
			attribute.Int("match.candidates", len(candidates)),
			attribute.Float64("match.threshold", e.threshold),
		))
	defer span.End()

	if e.sorted {
		candidates = append([]model.IdentityRecord(nil), candidates...)
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].SourceID < candidates[j].SourceID
		})
	}

	p := &pass{
		primary:    prepare(primary),
		candidates: prepare(candidates),
		linked:     make([]bool, len(primary)),
		taken:      make([]bool, len(candidates)),
		linkedIDs:  make(map[string]struct{}, len(primary)),
		takenIDs:   make(map[string]struct{}, len(candidates)),
	}

	byName := make(map[string][]int, len(p.candidates))
	byPosition := make(map[string][]int)
	for j, c := range p.candidates {
		if c.key.Name == "" || c.key.Position == "" {
			continue
		}
		byName[c.key.Name] = append(byName[c.key.Name], j)
		byPosition[c.key.Position] = append(byPosition[c.key.Position], j)
	}

	e.exact(p, byName, true)
	e.exact(p, byName, false)
	e.fuzzy(p, byPosition)

	res := Resolution{
		PassID:     uuid.NewString(),
		Links:      p.links,
		Primaries:  len(primary),
		Candidates: len(candidates),
	}
	if res.Links == nil {
		res.Links = []model.MatchLink{}
	}
	res.Unresolved = make([]string, 0, len(primary)-len(p.links))
	reported := make(map[string]struct{})
	for i := range p.primary {
		id := p.primary[i].rec.SourceID
		if _, ok := reported[id]; ok || !p.primaryOpen(i) {
			continue
		}
		reported[id] = struct{}{}
		res.Unresolved = append(res.Unresolved, id)
	}

	counts := res.CountByStrategy()
	span.SetAttributes(
		attribute.String("match.pass_id", res.PassID),
		attribute.Int("match.links", len(res.Links)),
		attribute.Int("match.unresolved", len(res.Unresolved)),
		attribute.Int("match.exact_team", counts[model.StrategyExactNameTeamPosition]),
		attribute.Int("match.exact", counts[model.StrategyExactNamePosition]),
		attribute.Int("match.fuzzy", counts[model.StrategyFuzzyNamePosition]),
	)
	return res
}

// exact runs strategy 1 when withTeam is set and strategy 2 otherwise.
func (e *Engine) exact(p *pass, byName map[string][]int, withTeam bool) {
	strategy, confidence := model.StrategyExactNamePosition, ConfidenceExactNamePosition
	if withTeam {
		strategy, confidence = model.StrategyExactNameTeamPosition, ConfidenceExactNameTeamPosition
	}

	for i, pe := range p.primary {
		if !p.primaryOpen(i) || pe.key.Name == "" || pe.key.Position == "" {
			continue
		}
		if withTeam && pe.key.Team == "" {
			continue
		}
		for _, j := range byName[pe.key.Name] {
			if !p.candidateOpen(j) {
				continue
			}
			ck := p.candidates[j].key
			if ck.Position != pe.key.Position {
				continue
			}
			if withTeam && ck.Team != pe.key.Team {
				continue
			}
			p.link(i, j, confidence, strategy)
			break
		}
	}
}

// fuzzy runs strategy 3.
func (e *Engine) fuzzy(p *pass, byPosition map[string][]int) {
	for i, pe := range p.primary {
		if !p.primaryOpen(i) || pe.key.Name == "" || pe.key.Position == "" {
			continue
		}

		best, bestScore := -1, 0.0
		for _, j := range byPosition[pe.key.Position] {
			if !p.candidateOpen(j) {
				continue
			}
			s := e.scorer.Score(pe.rec.DisplayName, p.candidates[j].rec.DisplayName)
			if best < 0 || s > bestScore {
				best, bestScore = j, s
			}
		}
		if best >= 0 && bestScore >= e.threshold {
			p.link(i, best, bestScore, model.StrategyFuzzyNamePosition)
		}
	}
}
