package match

import (
	"math"

	"github.com/okian/byline/internal/domain/model"
)

// Resolution is the outcome of one resolution pass.
type Resolution struct {
	PassID     string            `json:"pass_id"`
	Links      []model.MatchLink `json:"links"`
	Unresolved []string          `json:"unresolved"`
	Primaries  int               `json:"primaries"`
	Candidates int               `json:"candidates"`
}

// ByPrimary indexes links by primary id.
func (r Resolution) ByPrimary() map[string]model.MatchLink {
	m := make(map[string]model.MatchLink, len(r.Links))
	for _, l := range r.Links {
		m[l.PrimaryID] = l
	}
	return m
}

// ByCandidate indexes links by candidate id.
func (r Resolution) ByCandidate() map[string]model.MatchLink {
	m := make(map[string]model.MatchLink, len(r.Links))
	for _, l := range r.Links {
		m[l.CandidateID] = l
	}
	return m
}

// CountByStrategy returns the number of links produced by each strategy.
func (r Resolution) CountByStrategy() map[model.Strategy]int {
	m := make(map[model.Strategy]int, 3)
	for _, s := range model.Strategies() {
		m[s] = 0
	}
	for _, l := range r.Links {
		m[l.Strategy]++
	}
	return m
}

// MatchRate is the linked share of primaries as a percentage with two decimals.
func (r Resolution) MatchRate() float64 {
	if r.Primaries == 0 {
		return 0
	}
	return math.Round(float64(len(r.Links))/float64(r.Primaries)*100*100) / 100
}
