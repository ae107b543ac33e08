package model

// Strategy names the rule that produced a match link.
type Strategy string

const (
	StrategyExactNameTeamPosition Strategy = "EXACT_NAME_TEAM_POSITION"
	StrategyExactNamePosition     Strategy = "EXACT_NAME_POSITION"
	StrategyFuzzyNamePosition     Strategy = "FUZZY_NAME_POSITION"
)

// Strategies returns every strategy in the order the match engine applies them.
func Strategies() []Strategy {
	return []Strategy{
		StrategyExactNameTeamPosition,
		StrategyExactNamePosition,
		StrategyFuzzyNamePosition,
	}
}

// IdentityRecord is a single player identity as reported by one source.
// Empty TeamCode or PositionCode means unknown.
type IdentityRecord struct {
	SourceID     string `json:"source_id" validate:"required"`
	DisplayName  string `json:"display_name"`
	TeamCode     string `json:"team_code,omitempty"`
	PositionCode string `json:"position_code,omitempty"`
}

// NormalizedKey is the canonical comparison key derived from an IdentityRecord.
type NormalizedKey struct {
	Name     string
	Team     string
	Position string
}

// MatchLink pairs a primary record with a candidate record.
type MatchLink struct {
	PrimaryID   string   `json:"primary_id"`
	CandidateID string   `json:"candidate_id"`
	Confidence  float64  `json:"confidence"`
	Strategy    Strategy `json:"strategy"`
}
