package model

import "time"

// Convention is a fantasy scoring convention.
type Convention string

const (
	ConventionStandard Convention = "standard"
	ConventionHalfPPR  Convention = "half_ppr"
	ConventionPPR      Convention = "ppr"
)

// Conventions lists every supported scoring convention.
func Conventions() []Convention {
	return []Convention{ConventionStandard, ConventionHalfPPR, ConventionPPR}
}

// Passing holds passing stats for one period.
type Passing struct {
	Attempts      float64 `json:"attempts"`
	Completions   float64 `json:"completions"`
	Yards         float64 `json:"yards"`
	Touchdowns    float64 `json:"touchdowns"`
	Interceptions float64 `json:"interceptions"`
}

// Rushing holds rushing stats for one period.
type Rushing struct {
	Carries    float64 `json:"carries"`
	Yards      float64 `json:"yards"`
	Touchdowns float64 `json:"touchdowns"`
}

// Receiving holds receiving stats for one period.
type Receiving struct {
	Receptions float64 `json:"receptions"`
	Targets    float64 `json:"targets"`
	Yards      float64 `json:"yards"`
	Touchdowns float64 `json:"touchdowns"`
}

// Misc holds stats that do not belong to a single phase of play.
type Misc struct {
	FumblesLost         float64 `json:"fumbles_lost"`
	TwoPointConversions float64 `json:"two_point_conversions"`
}

// StatLine is the full set of numeric stats for a player.
// Absent values decode to zero.
type StatLine struct {
	Passing   Passing   `json:"passing"`
	Rushing   Rushing   `json:"rushing"`
	Receiving Receiving `json:"receiving"`
	Misc      Misc      `json:"misc"`
}

// Fields returns pointers to every numeric stat, in a stable order.
func (s *StatLine) Fields() []*float64 {
	return []*float64{
		&s.Passing.Attempts,
		&s.Passing.Completions,
		&s.Passing.Yards,
		&s.Passing.Touchdowns,
		&s.Passing.Interceptions,
		&s.Rushing.Carries,
		&s.Rushing.Yards,
		&s.Rushing.Touchdowns,
		&s.Receiving.Receptions,
		&s.Receiving.Targets,
		&s.Receiving.Yards,
		&s.Receiving.Touchdowns,
		&s.Misc.FumblesLost,
		&s.Misc.TwoPointConversions,
	}
}

// Points holds fantasy points under each scoring convention.
type Points struct {
	Standard float64 `json:"standard"`
	HalfPPR  float64 `json:"half_ppr"`
	PPR      float64 `json:"ppr"`
}

// Get returns the value for the given convention, or 0 if unknown.
func (p Points) Get(c Convention) float64 {
	switch c {
	case ConventionStandard:
		return p.Standard
	case ConventionHalfPPR:
		return p.HalfPPR
	case ConventionPPR:
		return p.PPR
	default:
		return 0
	}
}

// Set stores v under the given convention. Unknown conventions are ignored.
func (p *Points) Set(c Convention, v float64) {
	switch c {
	case ConventionStandard:
		p.Standard = v
	case ConventionHalfPPR:
		p.HalfPPR = v
	case ConventionPPR:
		p.PPR = v
	}
}

// PeriodPerformance is one player's output for one period (week).
// A nil Points means the points have not been computed yet.
type PeriodPerformance struct {
	IdentityKey string   `json:"identity_key" validate:"required"`
	PlayerName  string   `json:"player_name"`
	Position    string   `json:"position"`
	Team        string   `json:"team"`
	Season      int      `json:"season" validate:"gte=0"`
	Period      int      `json:"period" validate:"gte=1,lte=25"`
	Stats       StatLine `json:"stats"`
	Points      *Points  `json:"points,omitempty"`
}

// SeasonTotals is the running aggregate for one identity.
type SeasonTotals struct {
	IdentityKey  string    `json:"identity_key"`
	PlayerName   string    `json:"player_name"`
	Position     string    `json:"position"`
	Team         string    `json:"team"`
	GamesCounted int       `json:"games_counted"`
	Stats        StatLine  `json:"stats"`
	Points       Points    `json:"points"`
	Averages     Points    `json:"averages"`
	Periods      []int     `json:"periods"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy of t.
func (t *SeasonTotals) Clone() *SeasonTotals {
	if t == nil {
		return nil
	}
	c := *t
	c.Periods = append([]int(nil), t.Periods...)
	return &c
}
