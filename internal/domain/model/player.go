package model

import "time"

// Player is an entry of the player directory.
type Player struct {
	PlayerID         string    `json:"player_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Position         string    `json:"position"`
	Team             string    `json:"team"`
	Number           string    `json:"number,omitempty"`
	Age              int       `json:"age,omitempty"`
	Height           string    `json:"height,omitempty"`
	Weight           string    `json:"weight,omitempty"`
	College          string    `json:"college,omitempty"`
	YearsExp         int       `json:"years_exp,omitempty"`
	Status           string    `json:"status"`
	InjuryStatus     string    `json:"injury_status,omitempty"`
	FantasyPositions []string  `json:"fantasy_positions,omitempty"`
	ESPNID           string    `json:"espn_id,omitempty"`
	YahooID          string    `json:"yahoo_id,omitempty"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Identity returns the identity record for the player.
func (p Player) Identity() IdentityRecord {
	return IdentityRecord{
		SourceID:     p.PlayerID,
		DisplayName:  p.FullName,
		TeamCode:     p.Team,
		PositionCode: p.Position,
	}
}

// ADPStat is the average draft position data for one format.
type ADPStat struct {
	ADP          float64 `json:"adp"`
	ADPFormatted string  `json:"adp_formatted"`
	TimesDrafted int     `json:"times_drafted"`
	High         int     `json:"high"`
	Low          int     `json:"low"`
	Stdev        float64 `json:"stdev"`
}

// DraftRanking is a player as listed by the draft ranking source.
// ADP is keyed by format name, e.g. "ppr_12team".
type DraftRanking struct {
	RankingID string             `json:"ranking_id"`
	Name      string             `json:"name"`
	Position  string             `json:"position"`
	Team      string             `json:"team"`
	ByeWeek   int                `json:"bye_week,omitempty"`
	ADP       map[string]ADPStat `json:"adp_data"`
}

// Identity returns the identity record for the ranking.
func (r DraftRanking) Identity() IdentityRecord {
	return IdentityRecord{
		SourceID:     r.RankingID,
		DisplayName:  r.Name,
		TeamCode:     r.Team,
		PositionCode: r.Position,
	}
}

// IntegratedPlayer is a directory player enriched with draft data.
type IntegratedPlayer struct {
	Player
	ByeWeek         int                `json:"bye_week,omitempty"`
	ADP             map[string]ADPStat `json:"adp_data,omitempty"`
	MatchConfidence float64            `json:"match_confidence,omitempty"`
	MatchStrategy   Strategy           `json:"match_strategy,omitempty"`
}

// IntegrationMeta describes an integration run.
type IntegrationMeta struct {
	Season        int       `json:"season"`
	PassID        string    `json:"pass_id"`
	TotalPlayers  int       `json:"total_players"`
	TotalRankings int       `json:"total_rankings"`
	Matched       int       `json:"matched"`
	MatchRate     float64   `json:"match_rate"`
	CreatedAt     time.Time `json:"created_at"`
}

// IntegratedDatabase is the output of merging the directory with draft data.
type IntegratedDatabase struct {
	Meta    IntegrationMeta             `json:"metadata"`
	Players map[string]IntegratedPlayer `json:"players"`
}
