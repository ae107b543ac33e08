// Package enrich merges the player directory with draft ranking data using
// the links of a resolution pass.
package enrich

import (
	"time"

	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/scoring"
)

// Integrate attaches ranking data to every linked directory player.
// Directory players are the primary side of res; rankings are the candidates.
func Integrate(season int, players []model.Player, rankings []model.DraftRanking, res match.Resolution, now time.Time) model.IntegratedDatabase {
	byRanking := make(map[string]model.DraftRanking, len(rankings))
	for _, r := range rankings {
		byRanking[r.RankingID] = r
	}
	links := res.ByPrimary()

	db := model.IntegratedDatabase{
		Players: make(map[string]model.IntegratedPlayer, len(players)),
	}
	matched := 0
	for _, p := range players {
		ip := model.IntegratedPlayer{Player: p}
		if l, ok := links[p.PlayerID]; ok {
			if r, ok := byRanking[l.CandidateID]; ok {
				ip.ByeWeek = r.ByeWeek
				ip.ADP = r.ADP
				ip.MatchConfidence = l.Confidence
				ip.MatchStrategy = l.Strategy
				matched++
			}
		}
		db.Players[p.PlayerID] = ip
	}

	db.Meta = model.IntegrationMeta{
		Season:        season,
		PassID:        res.PassID,
		TotalPlayers:  len(players),
		TotalRankings: len(rankings),
		Matched:       matched,
		MatchRate:     rate(matched, len(rankings)),
		CreatedAt:     now.UTC(),
	}
	return db
}

// rate is the share of rankings matched, as a percentage.
func rate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return scoring.Round2(float64(matched) / float64(total) * 100)
}
