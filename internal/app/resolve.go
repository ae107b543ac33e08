package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/normalize"
)

// ResolveKeys maps weekly performances onto the player directory. A
// performance linked to a directory player takes the player id as identity
// key and inherits missing name, team and position from the directory.
// Unlinked performances keep their upstream key, or fall back to the
// normalized name; records with neither are dropped. The resolution lists
// unresolved records by player name.
func ResolveKeys(ctx context.Context, engine *match.Engine, players []model.Player, perfs []model.PeriodPerformance) ([]model.PeriodPerformance, match.Resolution) {
	primary := make([]model.IdentityRecord, len(perfs))
	for i, p := range perfs {
		primary[i] = model.IdentityRecord{
			SourceID:     strconv.Itoa(i),
			DisplayName:  p.PlayerName,
			TeamCode:     p.Team,
			PositionCode: p.Position,
		}
	}
	candidates := make([]model.IdentityRecord, len(players))
	byID := make(map[string]model.Player, len(players))
	for i, pl := range players {
		candidates[i] = pl.Identity()
		byID[pl.PlayerID] = pl
	}

	res := engine.Resolve(ctx, primary, candidates)
	links := res.ByPrimary()

	out := make([]model.PeriodPerformance, 0, len(perfs))
	for i, p := range perfs {
		if l, ok := links[strconv.Itoa(i)]; ok {
			pl := byID[l.CandidateID]
			p.IdentityKey = pl.PlayerID
			p.PlayerName = fill(p.PlayerName, pl.FullName)
			p.Team = fill(p.Team, pl.Team)
			p.Position = fill(p.Position, pl.Position)
			out = append(out, p)
			continue
		}
		if strings.TrimSpace(p.IdentityKey) == "" {
			p.IdentityKey = normalize.Name(p.PlayerName)
		}
		if p.IdentityKey != "" {
			out = append(out, p)
		}
	}

	for i, id := range res.Unresolved {
		if n, err := strconv.Atoi(id); err == nil && n < len(perfs) {
			res.Unresolved[i] = perfs[n].PlayerName
		}
	}
	return out, res
}

func fill(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
