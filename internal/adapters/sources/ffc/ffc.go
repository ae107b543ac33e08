// Package ffc fetches average draft position data from Fantasy Football
// Calculator across scoring formats and league sizes.
package ffc

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/okian/byline/internal/adapters/sources"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

// SourceName labels this source in logs and metrics.
const SourceName = "ffc"

// DefaultPrimary is the format whose player list defines the rankings.
const DefaultPrimary = "ppr_12team"

const statusSuccess = "Success"

// Entry is one player row of an ADP response.
type Entry struct {
	PlayerID     sources.FlexString `json:"player_id"`
	Name         string             `json:"name"`
	Position     string             `json:"position"`
	Team         string             `json:"team"`
	Bye          sources.FlexInt    `json:"bye"`
	ADP          float64            `json:"adp"`
	ADPFormatted string             `json:"adp_formatted"`
	TimesDrafted int                `json:"times_drafted"`
	High         int                `json:"high"`
	Low          int                `json:"low"`
	Stdev        float64            `json:"stdev"`
}

type response struct {
	Status  string  `json:"status"`
	Players []Entry `json:"players"`
}

// Client fetches ADP lists.
type Client struct {
	api *sources.Client
}

// New creates an ADP client for baseURL. Pace requests with
// sources.WithRequestInterval.
func New(baseURL string, opts ...sources.Option) *Client {
	return &Client{api: sources.NewClient(SourceName, baseURL, opts...)}
}

// FormatKey names one format and league size combination, e.g. "ppr_12team".
func FormatKey(format string, teams int) string {
	return format + "_" + strconv.Itoa(teams) + "team"
}

// FetchADP collects every format and league size combination. Failed or
// unsuccessful combinations are logged and left out of the result.
func (c *Client) FetchADP(ctx context.Context, season int, formats []string, leagueSizes []int) map[string][]Entry {
	out := make(map[string][]Entry, len(formats)*len(leagueSizes))
	log := c.api.Logger()

	for _, format := range formats {
		for _, teams := range leagueSizes {
			if ctx.Err() != nil {
				return out
			}
			key := FormatKey(format, teams)
			q := url.Values{}
			q.Set("teams", strconv.Itoa(teams))
			q.Set("year", strconv.Itoa(season))

			var resp response
			if err := c.api.GetJSON(ctx, "/"+url.PathEscape(format), q, &resp); err != nil {
				log.Warn(ctx, "adp request failed", logger.String("format", key), logger.Error(err))
				continue
			}
			if resp.Status != statusSuccess {
				metrics.RecordSourceRequest(SourceName, metrics.OutcomeSkipped, 0)
				log.Warn(ctx, "adp request unsuccessful",
					logger.String("format", key), logger.String("status", resp.Status))
				continue
			}
			out[key] = resp.Players
			log.Info(ctx, "collected adp", logger.String("format", key), logger.Int("players", len(resp.Players)))
		}
	}
	return out
}

// Consolidate merges all collected formats into one ranking list. The
// player set comes from the primary format; every format contributes its
// ADP stats to the players it shares with the primary. Without the primary
// format the result is empty.
func Consolidate(all map[string][]Entry, primary string) []model.DraftRanking {
	if primary == "" {
		primary = DefaultPrimary
	}
	base, ok := all[primary]
	if !ok {
		return []model.DraftRanking{}
	}

	byID := make(map[string]*model.DraftRanking, len(base))
	for i := range base {
		e := &base[i]
		id := e.PlayerID.String()
		if id == "" {
			continue
		}
		byID[id] = &model.DraftRanking{
			RankingID: id,
			Name:      e.Name,
			Position:  e.Position,
			Team:      e.Team,
			ByeWeek:   int(e.Bye),
			ADP:       make(map[string]model.ADPStat),
		}
	}

	for key, entries := range all {
		for i := range entries {
			e := &entries[i]
			r, ok := byID[e.PlayerID.String()]
			if !ok {
				continue
			}
			r.ADP[key] = model.ADPStat{
				ADP:          e.ADP,
				ADPFormatted: e.ADPFormatted,
				TimesDrafted: e.TimesDrafted,
				High:         e.High,
				Low:          e.Low,
				Stdev:        e.Stdev,
			}
		}
	}

	out := make([]model.DraftRanking, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RankingID < out[j].RankingID })
	metrics.UpdateSourceRecords(SourceName, len(out))
	return out
}
