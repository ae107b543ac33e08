// Package sleeper fetches and cleans the Sleeper NFL player directory.
package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/okian/byline/internal/adapters/sources"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/normalize"
	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

// SourceName labels this source in logs and metrics.
const SourceName = "sleeper"

const (
	playersPath   = "/players/nfl"
	defaultStatus = "Active"
)

// rawPlayer mirrors one entry of the directory response.
type rawPlayer struct {
	FirstName        *string            `json:"first_name"`
	LastName         *string            `json:"last_name"`
	FullName         *string            `json:"full_name"`
	Position         *string            `json:"position"`
	Team             *string            `json:"team"`
	Number           sources.FlexString `json:"number"`
	Age              sources.FlexInt    `json:"age"`
	Height           sources.FlexString `json:"height"`
	Weight           sources.FlexString `json:"weight"`
	College          *string            `json:"college"`
	YearsExp         sources.FlexInt    `json:"years_exp"`
	Status           *string            `json:"status"`
	InjuryStatus     *string            `json:"injury_status"`
	FantasyPositions []*string          `json:"fantasy_positions"`
	ESPNID           sources.FlexString `json:"espn_id"`
	YahooID          sources.FlexString `json:"yahoo_id"`
}

// Client fetches the player directory.
type Client struct {
	api *sources.Client
	now func() time.Time
}

// New creates a directory client for baseURL.
func New(baseURL string, opts ...sources.Option) *Client {
	return &Client{
		api: sources.NewClient(SourceName, baseURL, opts...),
		now: time.Now,
	}
}

// FetchPlayers downloads the directory and returns the cleaned,
// fantasy-relevant players ordered by id.
func (c *Client) FetchPlayers(ctx context.Context) ([]model.Player, error) {
	var raw map[string]json.RawMessage
	if err := c.api.GetJSON(ctx, playersPath, nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}
	c.api.Logger().Info(ctx, "retrieved raw players", logger.Int("count", len(raw)))

	players := Clean(raw, c.now())
	metrics.UpdateSourceRecords(SourceName, len(players))
	c.api.Logger().Info(ctx, "cleaned players", logger.Int("count", len(players)))
	return players, nil
}

// Clean decodes and filters raw directory entries. Entries that are not
// objects, are not fantasy relevant or carry no name are dropped.
func Clean(raw map[string]json.RawMessage, now time.Time) []model.Player {
	out := make([]model.Player, 0, len(raw))
	for id, msg := range raw {
		var rp rawPlayer
		if err := json.Unmarshal(msg, &rp); err != nil {
			continue
		}
		if p, ok := clean(id, &rp, now); ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

func clean(id string, rp *rawPlayer, now time.Time) (model.Player, bool) {
	position := str(rp.Position)
	fantasy := make([]string, 0, len(rp.FantasyPositions))
	for _, fp := range rp.FantasyPositions {
		if fp != nil {
			fantasy = append(fantasy, *fp)
		}
	}
	if !relevant(position, fantasy) {
		return model.Player{}, false
	}

	p := model.Player{
		PlayerID:         id,
		FirstName:        str(rp.FirstName),
		LastName:         str(rp.LastName),
		FullName:         str(rp.FullName),
		Position:         position,
		Team:             str(rp.Team),
		Number:           rp.Number.String(),
		Age:              int(rp.Age),
		Height:           rp.Height.String(),
		Weight:           rp.Weight.String(),
		College:          str(rp.College),
		YearsExp:         int(rp.YearsExp),
		Status:           str(rp.Status),
		InjuryStatus:     str(rp.InjuryStatus),
		FantasyPositions: fantasy,
		ESPNID:           rp.ESPNID.String(),
		YahooID:          rp.YahooID.String(),
		LastUpdated:      now.UTC(),
	}
	if p.Status == "" {
		p.Status = defaultStatus
	}
	if p.FullName == "" {
		p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	if p.FullName == "" && p.LastName == "" {
		return model.Player{}, false
	}
	return p, true
}

func relevant(position string, fantasy []string) bool {
	if normalize.IsFantasyPosition(position) {
		return true
	}
	for _, fp := range fantasy {
		if normalize.IsFantasyPosition(fp) {
			return true
		}
	}
	return false
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
