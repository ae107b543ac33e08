package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/okian/byline/internal/domain/model"
)

// Export file names.
const (
	ExportPlayersFile     = "players.json"
	ExportRankingsFile    = "draft_rankings.json"
	ExportIntegratedFile  = "integrated_database.json"
	ExportPerformanceFile = "weekly_performance.json"
	ExportTotalsFile      = "season_totals.json"
)

// WeeklyExport is the weekly performance store shape: "week_N" -> key -> record.
type WeeklyExport map[string]map[string]model.PeriodPerformance

type exportDoc struct {
	name string
	v    any
}

// WeekLabel formats a period index as its export label.
func WeekLabel(period int) string {
	return "week_" + strconv.Itoa(period)
}

// Export writes the season's persisted state as JSON documents into dir and
// returns the files written. A season that was never integrated has no
// integrated_database.json.
func Export(ctx context.Context, s Store, season int, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	players, err := s.Players(ctx)
	if err != nil {
		return nil, err
	}
	rankings, err := s.DraftRankings(ctx, season)
	if err != nil {
		return nil, err
	}
	perfs, err := s.Performances(ctx, season)
	if err != nil {
		return nil, err
	}
	totals, err := s.Totals(ctx, season)
	if err != nil {
		return nil, err
	}

	weekly := make(WeeklyExport)
	for _, p := range perfs {
		label := WeekLabel(p.Period)
		if weekly[label] == nil {
			weekly[label] = make(map[string]model.PeriodPerformance)
		}
		weekly[label][p.IdentityKey] = p
	}
	byKey := make(map[string]*model.SeasonTotals, len(totals))
	for _, t := range totals {
		byKey[t.IdentityKey] = t
	}

	docs := []exportDoc{
		{ExportPlayersFile, players},
		{ExportRankingsFile, rankings},
		{ExportPerformanceFile, weekly},
		{ExportTotalsFile, byKey},
	}

	integrated, err := s.Integration(ctx, season)
	switch {
	case err == nil:
		docs = append(docs, exportDoc{ExportIntegratedFile, integrated})
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	written := make([]string, 0, len(docs))
	for _, d := range docs {
		path := filepath.Join(dir, d.name)
		if err := writeJSON(path, d.v); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// writeJSON writes v to a temp file and renames it into place.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
