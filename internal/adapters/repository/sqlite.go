package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/metrics"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "byline.db"

// SQLiteStore implements Store on SQLite. Records are stored as JSON payloads
// next to their key columns.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens or creates the database in dataDir and applies migrations.
func OpenSQLite(ctx context.Context, dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &SQLiteStore{db: db, path: dbPath}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreLatency(op, metrics.SinceMs(start))
	if *err != nil {
		metrics.RecordStoreError(op)
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// inTx runs fn in a transaction and commits when it returns nil.
func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SavePlayers(ctx context.Context, players []model.Player) (err error) {
	defer observe("save_players", time.Now(), &err)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM players"); err != nil {
			return fmt.Errorf("clear players: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO players (player_id, payload, updated_at) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare player insert: %w", err)
		}
		defer stmt.Close()

		ts := now()
		for _, p := range players {
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal player %s: %w", p.PlayerID, err)
			}
			if _, err := stmt.ExecContext(ctx, p.PlayerID, string(payload), ts); err != nil {
				return fmt.Errorf("insert player %s: %w", p.PlayerID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Players(ctx context.Context) (out []model.Player, err error) {
	defer observe("players", time.Now(), &err)

	err = s.queryPayloads(ctx, "SELECT payload FROM players ORDER BY player_id", nil, func(b []byte) error {
		var p model.Player
		if err := json.Unmarshal(b, &p); err != nil {
			return fmt.Errorf("decode player: %w", err)
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (s *SQLiteStore) SaveDraftRankings(ctx context.Context, season int, rankings []model.DraftRanking) (err error) {
	defer observe("save_draft_rankings", time.Now(), &err)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM draft_rankings WHERE season = ?", season); err != nil {
			return fmt.Errorf("clear rankings: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO draft_rankings (season, ranking_id, payload, updated_at) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare ranking insert: %w", err)
		}
		defer stmt.Close()

		ts := now()
		for _, r := range rankings {
			payload, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("marshal ranking %s: %w", r.RankingID, err)
			}
			if _, err := stmt.ExecContext(ctx, season, r.RankingID, string(payload), ts); err != nil {
				return fmt.Errorf("insert ranking %s: %w", r.RankingID, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) DraftRankings(ctx context.Context, season int) (out []model.DraftRanking, err error) {
	defer observe("draft_rankings", time.Now(), &err)

	err = s.queryPayloads(ctx, "SELECT payload FROM draft_rankings WHERE season = ? ORDER BY ranking_id",
		[]any{season}, func(b []byte) error {
			var r model.DraftRanking
			if err := json.Unmarshal(b, &r); err != nil {
				return fmt.Errorf("decode ranking: %w", err)
			}
			out = append(out, r)
			return nil
		})
	return out, err
}

func (s *SQLiteStore) SaveIntegration(ctx context.Context, db model.IntegratedDatabase) (err error) {
	defer observe("save_integration", time.Now(), &err)

	payload, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("marshal integration: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO integrations (season, payload, created_at) VALUES (?, ?, ?)
         ON CONFLICT(season) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		db.Meta.Season, string(payload), now())
	if err != nil {
		return fmt.Errorf("upsert integration: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Integration(ctx context.Context, season int) (out model.IntegratedDatabase, err error) {
	defer observe("integration", time.Now(), &err)

	var payload string
	err = s.db.QueryRowContext(ctx, "SELECT payload FROM integrations WHERE season = ?", season).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return out, fmt.Errorf("integration for season %d: %w", season, ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("query integration: %w", err)
	}
	if err = json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("decode integration: %w", err)
	}
	return out, nil
}

const upsertPerformance = `INSERT INTO performances (season, period, identity_key, payload, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(season, period, identity_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`

func (s *SQLiteStore) ReplacePeriod(ctx context.Context, season, period int, perfs []model.PeriodPerformance) (err error) {
	defer observe("replace_period", time.Now(), &err)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM performances WHERE season = ? AND period = ?", season, period); err != nil {
			return fmt.Errorf("clear period %d: %w", period, err)
		}
		stmt, err := tx.PrepareContext(ctx, upsertPerformance)
		if err != nil {
			return fmt.Errorf("prepare performance insert: %w", err)
		}
		defer stmt.Close()

		ts := now()
		for _, p := range perfs {
			if p.IdentityKey == "" {
				return fmt.Errorf("%w: empty identity key in period %d", ErrInvalidPerformance, period)
			}
			p.Season, p.Period = season, period
			payload, err := json.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshal performance %s: %w", p.IdentityKey, err)
			}
			if _, err := stmt.ExecContext(ctx, season, period, p.IdentityKey, string(payload), ts); err != nil {
				return fmt.Errorf("insert performance %s: %w", p.IdentityKey, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) UpsertPerformance(ctx context.Context, p model.PeriodPerformance) (err error) {
	defer observe("upsert_performance", time.Now(), &err)

	if p.IdentityKey == "" {
		return fmt.Errorf("%w: empty identity key", ErrInvalidPerformance)
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal performance %s: %w", p.IdentityKey, err)
	}
	if _, err = s.db.ExecContext(ctx, upsertPerformance, p.Season, p.Period, p.IdentityKey, string(payload), now()); err != nil {
		return fmt.Errorf("upsert performance %s: %w", p.IdentityKey, err)
	}
	return nil
}

func (s *SQLiteStore) Performances(ctx context.Context, season int) (out []model.PeriodPerformance, err error) {
	defer observe("performances", time.Now(), &err)

	err = s.queryPayloads(ctx,
		"SELECT payload FROM performances WHERE season = ? ORDER BY period, identity_key",
		[]any{season}, func(b []byte) error {
			var p model.PeriodPerformance
			if err := json.Unmarshal(b, &p); err != nil {
				return fmt.Errorf("decode performance: %w", err)
			}
			out = append(out, p)
			return nil
		})
	return out, err
}

func (s *SQLiteStore) SaveTotals(ctx context.Context, season int, totals []*model.SeasonTotals) (err error) {
	defer observe("save_totals", time.Now(), &err)

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM season_totals WHERE season = ?", season); err != nil {
			return fmt.Errorf("clear totals: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO season_totals (season, identity_key, payload, updated_at) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("prepare totals insert: %w", err)
		}
		defer stmt.Close()

		ts := now()
		for _, t := range totals {
			if t == nil {
				continue
			}
			payload, err := json.Marshal(t)
			if err != nil {
				return fmt.Errorf("marshal totals %s: %w", t.IdentityKey, err)
			}
			if _, err := stmt.ExecContext(ctx, season, t.IdentityKey, string(payload), ts); err != nil {
				return fmt.Errorf("insert totals %s: %w", t.IdentityKey, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Totals(ctx context.Context, season int) (out []*model.SeasonTotals, err error) {
	defer observe("totals", time.Now(), &err)

	err = s.queryPayloads(ctx, "SELECT payload FROM season_totals WHERE season = ? ORDER BY identity_key",
		[]any{season}, func(b []byte) error {
			t := &model.SeasonTotals{}
			if err := json.Unmarshal(b, t); err != nil {
				return fmt.Errorf("decode totals: %w", err)
			}
			out = append(out, t)
			return nil
		})
	return out, err
}

func (s *SQLiteStore) queryPayloads(ctx context.Context, query string, args []any, fn func([]byte) error) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan payload: %w", err)
		}
		if err := fn([]byte(payload)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}
