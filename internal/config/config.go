// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: auto picks text on a terminal, json otherwise.
	LogFormat string `koanf:"log_format" validate:"oneof=auto text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// DataDir holds the database and lock files.
	DataDir string `koanf:"data_dir" validate:"required"`

	// Season is the season year being collected and aggregated.
	Season int `koanf:"season" validate:"gte=2000,lte=2100"`

	// SeasonStart is the first day of week 1, formatted YYYY-MM-DD.
	SeasonStart string `koanf:"season_start" validate:"datetime=2006-01-02"`

	// MaxWeek caps the week number.
	MaxWeek int `koanf:"max_week" validate:"gte=1,lte=25"`

	// EventQueueSize bounds the in-memory period queue.
	EventQueueSize int `koanf:"queue_size" validate:"gt=0"`

	// WorkerCount sets the number of aggregation workers.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// DedupeSize bounds the submission dedupe cache; 0 means unbounded.
	DedupeSize int `koanf:"dedupe_size" validate:"gte=0"`

	// MaxListLimit caps GET /totals?limit.
	MaxListLimit int `koanf:"max_list_limit" validate:"gt=0"`

	// FuzzyThreshold is the minimum similarity accepted by fuzzy matching.
	FuzzyThreshold float64 `koanf:"fuzzy_threshold" validate:"gt=0,lte=1"`

	// SortedCandidates iterates match candidates by id for reproducible tie-breaks.
	SortedCandidates bool `koanf:"sorted_candidates"`

	// SleeperBaseURL is the player directory API root.
	SleeperBaseURL string `koanf:"sleeper_base_url" validate:"required,url"`

	// FFCBaseURL is the ADP API root.
	FFCBaseURL string `koanf:"ffc_base_url" validate:"required,url"`

	// SourceTimeoutSeconds bounds each source request.
	SourceTimeoutSeconds int `koanf:"source_timeout_seconds" validate:"gt=0"`

	// ADPFormats and ADPLeagueSizes select which ADP lists to fetch.
	ADPFormats     []string `koanf:"adp_formats" validate:"min=1,dive,oneof=standard ppr half-ppr"`
	ADPLeagueSizes []int    `koanf:"adp_league_sizes" validate:"min=1,dive,gt=0"`

	// ADPPrimaryFormat is the list whose players form the ranking set, e.g. "ppr_12team".
	ADPPrimaryFormat string `koanf:"adp_primary_format" validate:"required"`

	// ADPRequestIntervalMS spaces consecutive ADP requests.
	ADPRequestIntervalMS int `koanf:"adp_request_interval_ms" validate:"gte=0"`

	// ScoringWeights overrides fantasy scoring coefficients by name.
	ScoringWeights map[string]float64 `koanf:"scoring_weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "auto",
		Addr:                 ":9080",
		DataDir:              "data",
		Season:               2025,
		SeasonStart:          "2025-09-04",
		MaxWeek:              18,
		EventQueueSize:       10_000,
		WorkerCount:          runtime.NumCPU(),
		DedupeSize:           200_000,
		MaxListLimit:         500,
		FuzzyThreshold:       0.75,
		SleeperBaseURL:       "https://api.sleeper.app/v1",
		FFCBaseURL:           "https://fantasyfootballcalculator.com/api/v1/adp",
		SourceTimeoutSeconds: 30,
		ADPFormats:           []string{"standard", "ppr", "half-ppr"},
		ADPLeagueSizes:       []int{8, 10, 12, 14},
		ADPPrimaryFormat:     "ppr_12team",
		ADPRequestIntervalMS: 2000,
		ScoringWeights:       map[string]float64{},
	}
}

// SourceTimeout returns SourceTimeoutSeconds as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// ADPRequestInterval returns ADPRequestIntervalMS as a duration.
func (c *Config) ADPRequestInterval() time.Duration {
	return time.Duration(c.ADPRequestIntervalMS) * time.Millisecond
}

// SeasonStartTime parses SeasonStart. Load guarantees the format.
func (c *Config) SeasonStartTime() time.Time {
	t, err := time.Parse(time.DateOnly, c.SeasonStart)
	if err != nil {
		return time.Time{}
	}
	return t
}
