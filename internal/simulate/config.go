// Package simulate drives a running byline service with mock weekly
// performances and checks the season totals it reports.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Season     int           // Season sent with every period; 0 lets the service fill it
	Weeks      int           // Number of weeks to submit per player
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Settle     time.Duration // How long to wait for totals to catch up
	Duplicates bool          // Resubmit every period to exercise the dedupe path
}

// Stats holds run statistics.
type Stats struct {
	PeriodsGenerated int
	PeriodsSubmitted int
	Accepted         int
	Duplicates       int
	Failed           int
	Verified         int
	Duration         time.Duration
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type totalsPoints struct {
	PPR float64 `json:"ppr"`
}

type totalsEntry struct {
	IdentityKey  string       `json:"identity_key"`
	PlayerName   string       `json:"player_name"`
	GamesCounted int          `json:"games_counted"`
	Points       totalsPoints `json:"points"`
}

type totalsPage struct {
	Total int           `json:"total"`
	Items []totalsEntry `json:"items"`
}
