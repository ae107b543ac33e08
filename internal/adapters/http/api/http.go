// Package api exposes the season service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/byline/internal/app"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
)

const defaultMaxListLimit = 500

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

var validate = validator.New()

// PeriodSubmitter accepts weekly performances.
type PeriodSubmitter interface {
	SubmitPeriod(ctx context.Context, p model.PeriodPerformance) (service.SubmitResult, error)
	ApplyPeriod(ctx context.Context, p model.PeriodPerformance) (*model.SeasonTotals, error)
}

// TotalsReader exposes season totals.
type TotalsReader interface {
	Totals(ctx context.Context, key string) (*model.SeasonTotals, error)
	ListTotals(ctx context.Context, offset, limit int) ([]*model.SeasonTotals, int, error)
}

// Resolver runs identity resolution passes.
type Resolver interface {
	Resolve(ctx context.Context, primary, candidates []model.IdentityRecord) match.Resolution
}

// Rebuilder recomputes totals from the persisted weeks.
type Rebuilder interface {
	RebuildTotals(ctx context.Context) (int, error)
}

// Dependencies bundles everything the handlers need.
type Dependencies interface {
	PeriodSubmitter
	TotalsReader
	Resolver
	Rebuilder
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	periodsHandler *PeriodsHandler
	totalsHandler  *TotalsHandler
	resolveHandler *ResolveHandler
}

// NewServer creates a new API server with all handlers. maxListLimit caps
// GET /totals?limit; values below one use the default.
func NewServer(deps Dependencies, maxListLimit int) *Server {
	if maxListLimit < 1 {
		maxListLimit = defaultMaxListLimit
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(deps),
		periodsHandler: NewPeriodsHandler(deps),
		totalsHandler:  NewTotalsHandler(deps, deps, maxListLimit),
		resolveHandler: NewResolveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats))
	mux.HandleFunc("/periods", instrument("periods", s.periodsHandler.HandlePostPeriod))
	mux.HandleFunc("/totals", instrument("totals", s.totalsHandler.HandleListTotals))
	mux.HandleFunc("/totals/{key}", instrument("totals_key", s.totalsHandler.HandleGetTotals))
	mux.HandleFunc("/resolve", instrument("resolve", s.resolveHandler.HandleResolve))
	mux.HandleFunc("/rebuild", instrument("rebuild", s.totalsHandler.HandleRebuild))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	tagFailure(w, code)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure writes err with the status its kind maps to.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}

// decodeBody decodes a JSON body into v and validates it.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
