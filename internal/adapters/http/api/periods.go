package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/domain/model"
)

// PeriodsHandler handles weekly performance submissions.
type PeriodsHandler struct {
	deps PeriodSubmitter
}

// NewPeriodsHandler creates a new periods handler.
func NewPeriodsHandler(deps PeriodSubmitter) *PeriodsHandler {
	return &PeriodsHandler{deps: deps}
}

type ackResponse struct {
	Status    string              `json:"status"`
	Duplicate bool                `json:"duplicate"`
	EventID   string              `json:"event_id,omitempty"`
	Totals    *model.SeasonTotals `json:"totals,omitempty"`
}

// HandlePostPeriod handles POST /periods. The period is queued and 202 is
// returned; with ?sync=true it is applied before responding. A period that
// was already counted answers 200 with duplicate set.
func (h *PeriodsHandler) HandlePostPeriod(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var p model.PeriodPerformance
	if err := decodeBody(w, r, &p); err != nil {
		writeFailure(w, err)
		return
	}

	if sync, _ := strconv.ParseBool(r.URL.Query().Get("sync")); sync {
		t, err := h.deps.ApplyPeriod(r.Context(), p)
		switch {
		case errors.Is(err, repository.ErrDuplicatePeriod):
			writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, Totals: t})
		case err != nil:
			writeFailure(w, err)
		default:
			writeJSON(w, http.StatusOK, ackResponse{Status: "applied", Totals: t})
		}
		return
	}

	res, err := h.deps.SubmitPeriod(r.Context(), p)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: res.EventID})
}
