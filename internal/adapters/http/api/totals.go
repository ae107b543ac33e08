package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/byline/internal/domain/model"
)

const defaultListLimit = 50

// TotalsHandler serves season totals.
type TotalsHandler struct {
	reader    TotalsReader
	rebuilder Rebuilder
	maxLimit  int
}

// NewTotalsHandler creates a new totals handler.
func NewTotalsHandler(reader TotalsReader, rebuilder Rebuilder, maxLimit int) *TotalsHandler {
	return &TotalsHandler{reader: reader, rebuilder: rebuilder, maxLimit: maxLimit}
}

type listResponse struct {
	Total  int                   `json:"total"`
	Offset int                   `json:"offset"`
	Limit  int                   `json:"limit"`
	Items  []*model.SeasonTotals `json:"items"`
}

// HandleListTotals handles GET /totals?offset=N&limit=M, ordered by identity key.
func (h *TotalsHandler) HandleListTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeFailure(w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if limit > h.maxLimit {
		writeFailure(w, fmt.Errorf("%w: limit %d above %d", ErrLimitExceeded, limit, h.maxLimit))
		return
	}

	items, total, err := h.reader.ListTotals(r.Context(), offset, limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Total: total, Offset: offset, Limit: limit, Items: items})
}

// HandleGetTotals handles GET /totals/{key}.
func (h *TotalsHandler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	key := r.PathValue("key")
	if key == "" {
		writeFailure(w, fmt.Errorf("%w: missing key", ErrBadRequest))
		return
	}
	t, err := h.reader.Totals(r.Context(), key)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// HandleRebuild handles POST /rebuild.
func (h *TotalsHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	n, err := h.rebuilder.RebuildTotals(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"identities": n})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadRequest, name)
	}
	return n, nil
}
