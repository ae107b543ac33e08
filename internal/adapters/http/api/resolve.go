package api

import (
	"net/http"

	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
)

// ResolveHandler runs ad-hoc resolution passes.
type ResolveHandler struct {
	deps Resolver
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(deps Resolver) *ResolveHandler {
	return &ResolveHandler{deps: deps}
}

type resolveRequest struct {
	Primary    []model.IdentityRecord `json:"primary" validate:"dive"`
	Candidates []model.IdentityRecord `json:"candidates" validate:"dive"`
}

type resolveResponse struct {
	match.Resolution
	MatchRate float64 `json:"match_rate"`
}

// HandleResolve handles POST /resolve.
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req resolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	res := h.deps.Resolve(r.Context(), req.Primary, req.Candidates)
	writeJSON(w, http.StatusOK, resolveResponse{Resolution: res, MatchRate: res.MatchRate()})
}
