package handler

import (
	"encoding/json"
	"net/http"

	"github.com/planweave/planweave/internal/domain"
)

// GeneratePlan handles POST /plans/generate.
// The body is a domain.TripRequest; the response is the normalized plan.
// Nothing is persisted — saving is a separate, explicit POST /trips.
func (s *Server) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req domain.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	plan, err := s.plans.Generate(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}
