package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/planweave/planweave/internal/domain"
)

// tripResponse is the wire shape for a saved trip. Dates are rendered as
// plain "2006-01-02" values via openapi_types.Date so clients never see a
// midnight timestamp on what is semantically a calendar date.
type tripResponse struct {
	ID          uuid.UUID          `json:"id"`
	Destination string             `json:"destination"`
	Title       string             `json:"title"`
	Days        int                `json:"days"`
	Travelers   int                `json:"travelers"`
	Budget      float64            `json:"budget"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Plan        domain.TripPlan    `json:"plan"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toTripResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		Title:       t.Title,
		Days:        t.Days,
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Plan:        t.Plan,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// tripListResponse is a page of trips plus pagination metadata.
type tripListResponse struct {
	Trips []tripResponse `json:"trips"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// SaveTrip handles POST /trips. The body is a generated plan; the response is
// the persisted trip with its DB identity.
func (s *Server) SaveTrip(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}

	var plan domain.TripPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	trip, err := s.trips.Save(r.Context(), o, plan)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTripResponse(trip))
}

// ListTrips handles GET /trips with optional page and limit query params.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}

	p := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	trips, total, err := s.trips.List(r.Context(), o, p)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := tripListResponse{
		Trips: make([]tripResponse, 0, len(trips)),
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	for _, t := range trips {
		resp.Trips = append(resp.Trips, toTripResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), o, id)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTripResponse(trip))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), o, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// queryInt parses an optional integer query parameter.
// Returns nil when absent or malformed so the caller's defaults apply.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
