// Package handler implements the HTTP handlers for the trip planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (plan.go, voice.go, trip.go, expense.go, geo.go, health.go) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/geo"
	"github.com/planweave/planweave/spec"
)

// The servicer interfaces are defined here, in the consumer package, following
// the Go convention: "accept interfaces, return concrete types". They let
// handler tests inject mocks without touching the service layer or a database.

// PlanServicer defines the generation operation the plan handler depends on.
type PlanServicer interface {
	Generate(ctx context.Context, req domain.TripRequest) (domain.TripPlan, error)
}

// VoiceServicer defines the transcript-parsing operation the voice handler
// depends on.
type VoiceServicer interface {
	Parse(ctx context.Context, transcript string) (domain.TripRequest, error)
}

// TripServicer defines the business operations the trip handler depends on.
type TripServicer interface {
	Save(ctx context.Context, owner string, plan domain.TripPlan) (domain.Trip, error)
	GetByID(ctx context.Context, owner string, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, owner string, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// ExpenseServicer defines the business operations the expense handler depends on.
type ExpenseServicer interface {
	Add(ctx context.Context, owner string, tripID uuid.UUID, e domain.Expense) (domain.Expense, error)
	List(ctx context.Context, owner string, tripID uuid.UUID) ([]domain.Expense, error)
	Delete(ctx context.Context, owner string, tripID, id uuid.UUID) error
	Summary(ctx context.Context, owner string, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

// GeoClient defines the geographic lookups the geo handler depends on.
// internal/geo.Client satisfies it.
type GeoClient interface {
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
	DriveRoute(ctx context.Context, from, to domain.Coordinates) (geo.Route, error)
}

// Server holds every handler dependency. Individual fields may be nil in
// tests that only exercise one route group.
type Server struct {
	plans    PlanServicer
	voice    VoiceServicer
	trips    TripServicer
	expenses ExpenseServicer
	geo      GeoClient
}

// NewServer constructs the Server with all its dependencies.
func NewServer(plans PlanServicer, voice VoiceServicer, trips TripServicer, expenses ExpenseServicer, geo GeoClient) *Server {
	return &Server{plans: plans, voice: voice, trips: trips, expenses: expenses, geo: geo}
}

// Routes binds every endpoint onto a chi router. Middleware is mounted by the
// caller (cmd/api) so tests get a bare router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Post("/plans/generate", s.GeneratePlan)
	r.Post("/voice/parse", s.ParseVoice)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.SaveTrip)
		r.Get("/", s.ListTrips)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Delete("/", s.DeleteTrip)
			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.AddExpense)
				r.Get("/", s.ListExpenses)
				r.Get("/summary", s.ExpenseSummary)
				r.Delete("/{expenseID}", s.DeleteExpense)
			})
		})
	})

	r.Route("/geo", func(r chi.Router) {
		r.Get("/geocode", s.GeocodeAddress)
		r.Get("/route", s.DriveRoute)
	})

	return r
}

// serveOpenAPI serves the embedded OpenAPI document.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}

// ownerHeader is the opaque user identifier set by the upstream auth proxy.
const ownerHeader = "X-Owner"

// owner extracts the caller identity from the request, or writes a 401 and
// returns false when the header is missing.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	o := r.Header.Get(ownerHeader)
	if o == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing "+ownerHeader+" header")
		return "", false
	}
	return o, true
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}
