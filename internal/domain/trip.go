package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a saved, already-normalized itinerary owned by a user.
// A trip is the top-level aggregate; expenses belong to a trip.
//
// Owner is the opaque user identifier supplied by the upstream auth proxy —
// this backend stores and filters by it, nothing more.
type Trip struct {
	ID          uuid.UUID `json:"id"`
	Owner       string    `json:"owner"`
	Destination string    `json:"destination"`
	Title       string    `json:"title"`
	Days        int       `json:"days"`
	Travelers   int       `json:"travelers"`
	Budget      float64   `json:"budget"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Plan        TripPlan  `json:"plan"` // the full normalized plan, stored as JSONB
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
