package domain

import (
	"fmt"
	"strings"
)

// Bounds for user-supplied trip parameters. Values outside these ranges are
// rejected at validation time (form flow) or dropped entirely (voice flow).
const (
	MinDays      = 1
	MaxDays      = 30
	MinTravelers = 1
	MaxTravelers = 20
	MinBudget    = 100
)

// TripRequest is the user's description of the trip to generate. It is
// immutable once submitted to generation.
type TripRequest struct {
	Destination    string   `json:"destination"`
	Days           int      `json:"days"`      // 1-30
	Budget         float64  `json:"budget"`    // user's local currency
	Travelers      int      `json:"travelers"` // 1-20
	TravelerTypes  []string `json:"travelerTypes,omitempty"`
	Preferences    []string `json:"preferences,omitempty"`
	StartDate      string   `json:"startDate,omitempty"` // "2006-01-02"
	AdditionalInfo string   `json:"additionalInfo,omitempty"`
}

// Validate checks the request against the declared field domains.
// Returns ErrValidation describing the first violation found.
func (r TripRequest) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrValidation)
	}
	if r.Days < MinDays || r.Days > MaxDays {
		return fmt.Errorf("%w: days must be between %d and %d", ErrValidation, MinDays, MaxDays)
	}
	if r.Travelers < MinTravelers || r.Travelers > MaxTravelers {
		return fmt.Errorf("%w: travelers must be between %d and %d", ErrValidation, MinTravelers, MaxTravelers)
	}
	if r.Budget < MinBudget {
		return fmt.Errorf("%w: budget must be at least %d", ErrValidation, MinBudget)
	}
	return nil
}
