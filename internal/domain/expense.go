package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseCategories is the closed set of expense buckets, matching the
// BudgetBreakdown fields so actual spend can be compared against the plan.
var ExpenseCategories = []string{
	"transportation",
	"accommodation",
	"food",
	"attractions",
	"other",
}

// ValidExpenseCategory reports whether c is one of the five buckets.
func ValidExpenseCategory(c string) bool {
	for _, v := range ExpenseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Expense is a single recorded spend against a trip.
// Day is the 1-based trip day the spend belongs to; 0 means unassigned.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Day         int       `json:"day,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	SpentAt     time.Time `json:"spent_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseSummary aggregates recorded spend for one trip, per category and in
// total, next to the plan's budgeted figures.
type ExpenseSummary struct {
	TripID     uuid.UUID          `json:"trip_id"`
	ByCategory map[string]float64 `json:"by_category"` // keyed by ExpenseCategories
	Total      float64            `json:"total"`
	Budget     float64            `json:"budget"`      // requested budget from the trip
	PlanBudget BudgetBreakdown    `json:"plan_budget"` // budgeted per-bucket figures
	Remaining  float64            `json:"remaining"`   // Budget - Total, may be negative
}
