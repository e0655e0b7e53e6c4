// Package domain contains the core data types for the trip planner.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (extract, planner, repo, service, handler).
package domain

// ActivityType is the closed set of activity categories a day plan may contain.
type ActivityType string

const (
	ActivityTransportation ActivityType = "transportation"
	ActivityAccommodation  ActivityType = "accommodation"
	ActivityAttraction     ActivityType = "attraction"
	ActivityRestaurant     ActivityType = "restaurant"
	ActivityOther          ActivityType = "other"
)

// Activity is one scheduled event within a day. Activities are value objects:
// they carry no identity and are replaced wholesale during normalization.
type Activity struct {
	Time          string       `json:"time"` // "HH:MM" local; not guaranteed increasing by the model
	Type          ActivityType `json:"type"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	Location      Location     `json:"location,omitzero"`
	EstimatedCost float64      `json:"estimatedCost"`
	Duration      string       `json:"duration,omitempty"`
	Tips          []string     `json:"tips,omitempty"`
}

// IsAccommodation reports whether the activity is lodging.
func (a Activity) IsAccommodation() bool { return a.Type == ActivityAccommodation }

// IsTransportation reports whether the activity is a travel leg.
func (a Activity) IsTransportation() bool { return a.Type == ActivityTransportation }

// DayPlan is one calendar day of the trip. The order of Activities is the
// order the traveler performs them.
//
// Post-normalization invariant: for every day except possibly the last, the
// first and last activities are accommodation entries denoting the same
// physical lodging, and the lodging at day N's end equals the lodging at day
// N+1's start.
type DayPlan struct {
	Day           int        `json:"day"` // 1-based
	Date          string     `json:"date"`
	Activities    []Activity `json:"activities"`
	EstimatedCost float64    `json:"estimatedCost"`
}

// Overview holds the model's trip-level summary text.
type Overview struct {
	Highlights []string `json:"highlights"`
	Tips       []string `json:"tips"`
	Summary    string   `json:"summary"`
}

// BudgetBreakdown splits the estimated spend into the five fixed buckets.
// All values are non-negative.
type BudgetBreakdown struct {
	Transportation float64 `json:"transportation"`
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Attractions    float64 `json:"attractions"`
	Other          float64 `json:"other"`
}

// Total returns the sum of all buckets.
func (b BudgetBreakdown) Total() float64 {
	return b.Transportation + b.Accommodation + b.Food + b.Attractions + b.Other
}

// TripPlan is a fully generated, normalized itinerary. It is produced once
// per generation request as a pure function of the request and the model
// output, and is never mutated afterwards — review/edit flows work on a copy.
type TripPlan struct {
	Title           string          `json:"title"`
	Destination     string          `json:"destination"`
	StartDate       string          `json:"startDate"` // "2006-01-02"
	EndDate         string          `json:"endDate"`   // always computed: startDate + days - 1
	Days            int             `json:"days"`
	Budget          float64         `json:"budget"`       // as requested by the user
	ActualBudget    float64         `json:"actualBudget"` // sum of BudgetBreakdown, else Budget
	Travelers       int             `json:"travelers"`
	Overview        Overview        `json:"overview"`
	DailyPlans      []DayPlan       `json:"dailyPlans"`
	BudgetBreakdown BudgetBreakdown `json:"budgetBreakdown"`
}
