// Package planner turns raw model output into a normalized domain.TripPlan.
// It owns the pre-parse sanitization, the permissive JSON decode, the field
// defaulting, and the day normalization pass. Callers never see a plan whose
// daily schedule has not been through Normalize.
package planner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/planweave/planweave/internal/domain"
)

const dateLayout = "2006-01-02"

// flexFloat decodes a JSON number or a numeric string ("300", "¥300" is not
// supported) into a float64. The model quotes numbers often enough that
// rejecting them would fail otherwise-fine plans.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	if len(s) > 1 && s[0] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil // unparseable cost degrades to zero rather than failing the plan
	}
	*f = flexFloat(v)
	return nil
}

// Wire types: the permissive decode targets for model JSON. Only the planner
// sees these; everything leaving the package is a domain type.

type activityWire struct {
	Time          string          `json:"time"`
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Location      domain.Location `json:"location"`
	EstimatedCost flexFloat       `json:"estimatedCost"`
	Cost          flexFloat       `json:"cost"` // some completions use this key instead
	Duration      string          `json:"duration"`
	Tips          []string        `json:"tips"`
}

type dayWire struct {
	Day        int            `json:"day"`
	Date       string         `json:"date"`
	Activities []activityWire `json:"activities"`
}

type overviewWire struct {
	Highlights []string `json:"highlights"`
	Tips       []string `json:"tips"`
	Summary    string   `json:"summary"`
}

type budgetWire struct {
	Transportation flexFloat `json:"transportation"`
	Accommodation  flexFloat `json:"accommodation"`
	Food           flexFloat `json:"food"`
	Attractions    flexFloat `json:"attractions"`
	Other          flexFloat `json:"other"`
}

type planWire struct {
	Title           string        `json:"title"`
	StartDate       string        `json:"startDate"`
	Overview        *overviewWire `json:"overview"`
	DailyPlans      []dayWire     `json:"dailyPlans"`
	BudgetBreakdown *budgetWire   `json:"budgetBreakdown"`
}

// ParsePlan parses the extracted JSON text into a fully normalized TripPlan.
//
// The text is sanitized first; if decoding still fails, one repair pass
// escapes bare control characters inside strings and retries. A second
// failure is fatal and surfaces domain.ErrParse with a prefix of the
// offending text. Missing top-level fields get defaults; endDate is always
// computed from startDate + days - 1 and never trusted from the model.
func ParsePlan(raw string, req domain.TripRequest) (domain.TripPlan, error) {
	s := Sanitize(raw)

	var wire planWire
	if err := json.Unmarshal([]byte(s), &wire); err != nil {
		repaired := repairControlChars(s)
		if err2 := json.Unmarshal([]byte(repaired), &wire); err2 != nil {
			return domain.TripPlan{}, fmt.Errorf("planner.ParsePlan: %w: %v (text: %q)",
				domain.ErrParse, err2, snippet(s))
		}
	}

	start := startDate(wire.StartDate, req)
	plan := domain.TripPlan{
		Title:       wire.Title,
		Destination: req.Destination,
		StartDate:   start.Format(dateLayout),
		EndDate:     start.AddDate(0, 0, req.Days-1).Format(dateLayout),
		Days:        req.Days,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Overview:    domain.Overview{Highlights: []string{}, Tips: []string{}},
	}
	if plan.Title == "" {
		plan.Title = fmt.Sprintf("%s %d-day trip", req.Destination, req.Days)
	}
	if wire.Overview != nil {
		if wire.Overview.Highlights != nil {
			plan.Overview.Highlights = wire.Overview.Highlights
		}
		if wire.Overview.Tips != nil {
			plan.Overview.Tips = wire.Overview.Tips
		}
		plan.Overview.Summary = wire.Overview.Summary
	}

	// actualBudget is the breakdown sum; the requested budget is only used
	// when the model omitted the breakdown entirely.
	if wire.BudgetBreakdown != nil {
		plan.BudgetBreakdown = domain.BudgetBreakdown{
			Transportation: float64(wire.BudgetBreakdown.Transportation),
			Accommodation:  float64(wire.BudgetBreakdown.Accommodation),
			Food:           float64(wire.BudgetBreakdown.Food),
			Attractions:    float64(wire.BudgetBreakdown.Attractions),
			Other:          float64(wire.BudgetBreakdown.Other),
		}
		plan.ActualBudget = plan.BudgetBreakdown.Total()
	} else {
		plan.ActualBudget = req.Budget
	}

	plan.DailyPlans = Normalize(rawDays(wire.DailyPlans, req, start), req.Destination)
	return plan, nil
}

// rawDays converts wire days into domain days ready for normalization:
// sequential renumbering, per-day dates derived from the start date, activity
// type coercion, and pad/truncate so the plan always has exactly req.Days days.
func rawDays(wire []dayWire, req domain.TripRequest, start time.Time) []domain.DayPlan {
	if len(wire) > req.Days {
		wire = wire[:req.Days]
	}
	days := make([]domain.DayPlan, 0, req.Days)
	for i, dw := range wire {
		day := domain.DayPlan{
			Day:        i + 1,
			Date:       start.AddDate(0, 0, i).Format(dateLayout),
			Activities: make([]domain.Activity, 0, len(dw.Activities)),
		}
		for _, aw := range dw.Activities {
			day.Activities = append(day.Activities, toActivity(aw))
		}
		days = append(days, day)
	}
	// The model occasionally returns fewer days than requested; the missing
	// tail becomes empty days rather than a short plan.
	for len(days) < req.Days {
		days = append(days, domain.DayPlan{
			Day:        len(days) + 1,
			Date:       start.AddDate(0, 0, len(days)).Format(dateLayout),
			Activities: []domain.Activity{},
		})
	}
	return days
}

func toActivity(aw activityWire) domain.Activity {
	cost := float64(aw.EstimatedCost)
	if cost == 0 {
		cost = float64(aw.Cost)
	}
	if cost < 0 {
		cost = 0
	}
	return domain.Activity{
		Time:          aw.Time,
		Type:          coerceType(aw.Type),
		Name:          aw.Name,
		Description:   aw.Description,
		Location:      aw.Location,
		EstimatedCost: cost,
		Duration:      aw.Duration,
		Tips:          aw.Tips,
	}
}

// coerceType maps the model's type string onto the closed enum. Common
// near-misses are folded in; anything unrecognized becomes "other".
func coerceType(t string) domain.ActivityType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "transportation", "transport", "flight", "train", "transfer":
		return domain.ActivityTransportation
	case "accommodation", "hotel", "lodging":
		return domain.ActivityAccommodation
	case "attraction", "sightseeing", "activity":
		return domain.ActivityAttraction
	case "restaurant", "food", "dining", "meal":
		return domain.ActivityRestaurant
	default:
		return domain.ActivityOther
	}
}

// startDate resolves the plan's start: the model's value if it parses, else
// the request's, else today (UTC).
func startDate(fromModel string, req domain.TripRequest) time.Time {
	if t, err := time.Parse(dateLayout, fromModel); err == nil {
		return t
	}
	if t, err := time.Parse(dateLayout, req.StartDate); err == nil {
		return t
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// snippet returns a short prefix of s for parse-error diagnostics.
func snippet(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
