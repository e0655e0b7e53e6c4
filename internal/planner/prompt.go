package planner

import (
	"fmt"
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

// planSchema is the exact JSON shape the model is asked to produce. The
// parser tolerates deviations, but an explicit example keeps them rare.
const planSchema = `{
  "title": "string",
  "startDate": "YYYY-MM-DD",
  "overview": {"highlights": ["string"], "tips": ["string"], "summary": "string"},
  "budgetBreakdown": {"transportation": 0, "accommodation": 0, "food": 0, "attractions": 0, "other": 0},
  "dailyPlans": [
    {
      "day": 1,
      "activities": [
        {
          "time": "HH:MM",
          "type": "transportation|accommodation|attraction|restaurant|other",
          "name": "string",
          "description": "string",
          "location": {"address": "string", "coordinates": {"lng": 0, "lat": 0}},
          "estimatedCost": 0,
          "duration": "string",
          "tips": ["string"]
        }
      ]
    }
  ]
}`

// BuildPlanPrompt renders the generation prompt for a trip request. The
// numbered rules mirror the invariants the normalizer enforces afterwards —
// the model will not reliably obey them, but stating them keeps its output
// close enough that normalization is a repair, not a rewrite.
func BuildPlanPrompt(req domain.TripRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s for %d traveler(s) with a total budget of %.0f.\n",
		req.Days, req.Destination, req.Travelers, req.Budget)
	if len(req.TravelerTypes) > 0 {
		fmt.Fprintf(&b, "The group includes: %s.\n", strings.Join(req.TravelerTypes, ", "))
	}
	if len(req.Preferences) > 0 {
		fmt.Fprintf(&b, "Preferences: %s.\n", strings.Join(req.Preferences, ", "))
	}
	if req.StartDate != "" {
		fmt.Fprintf(&b, "The trip starts on %s.\n", req.StartDate)
	}
	if req.AdditionalInfo != "" {
		fmt.Fprintf(&b, "Additional notes from the traveler: %s\n", req.AdditionalInfo)
	}
	b.WriteString("\nRespond with a single JSON object matching this schema exactly, and nothing else:\n")
	b.WriteString(planSchema)
	b.WriteString("\n\nRules:\n")
	b.WriteString("1. Every day except the last must start and end at a hotel (type \"accommodation\").\n")
	b.WriteString("2. The first day may start with a transportation activity for travel to the destination.\n")
	b.WriteString("3. The last day may end with a transportation activity for the return trip instead of a hotel.\n")
	b.WriteString("4. A transportation activity's location must be the arrival point, never the departure point.\n")
	b.WriteString("5. A hotel's location must be identical everywhere it is mentioned within the same day.\n")
	b.WriteString("6. Charge the nightly hotel cost on exactly one accommodation entry per day; depart/return mentions cost 0.\n")
	b.WriteString("7. All costs are in the traveler's local currency and must fit the total budget.\n")
	return b.String()
}
