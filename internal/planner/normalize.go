package planner

import (
	"strings"

	"github.com/planweave/planweave/internal/domain"
)

// Descriptions and times for the bookkeeping lodging markers the normalizer
// inserts. Markers always carry zero cost; the check-in entry keeps the real
// nightly charge.
const (
	departDescription = "depart from hotel"
	returnDescription = "return to hotel to rest"
	morningTime       = "08:00"
	eveningTime       = "20:00"
)

// Normalize enforces the lodging-continuity invariant over a day sequence:
// every day except possibly the last starts and ends at a consistent lodging,
// the lodging at day N's end is the lodging at day N+1's start, and per-day
// costs are recomputed so a hotel stay is never double counted.
//
// The pass is a fold over the days threading previousNightLodging forward;
// day N's output depends only on day N-1's carried lodging. Normalize never
// fails: missing lodging is synthesized as a "{destination} hotel"
// placeholder, because a renderable, possibly-wrong itinerary beats rejecting
// the model's output outright. Running Normalize on its own output is a no-op.
func Normalize(days []domain.DayPlan, destination string) []domain.DayPlan {
	out := make([]domain.DayPlan, 0, len(days))
	var prev *domain.Activity // previous night's lodging, nil before day 1
	for i, day := range days {
		norm, next := normalizeDay(day, prev, destination, i == 0, i == len(days)-1)
		out = append(out, norm)
		prev = next
	}
	return out
}

// normalizeDay produces the normalized form of one day and the lodging to
// carry into the next day.
func normalizeDay(day domain.DayPlan, prev *domain.Activity, destination string, first, last bool) (domain.DayPlan, *domain.Activity) {
	acts := day.Activities
	if len(acts) == 0 {
		// An empty day is not an error; continuity passes through it.
		return domain.DayPlan{Day: day.Day, Date: day.Date, Activities: []domain.Activity{}}, prev
	}

	primary := primaryLodging(acts)

	// --- Day start --------------------------------------------------------
	var output []domain.Activity
	consumedFirst := false   // acts[0] replaced by the opening marker
	openingFromPrev := false // opening marker carries last night's lodging
	hasOpening := false
	var dayLodging domain.Activity // lodging identity backing this day

	switch {
	case first && acts[0].IsTransportation():
		// The trip begins with travel to the destination; the transportation
		// activity stays first verbatim and no opening marker is inserted.
		if idx := firstAccommodationAfter(acts, 0); idx >= 0 {
			dayLodging = acts[idx]
		} else if primary != nil {
			dayLodging = *primary
		} else {
			dayLodging = placeholderLodging(destination)
		}
	case first:
		if primary != nil {
			dayLodging = *primary
		} else {
			dayLodging = placeholderLodging(destination)
		}
		consumedFirst = consumableAsMarker(acts[0])
		output = append(output, openingMarker(dayLodging))
		hasOpening = true
	default:
		// Continuity overrides whatever the model proposed for the day's
		// start: the previous night's lodging opens the day.
		switch {
		case prev != nil:
			dayLodging = *prev
			openingFromPrev = true
		case primary != nil:
			dayLodging = *primary
		default:
			dayLodging = placeholderLodging(destination)
		}
		consumedFirst = consumableAsMarker(acts[0])
		output = append(output, openingMarker(dayLodging))
		hasOpening = true
	}

	// --- Middle: original order, minus the consumed proposed start --------
	for i, a := range acts {
		if i == 0 && consumedFirst {
			continue
		}
		output = append(output, a)
	}

	// --- Day end ----------------------------------------------------------
	endsWithTransport := last && acts[len(acts)-1].IsTransportation()
	var authoritative domain.Activity
	if endsWithTransport {
		// A return trip closes the itinerary: the transportation entry is
		// already last (the middle loop keeps the original order) and no
		// closing lodging is appended.
		authoritative = dayLodging
	} else {
		chosen := closingLodging(acts, prev, primary, dayLodging)
		lastIdx := len(output) - 1
		switch {
		case lastIdx >= 0 && output[lastIdx].IsAccommodation() && !(hasOpening && lastIdx == 0):
			// The model already ended the day at a hotel: keep the entry but
			// give it the chosen lodging's identity. A positive cost on a
			// non-marker entry is the real check-in charge and survives.
			cur := output[lastIdx]
			cur.Name = chosen.Name
			cur.Location = chosen.Location.Clone()
			if !(cur.EstimatedCost > 0 && !isMarkerDescription(cur.Description)) {
				cur.EstimatedCost = 0
				cur.Description = returnDescription
			}
			output[lastIdx] = cur
			authoritative = cur
		case !last:
			closing := chosen
			closing.Time = eveningTime
			closing.EstimatedCost = 0
			closing.Description = returnDescription
			closing.Location = chosen.Location.Clone()
			closing.Tips = nil
			closing.Duration = ""
			output = append(output, closing)
			authoritative = closing
		default:
			// Final day: the traveler goes home, so no closing lodging is
			// appended; the chosen lodging still anchors reconciliation.
			authoritative = chosen
		}
	}

	// --- Same-day lodging reconciliation ----------------------------------
	// The authoritative lodging adopts the richest known address when its
	// own record lacks one: the model often splits the same stay across a
	// mention that carries the address and a check-in that carries the
	// charge. Only same-named records merge; gluing another hotel's address
	// onto a genuine hotel change would fabricate a location.
	if authoritative.Location.Address == "" && primary != nil &&
		primary.Location.Address != "" && strings.EqualFold(primary.Name, authoritative.Name) {
		authoritative.Location = primary.Location.Clone()
	}

	// Every lodging mention in the day then collapses onto the authoritative
	// lodging's identity and location: a day has one hotel, and a morning
	// mention must not drift from the evening check-in in either name or
	// address. Identity must be folded along with the location, or a repeat
	// pass would re-run the primary tie-break against rewritten records and
	// pick a different opener. The opening continuity marker is exempt: it
	// denotes last night's hotel, and rewriting it on a hotel-change day
	// would retroactively break the previous day's continuity.
	for i := range output {
		if !output[i].IsAccommodation() {
			continue
		}
		if openingFromPrev && i == 0 {
			continue
		}
		output[i].Name = authoritative.Name
		output[i].Location = authoritative.Location.Clone()
	}

	// --- Cost recomputation -----------------------------------------------
	// Markers are zero-cost bookkeeping; only a positive accommodation cost
	// is a real check-in charge, counted once.
	var cost float64
	for _, a := range output {
		if a.IsAccommodation() {
			if a.EstimatedCost > 0 {
				cost += a.EstimatedCost
			}
			continue
		}
		cost += a.EstimatedCost
	}

	next := authoritative
	next.Location = authoritative.Location.Clone()
	return domain.DayPlan{
		Day:           day.Day,
		Date:          day.Date,
		Activities:    output,
		EstimatedCost: cost,
	}, &next
}

// primaryLodging picks the most informative accommodation record of the day:
// address presence beats cost beats description length. The model often lists
// the same hotel twice (arrival and departure) with different completeness,
// and this tie-break picks the richer record. Returns nil when the day has no
// accommodation activity.
func primaryLodging(acts []domain.Activity) *domain.Activity {
	var best *domain.Activity
	for i := range acts {
		if !acts[i].IsAccommodation() {
			continue
		}
		if best == nil || betterLodging(acts[i], *best) {
			a := acts[i]
			best = &a
		}
	}
	return best
}

// betterLodging reports whether a is a strictly more informative lodging
// record than b, in the fixed priority order: non-empty address, then higher
// estimated cost, then longer description.
func betterLodging(a, b domain.Activity) bool {
	aAddr := a.Location.Address != ""
	bAddr := b.Location.Address != ""
	if aAddr != bAddr {
		return aAddr
	}
	if a.EstimatedCost != b.EstimatedCost {
		return a.EstimatedCost > b.EstimatedCost
	}
	return len(a.Description) > len(b.Description)
}

// closingLodging selects the lodging that ends the day, in priority order:
// the most informative positive-cost accommodation entry (the actual
// check-in, by the same tie-break as primaryLodging), then one whose address
// differs from last night's (a hotel change), then the primary.
func closingLodging(acts []domain.Activity, prev *domain.Activity, primary *domain.Activity, fallback domain.Activity) domain.Activity {
	var checkIn *domain.Activity
	for i := range acts {
		if !acts[i].IsAccommodation() || acts[i].EstimatedCost <= 0 {
			continue
		}
		if checkIn == nil || betterLodging(acts[i], *checkIn) {
			a := acts[i]
			checkIn = &a
		}
	}
	if checkIn != nil {
		return *checkIn
	}
	if prev != nil {
		for _, a := range acts {
			if a.IsAccommodation() && a.Location.Address != "" && a.Location.Address != prev.Location.Address {
				return a
			}
		}
	}
	if primary != nil {
		return *primary
	}
	return fallback
}

// openingMarker builds the zero-cost depart-from-hotel entry that opens a day.
func openingMarker(lodging domain.Activity) domain.Activity {
	return domain.Activity{
		Time:          morningTime,
		Type:          domain.ActivityAccommodation,
		Name:          lodging.Name,
		Description:   departDescription,
		Location:      lodging.Location.Clone(),
		EstimatedCost: 0,
	}
}

// placeholderLodging synthesizes a lodging when the model supplied none at
// all. Deliberately generic: the UI can still render and the user can edit.
func placeholderLodging(destination string) domain.Activity {
	return domain.Activity{
		Time:          morningTime,
		Type:          domain.ActivityAccommodation,
		Name:          destination + " hotel",
		EstimatedCost: 0,
	}
}

// consumableAsMarker reports whether the day's proposed first activity is a
// zero-cost lodging mention that the opening marker replaces outright. A
// priced first entry is a real check-in and survives mid-day instead, so its
// charge is not lost.
func consumableAsMarker(a domain.Activity) bool {
	return a.IsAccommodation() && a.EstimatedCost == 0
}

// isMarkerDescription reports whether a description already marks a
// zero-cost depart/return bookkeeping entry.
func isMarkerDescription(desc string) bool {
	d := strings.ToLower(desc)
	return strings.Contains(d, "depart") || strings.Contains(d, "return")
}

// firstAccommodationAfter returns the index of the first accommodation
// activity strictly after position i, or -1.
func firstAccommodationAfter(acts []domain.Activity, i int) int {
	for j := i + 1; j < len(acts); j++ {
		if acts[j].IsAccommodation() {
			return j
		}
	}
	return -1
}
