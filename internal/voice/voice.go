// Package voice maps a speech transcript onto structured trip-request
// fields. Two strategies exist: a model-assisted extraction with strict
// domain validation, and a local pattern-matching fallback. Fields the
// transcript does not evidently specify stay unset — never guessed.
package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/extract"
	"github.com/planweave/planweave/internal/planner"
)

// ChatClient is the single model operation the extractor depends on.
// internal/llm.Client satisfies it.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// Extractor turns transcripts into partial trip requests.
// A nil client selects the heuristic strategy outright.
type Extractor struct {
	client ChatClient
}

// NewExtractor constructs an Extractor. client may be nil when no model is
// configured; extraction then uses the local heuristics only.
func NewExtractor(client ChatClient) *Extractor {
	return &Extractor{client: client}
}

// allowed label domains for the model-assisted strategy; values outside
// these sets are dropped, not clamped.
var (
	allowedPreferences = labelSet(preferenceVocab)
	allowedTypes       = labelSet(travelerTypeVocab)
)

func labelSet(vocab []struct{ keyword, label string }) map[string]bool {
	set := map[string]bool{}
	for _, v := range vocab {
		set[v.label] = true
	}
	return set
}

// fieldsWire is the decode target for the model's extraction response.
type fieldsWire struct {
	Destination    string   `json:"destination"`
	Days           int      `json:"days"`
	Budget         float64  `json:"budget"`
	Travelers      int      `json:"travelers"`
	TravelerTypes  []string `json:"travelerTypes"`
	Preferences    []string `json:"preferences"`
	StartDate      string   `json:"startDate"`
	AdditionalInfo string   `json:"additionalInfo"`
}

// Extract maps the transcript to trip-request fields. With a configured
// client it tries the model first and falls back to the local heuristics on
// any call, extraction, or parse failure. Extract itself never fails: an
// unintelligible transcript degrades to AdditionalInfo.
func (e *Extractor) Extract(ctx context.Context, transcript string) domain.TripRequest {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return domain.TripRequest{}
	}
	if e.client != nil {
		if req, err := e.extractWithModel(ctx, transcript); err == nil {
			return req
		}
	}
	return extractHeuristic(transcript)
}

// modelTimeout bounds the model round trip. Voice extraction is interactive,
// so a slow model answer is worth less than a fast heuristic one.
const modelTimeout = 15 * time.Second

func (e *Extractor) extractWithModel(ctx context.Context, transcript string) (domain.TripRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, modelTimeout)
	defer cancel()

	raw, err := e.client.Chat(ctx, buildExtractionPrompt(transcript))
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("voice.Extractor.extractWithModel: %w", err)
	}
	obj, err := extract.JSONObject(raw)
	if err != nil {
		return domain.TripRequest{}, fmt.Errorf("voice.Extractor.extractWithModel: %w", err)
	}
	var wire fieldsWire
	if err := json.Unmarshal([]byte(planner.Sanitize(obj)), &wire); err != nil {
		return domain.TripRequest{}, fmt.Errorf("voice.Extractor.extractWithModel: %w: %v", domain.ErrParse, err)
	}
	return validateFields(wire), nil
}

// validateFields checks every extracted field against its declared domain.
// A violating field is dropped and extraction continues for the others.
func validateFields(w fieldsWire) domain.TripRequest {
	req := domain.TripRequest{
		Destination:    strings.TrimSpace(w.Destination),
		AdditionalInfo: strings.TrimSpace(w.AdditionalInfo),
	}
	if w.Days >= domain.MinDays && w.Days <= domain.MaxDays {
		req.Days = w.Days
	}
	if w.Travelers >= domain.MinTravelers && w.Travelers <= domain.MaxTravelers {
		req.Travelers = w.Travelers
	}
	if w.Budget >= domain.MinBudget {
		req.Budget = w.Budget
	}
	if _, err := time.Parse("2006-01-02", w.StartDate); err == nil {
		req.StartDate = w.StartDate
	}
	req.Preferences = keepAllowed(w.Preferences, allowedPreferences)
	req.TravelerTypes = keepAllowed(w.TravelerTypes, allowedTypes)
	return req
}

func keepAllowed(values []string, allowed map[string]bool) []string {
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if allowed[v] {
			out = append(out, v)
		}
	}
	return out
}

// buildExtractionPrompt renders the structured extraction prompt, constrained
// to the enumerated label sets and numeric ranges the validator enforces.
func buildExtractionPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("Extract trip planning fields from the following utterance. ")
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"destination": "", "days": 0, "budget": 0, "travelers": 0, "travelerTypes": [], "preferences": [], "startDate": "", "additionalInfo": ""}` + "\n")
	b.WriteString("Constraints: days 1-30; travelers 1-20; budget >= 100; startDate formatted YYYY-MM-DD; ")
	fmt.Fprintf(&b, "preferences only from %s; travelerTypes only from %s. ", labelList(allowedPreferences), labelList(allowedTypes))
	b.WriteString("Omit (zero/empty) every field the utterance does not state. Put anything else relevant into additionalInfo.\n\nUtterance: ")
	b.WriteString(transcript)
	return b.String()
}

func labelList(set map[string]bool) string {
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	// Stable order keeps prompts deterministic.
	sort.Strings(labels)
	return "[" + strings.Join(labels, ", ") + "]"
}
