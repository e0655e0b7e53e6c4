// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce business rules, and orchestrate the model
// client, extraction pipeline, and repos. No SQL and no HTTP live here.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/extract"
	"github.com/planweave/planweave/internal/planner"
)

// generateTimeout bounds the model round trip for a full itinerary. Long
// multi-day plans routinely take tens of seconds to generate.
const generateTimeout = 60 * time.Second

// ChatClient is the single model operation the planner depends on.
// internal/llm.Client satisfies it.
type ChatClient interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// PlannerService generates normalized trip plans from user requests.
type PlannerService struct {
	llm ChatClient
}

// NewPlannerService constructs a PlannerService backed by the given model client.
func NewPlannerService(llm ChatClient) *PlannerService {
	return &PlannerService{llm: llm}
}

// Generate produces a complete, normalized itinerary for the request.
//
// The pipeline: validate the request, prompt the model, carve the JSON object
// out of whatever prose surrounds it, then parse it leniently (parsing runs
// the lodging continuity pass over the daily plans). The result is final —
// it is returned to the client for review and only persisted by an explicit
// save.
func (s *PlannerService) Generate(ctx context.Context, req domain.TripRequest) (domain.TripPlan, error) {
	if err := req.Validate(); err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.PlannerService.Generate: %w", err)
	}
	if s.llm == nil {
		return domain.TripPlan{}, fmt.Errorf("service.PlannerService.Generate: %w: no model configured", domain.ErrUpstream)
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	raw, err := s.llm.Chat(ctx, planner.BuildPlanPrompt(req))
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.PlannerService.Generate: %w", err)
	}

	obj, err := extract.JSONObject(raw)
	if err != nil {
		// The balanced walk found nothing complete — the response may have been
		// truncated mid-object. Take the loose span and let the parser's repair
		// pass have a go at it.
		loose, ok := extract.LooseSpan(raw)
		if !ok {
			return domain.TripPlan{}, fmt.Errorf("service.PlannerService.Generate: %w", err)
		}
		obj = loose
	}

	plan, err := planner.ParsePlan(obj, req)
	if err != nil {
		return domain.TripPlan{}, fmt.Errorf("service.PlannerService.Generate: %w", err)
	}
	return plan, nil
}
