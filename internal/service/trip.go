package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repo"
)

// TripService implements business logic for saving and retrieving trips.
// All operations are scoped to the owner supplied by the HTTP layer.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Save persists a generated plan as a trip owned by owner. The trip's scalar
// columns (destination, days, dates, budget) are derived from the plan so the
// stored row and its JSONB payload can never disagree.
func (s *TripService) Save(ctx context.Context, owner string, plan domain.TripPlan) (domain.Trip, error) {
	if strings.TrimSpace(owner) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w: owner is required", domain.ErrValidation)
	}
	if strings.TrimSpace(plan.Destination) == "" {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w: plan has no destination", domain.ErrValidation)
	}
	if plan.Days < domain.MinDays || plan.Days > domain.MaxDays {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w: plan days out of range", domain.ErrValidation)
	}

	start, err := time.Parse("2006-01-02", plan.StartDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w: bad start date %q", domain.ErrValidation, plan.StartDate)
	}
	end, err := time.Parse("2006-01-02", plan.EndDate)
	if err != nil {
		// EndDate is computed during parsing; recover rather than reject.
		end = start.AddDate(0, 0, plan.Days-1)
	}

	title := plan.Title
	if title == "" {
		title = fmt.Sprintf("%s %d-day trip", plan.Destination, plan.Days)
	}

	trip := domain.Trip{
		Owner:       owner,
		Destination: plan.Destination,
		Title:       title,
		Days:        plan.Days,
		Travelers:   plan.Travelers,
		Budget:      plan.Budget,
		StartDate:   start,
		EndDate:     end,
		Plan:        plan,
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip owned by owner.
func (s *TripService) GetByID(ctx context.Context, owner string, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns one page of the owner's trips plus the total count.
func (s *TripService) List(ctx context.Context, owner string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.repo.ListPaged(ctx, owner, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, total, nil
}

// Delete removes a trip owned by owner. Its expenses cascade at the DB level.
func (s *TripService) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
