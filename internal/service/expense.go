package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repo"
)

// ExpenseService implements business logic for recording spend against trips.
// Every operation first resolves the trip under the caller's owner scope, so
// a user can never read or write expenses on someone else's trip.
type ExpenseService struct {
	trips    repo.TripRepo
	expenses repo.ExpenseRepo
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(trips repo.TripRepo, expenses repo.ExpenseRepo) *ExpenseService {
	return &ExpenseService{trips: trips, expenses: expenses}
}

// Add validates and records a new expense against the owner's trip.
func (s *ExpenseService) Add(ctx context.Context, owner string, tripID uuid.UUID, e domain.Expense) (domain.Expense, error) {
	trip, err := s.trips.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Add: %w", err)
	}

	if !domain.ValidExpenseCategory(e.Category) {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Add: %w: unknown category %q", domain.ErrValidation, e.Category)
	}
	if e.Amount < 0 {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Add: %w: amount must not be negative", domain.ErrValidation)
	}
	if e.Day < 0 || e.Day > trip.Days {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Add: %w: day %d outside trip of %d days", domain.ErrValidation, e.Day, trip.Days)
	}
	if e.SpentAt.IsZero() {
		e.SpentAt = time.Now().UTC()
	}

	e.TripID = trip.ID
	created, err := s.expenses.Create(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Add: %w", err)
	}
	return created, nil
}

// List returns all expenses for the owner's trip in spend order.
func (s *ExpenseService) List(ctx context.Context, owner string, tripID uuid.UUID) ([]domain.Expense, error) {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	expenses, err := s.expenses.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	return expenses, nil
}

// Delete removes one expense from the owner's trip.
func (s *ExpenseService) Delete(ctx context.Context, owner string, tripID, id uuid.UUID) error {
	if _, err := s.trips.GetByID(ctx, owner, tripID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	if err := s.expenses.Delete(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

// Summary aggregates the trip's recorded spend next to its budgeted figures.
// Every category appears in ByCategory, zero-valued when nothing was spent,
// so clients can render all five buckets without special-casing gaps.
func (s *ExpenseService) Summary(ctx context.Context, owner string, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	trip, err := s.trips.GetByID(ctx, owner, tripID)
	if err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}

	sums, err := s.expenses.SumByCategory(ctx, tripID)
	if err != nil {
		return domain.ExpenseSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}

	byCategory := make(map[string]float64, len(domain.ExpenseCategories))
	var total float64
	for _, c := range domain.ExpenseCategories {
		byCategory[c] = sums[c]
		total += sums[c]
	}

	return domain.ExpenseSummary{
		TripID:     trip.ID,
		ByCategory: byCategory,
		Total:      total,
		Budget:     trip.Budget,
		PlanBudget: trip.Plan.BudgetBreakdown,
		Remaining:  trip.Budget - total,
	}, nil
}
