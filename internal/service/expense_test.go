package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repo"
	"github.com/planweave/planweave/internal/service"
)

// mockExpenseRepo is a hand-written test double for repo.ExpenseRepo.
type mockExpenseRepo struct {
	create        func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	delete        func(ctx context.Context, tripID, id uuid.UUID) error
	sumByCategory func(ctx context.Context, tripID uuid.UUID) (map[string]float64, error)
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}
func (m *mockExpenseRepo) SumByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error) {
	return m.sumByCategory(ctx, tripID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// ---- helpers ---------------------------------------------------------------

// ownedTripRepo returns a mockTripRepo whose GetByID succeeds for testOwner
// and returns ErrNotFound for anyone else.
func ownedTripRepo(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(ctx context.Context, owner string, id uuid.UUID) (domain.Trip, error) {
			if owner != trip.Owner || id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}

func ownedTrip() domain.Trip {
	return domain.Trip{
		ID:     uuid.New(),
		Owner:  "user-abc",
		Days:   3,
		Budget: 5000,
		Plan: domain.TripPlan{
			BudgetBreakdown: domain.BudgetBreakdown{Food: 800, Accommodation: 1500},
		},
	}
}

// ---- Add -------------------------------------------------------------------

func TestExpenseService_Add(t *testing.T) {
	trip := ownedTrip()
	expenses := &mockExpenseRepo{
		create: func(ctx context.Context, e domain.Expense) (domain.Expense, error) {
			e.ID = uuid.New()
			return e, nil
		},
	}
	svc := service.NewExpenseService(ownedTripRepo(trip), expenses)

	got, err := svc.Add(context.Background(), "user-abc", trip.ID, domain.Expense{
		Day: 2, Category: "food", Amount: 30,
	})

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.TripID)
	assert.False(t, got.SpentAt.IsZero(), "SpentAt defaults to now when omitted")
}

func TestExpenseService_Add_WrongOwner(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.Add(context.Background(), "someone-else", trip.ID, domain.Expense{
		Category: "food", Amount: 30,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseService_Add_UnknownCategory(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.Add(context.Background(), "user-abc", trip.ID, domain.Expense{
		Category: "souvenirs", Amount: 30,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenseService_Add_NegativeAmount(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.Add(context.Background(), "user-abc", trip.ID, domain.Expense{
		Category: "food", Amount: -5,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenseService_Add_DayBeyondTrip(t *testing.T) {
	trip := ownedTrip() // 3 days
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.Add(context.Background(), "user-abc", trip.ID, domain.Expense{
		Day: 4, Category: "food", Amount: 30,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpenseService_Add_KeepsExplicitSpentAt(t *testing.T) {
	trip := ownedTrip()
	spent := time.Date(2026, 4, 2, 19, 0, 0, 0, time.UTC)
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{
		create: func(ctx context.Context, e domain.Expense) (domain.Expense, error) {
			return e, nil
		},
	})

	got, err := svc.Add(context.Background(), "user-abc", trip.ID, domain.Expense{
		Category: "food", Amount: 30, SpentAt: spent,
	})

	require.NoError(t, err)
	assert.True(t, got.SpentAt.Equal(spent))
}

// ---- List / Delete ---------------------------------------------------------

func TestExpenseService_List_WrongOwner(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.List(context.Background(), "someone-else", trip.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseService_Delete(t *testing.T) {
	trip := ownedTrip()
	deleted := false
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{
		delete: func(ctx context.Context, tripID, id uuid.UUID) error {
			assert.Equal(t, trip.ID, tripID)
			deleted = true
			return nil
		},
	})

	err := svc.Delete(context.Background(), "user-abc", trip.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, deleted)
}

// ---- Summary ---------------------------------------------------------------

func TestExpenseService_Summary(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{
		sumByCategory: func(ctx context.Context, tripID uuid.UUID) (map[string]float64, error) {
			return map[string]float64{"food": 120, "transportation": 40}, nil
		},
	})

	got, err := svc.Summary(context.Background(), "user-abc", trip.ID)

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.TripID)
	assert.InDelta(t, 160, got.Total, 0.001)
	assert.InDelta(t, 5000, got.Budget, 0.001)
	assert.InDelta(t, 4840, got.Remaining, 0.001)
	assert.InDelta(t, 1500, got.PlanBudget.Accommodation, 0.001)

	// All five buckets present, zero-filled where nothing was spent.
	require.Len(t, got.ByCategory, len(domain.ExpenseCategories))
	assert.InDelta(t, 120, got.ByCategory["food"], 0.001)
	assert.InDelta(t, 0, got.ByCategory["accommodation"], 0.001)
}

func TestExpenseService_Summary_WrongOwner(t *testing.T) {
	trip := ownedTrip()
	svc := service.NewExpenseService(ownedTripRepo(trip), &mockExpenseRepo{})

	_, err := svc.Summary(context.Background(), "someone-else", trip.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
