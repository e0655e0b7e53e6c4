package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/repo"
	"github.com/planweave/planweave/testutil"
)

// expenseTestRepos returns trip and expense repos sharing one rolled-back
// transaction, plus a created trip to hang expenses off.
func expenseTestRepos(t *testing.T) (repo.ExpenseRepo, domain.Trip) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	trips := repo.NewTripRepo(tx)
	trip, err := trips.Create(context.Background(), tripFixture())
	require.NoError(t, err, "create parent trip")

	return repo.NewExpenseRepo(tx), trip
}

func expenseFixture(tripID uuid.UUID) domain.Expense {
	return domain.Expense{
		TripID:      tripID,
		Day:         1,
		Category:    "food",
		Description: "ramen lunch",
		Amount:      24.5,
		SpentAt:     time.Date(2026, 4, 1, 12, 30, 0, 0, time.UTC),
	}
}

func TestExpenseRepo_Create(t *testing.T) {
	r, trip := expenseTestRepos(t)
	ctx := context.Background()

	input := expenseFixture(trip.ID)
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, trip.ID, got.TripID)
	assert.Equal(t, input.Day, got.Day)
	assert.Equal(t, input.Category, got.Category)
	assert.Equal(t, input.Description, got.Description)
	assert.InDelta(t, input.Amount, got.Amount, 0.001)
	assert.True(t, got.SpentAt.Equal(input.SpentAt), "SpentAt mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestExpenseRepo_ListByTripID(t *testing.T) {
	r, trip := expenseTestRepos(t)
	ctx := context.Background()

	later := expenseFixture(trip.ID)
	later.Description = "dinner"
	later.SpentAt = later.SpentAt.Add(6 * time.Hour)

	earlier := expenseFixture(trip.ID)
	earlier.Description = "lunch"

	_, err := r.Create(ctx, later)
	require.NoError(t, err)
	_, err = r.Create(ctx, earlier)
	require.NoError(t, err)

	got, err := r.ListByTripID(ctx, trip.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Ordered by spend time, not insertion order.
	assert.Equal(t, "lunch", got[0].Description)
	assert.Equal(t, "dinner", got[1].Description)
}

func TestExpenseRepo_ListByTripID_Empty(t *testing.T) {
	r, trip := expenseTestRepos(t)

	got, err := r.ListByTripID(context.Background(), trip.ID)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpenseRepo_Delete(t *testing.T) {
	r, trip := expenseTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, expenseFixture(trip.ID))
	require.NoError(t, err)

	err = r.Delete(ctx, trip.ID, created.ID)
	require.NoError(t, err)

	got, err := r.ListByTripID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpenseRepo_Delete_WrongTrip(t *testing.T) {
	r, trip := expenseTestRepos(t)
	ctx := context.Background()

	created, err := r.Create(ctx, expenseFixture(trip.ID))
	require.NoError(t, err)

	err = r.Delete(ctx, uuid.New(), created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpenseRepo_SumByCategory(t *testing.T) {
	r, trip := expenseTestRepos(t)
	ctx := context.Background()

	entries := []domain.Expense{
		{TripID: trip.ID, Category: "food", Amount: 20, SpentAt: time.Now()},
		{TripID: trip.ID, Category: "food", Amount: 35, SpentAt: time.Now()},
		{TripID: trip.ID, Category: "transportation", Amount: 12, SpentAt: time.Now()},
	}
	for _, e := range entries {
		_, err := r.Create(ctx, e)
		require.NoError(t, err)
	}

	sums, err := r.SumByCategory(ctx, trip.ID)

	require.NoError(t, err)
	assert.InDelta(t, 55, sums["food"], 0.001)
	assert.InDelta(t, 12, sums["transportation"], 0.001)
	_, present := sums["accommodation"]
	assert.False(t, present, "untouched categories are absent, not zero")
}
