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

const testOwner = "user-abc"

// newTestTripRepo opens a transaction against the test database and returns a
// TripRepo backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx)
}

// tripFixture returns a domain.Trip with a small but realistic plan payload.
// Callers can override individual fields after calling this function.
func tripFixture() domain.Trip {
	return domain.Trip{
		Owner:       testOwner,
		Destination: "Kyoto",
		Title:       "Kyoto 3-day trip",
		Days:        3,
		Travelers:   2,
		Budget:      5000,
		StartDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		Plan: domain.TripPlan{
			Title:       "Kyoto 3-day trip",
			Destination: "Kyoto",
			StartDate:   "2026-04-01",
			EndDate:     "2026-04-03",
			Days:        3,
			Budget:      5000,
			Travelers:   2,
			Overview: domain.Overview{
				Highlights: []string{"Fushimi Inari"},
				Tips:       []string{"buy a bus day pass"},
				Summary:    "Temples and food.",
			},
			DailyPlans: []domain.DayPlan{
				{
					Day:  1,
					Date: "2026-04-01",
					Activities: []domain.Activity{
						{Time: "10:00", Type: domain.ActivityAttraction, Name: "Fushimi Inari", EstimatedCost: 0},
					},
				},
			},
			BudgetBreakdown: domain.BudgetBreakdown{Food: 800, Accommodation: 1500},
		},
	}
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	input := tripFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Owner, got.Owner)
	assert.Equal(t, input.Destination, got.Destination)
	assert.Equal(t, input.Title, got.Title)
	assert.Equal(t, input.Days, got.Days)
	assert.True(t, got.StartDate.Equal(input.StartDate), "StartDate mismatch")
	assert.True(t, got.EndDate.Equal(input.EndDate), "EndDate mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")

	// The full plan round-trips through the JSONB column.
	assert.Equal(t, input.Plan, got.Plan)
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, testOwner, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Plan.DailyPlans, got.Plan.DailyPlans)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	_, err := r.GetByID(ctx, testOwner, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_GetByID_WrongOwner(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	// Another user cannot see this trip even with the right ID.
	_, err = r.GetByID(ctx, "someone-else", created.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_ListPaged(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	t1 := tripFixture()
	t1.Title = "Earlier Trip"

	t2 := tripFixture()
	t2.Title = "Later Trip"
	t2.StartDate = t1.StartDate.AddDate(0, 1, 0)
	t2.EndDate = t1.EndDate.AddDate(0, 1, 0)

	_, err := r.Create(ctx, t1)
	require.NoError(t, err)
	_, err = r.Create(ctx, t2)
	require.NoError(t, err)

	got, total, err := r.ListPaged(ctx, testOwner, domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	// Most recent start date first.
	assert.Equal(t, "Later Trip", got[0].Title)
	assert.Equal(t, "Earlier Trip", got[1].Title)
}

func TestTripRepo_ListPaged_ScopedToOwner(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	mine := tripFixture()
	theirs := tripFixture()
	theirs.Owner = "someone-else"

	_, err := r.Create(ctx, mine)
	require.NoError(t, err)
	_, err = r.Create(ctx, theirs)
	require.NoError(t, err)

	got, total, err := r.ListPaged(ctx, testOwner, domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, testOwner, got[0].Owner)
}

func TestTripRepo_ListPaged_Pagination(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		trip := tripFixture()
		trip.StartDate = trip.StartDate.AddDate(0, 0, i*7)
		trip.EndDate = trip.EndDate.AddDate(0, 0, i*7)
		_, err := r.Create(ctx, trip)
		require.NoError(t, err)
	}

	page1, total, err := r.ListPaged(ctx, testOwner, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total, "total reflects all rows, not the page size")
	assert.Len(t, page1, 2)

	page2, _, err := r.ListPaged(ctx, testOwner, domain.PaginationParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestTripRepo_Delete(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	err = r.Delete(ctx, testOwner, created.ID)
	require.NoError(t, err)

	_, err = r.GetByID(ctx, testOwner, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	err := r.Delete(ctx, testOwner, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_WrongOwner(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	err = r.Delete(ctx, "someone-else", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Still there for the real owner.
	_, err = r.GetByID(ctx, testOwner, created.ID)
	assert.NoError(t, err)
}
