package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/domain"
	"github.com/planweave/planweave/internal/handler"
)

// mockExpenseService is a hand-written test double for handler.ExpenseServicer.
type mockExpenseService struct {
	add     func(ctx context.Context, owner string, tripID uuid.UUID, e domain.Expense) (domain.Expense, error)
	list    func(ctx context.Context, owner string, tripID uuid.UUID) ([]domain.Expense, error)
	delete  func(ctx context.Context, owner string, tripID, id uuid.UUID) error
	summary func(ctx context.Context, owner string, tripID uuid.UUID) (domain.ExpenseSummary, error)
}

func (m *mockExpenseService) Add(ctx context.Context, owner string, tripID uuid.UUID, e domain.Expense) (domain.Expense, error) {
	return m.add(ctx, owner, tripID, e)
}
func (m *mockExpenseService) List(ctx context.Context, owner string, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.list(ctx, owner, tripID)
}
func (m *mockExpenseService) Delete(ctx context.Context, owner string, tripID, id uuid.UUID) error {
	return m.delete(ctx, owner, tripID, id)
}
func (m *mockExpenseService) Summary(ctx context.Context, owner string, tripID uuid.UUID) (domain.ExpenseSummary, error) {
	return m.summary(ctx, owner, tripID)
}

var _ handler.ExpenseServicer = (*mockExpenseService)(nil)

func expenseRouter(m *mockExpenseService) http.Handler {
	return handler.NewServer(nil, nil, nil, m, nil).Routes()
}

func TestAddExpense_returns201(t *testing.T) {
	tripID := uuid.New()
	m := &mockExpenseService{
		add: func(ctx context.Context, owner string, gotTrip uuid.UUID, e domain.Expense) (domain.Expense, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, "food", e.Category)
			assert.InDelta(t, 24.5, e.Amount, 0.001)
			e.ID = uuid.New()
			e.TripID = gotTrip
			return e, nil
		},
	}

	body := `{"day": 1, "category": "food", "description": "ramen", "amount": 24.5}`
	req := httptest.NewRequest(http.MethodPost, "/trips/"+tripID.String()+"/expenses", strings.NewReader(body))
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got domain.Expense
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, tripID, got.TripID)
}

func TestAddExpense_unknownCategoryReturns400(t *testing.T) {
	m := &mockExpenseService{
		add: func(ctx context.Context, owner string, tripID uuid.UUID, e domain.Expense) (domain.Expense, error) {
			return domain.Expense{}, domain.ErrValidation
		},
	}

	body := `{"category": "souvenirs", "amount": 10}`
	req := httptest.NewRequest(http.MethodPost, "/trips/"+uuid.NewString()+"/expenses", strings.NewReader(body))
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListExpenses_returns200WithEmptyArray(t *testing.T) {
	m := &mockExpenseService{
		list: func(ctx context.Context, owner string, tripID uuid.UUID) ([]domain.Expense, error) {
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/expenses", nil)
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// A trip with no expenses yields [], not null.
	assert.JSONEq(t, `{"expenses": []}`, rec.Body.String())
}

func TestDeleteExpense_returns204(t *testing.T) {
	m := &mockExpenseService{
		delete: func(ctx context.Context, owner string, tripID, id uuid.UUID) error {
			return nil
		},
	}

	url := "/trips/" + uuid.NewString() + "/expenses/" + uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExpenseSummary_returns200(t *testing.T) {
	tripID := uuid.New()
	m := &mockExpenseService{
		summary: func(ctx context.Context, owner string, got uuid.UUID) (domain.ExpenseSummary, error) {
			return domain.ExpenseSummary{
				TripID:     tripID,
				ByCategory: map[string]float64{"food": 55, "transportation": 12, "accommodation": 0, "attractions": 0, "other": 0},
				Total:      67,
				Budget:     5000,
				Remaining:  4933,
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/expenses/summary", nil)
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ExpenseSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.InDelta(t, 67, got.Total, 0.001)
	assert.InDelta(t, 4933, got.Remaining, 0.001)
}

func TestExpenseSummary_tripNotFoundReturns404(t *testing.T) {
	m := &mockExpenseService{
		summary: func(ctx context.Context, owner string, tripID uuid.UUID) (domain.ExpenseSummary, error) {
			return domain.ExpenseSummary{}, domain.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/expenses/summary", nil)
	req.Header.Set("X-Owner", "user-abc")
	rec := httptest.NewRecorder()

	expenseRouter(m).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
