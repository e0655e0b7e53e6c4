package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/planweave/planweave/internal/domain"
)

// expenseCreateRequest is the body of POST /trips/{tripID}/expenses.
// SpentAt defaults to now when omitted.
type expenseCreateRequest struct {
	Day         int        `json:"day"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	SpentAt     *time.Time `json:"spentAt"`
}

// AddExpense handles POST /trips/{tripID}/expenses.
func (s *Server) AddExpense(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req expenseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	e := domain.Expense{
		Day:         req.Day,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if req.SpentAt != nil {
		e.SpentAt = *req.SpentAt
	}

	created, err := s.expenses.Add(r.Context(), o, tripID, e)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListExpenses handles GET /trips/{tripID}/expenses.
func (s *Server) ListExpenses(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	expenses, err := s.expenses.List(r.Context(), o, tripID)
	if err != nil {
		respondError(w, err)
		return
	}
	if expenses == nil {
		expenses = []domain.Expense{}
	}

	writeJSON(w, http.StatusOK, map[string][]domain.Expense{"expenses": expenses})
}

// DeleteExpense handles DELETE /trips/{tripID}/expenses/{expenseID}.
func (s *Server) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "expenseID")
	if !ok {
		return
	}

	if err := s.expenses.Delete(r.Context(), o, tripID, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExpenseSummary handles GET /trips/{tripID}/expenses/summary.
func (s *Server) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	o, ok := owner(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	summary, err := s.expenses.Summary(r.Context(), o, tripID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
