package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planweave/planweave/internal/domain"
)

// ExpenseRepo defines the persistence operations for trip expenses.
// Trip ownership is checked at the service layer; the repo only scopes by trip.
type ExpenseRepo interface {
	// Create inserts a new expense and returns the persisted record.
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// ListByTripID returns all expenses for a trip ordered by spent_at, then
	// creation time for stable ordering of same-day entries.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// Delete removes an expense belonging to the given trip.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, tripID, id uuid.UUID) error

	// SumByCategory returns the total spend per category for a trip.
	// Categories with no expenses are absent from the map.
	SumByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error)
}

type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db connection.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, day, category, description, amount, spent_at, created_at`

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, day, category, description, amount, spent_at)
		VALUES (@trip_id, @day, @category, @description, @amount, @spent_at)
		RETURNING ` + expenseColumns

	args := pgx.NamedArgs{
		"trip_id":     e.TripID,
		"day":         e.Day,
		"category":    e.Category,
		"description": e.Description,
		"amount":      e.Amount,
		"spent_at":    e.SpentAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY spent_at, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: scan: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTripID: rows: %w", err)
	}

	return expenses, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgExpenseRepo) SumByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error) {
	const q = `
		SELECT category, coalesce(sum(amount), 0)
		FROM expenses
		WHERE trip_id = @trip_id
		GROUP BY category`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.SumByCategory: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]float64)
	for rows.Next() {
		var (
			category string
			total    float64
		)
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("repo.ExpenseRepo.SumByCategory: scan: %w", err)
		}
		sums[category] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.SumByCategory: rows: %w", err)
	}

	return sums, nil
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e      domain.Expense
		id     pgtype.UUID
		tripID pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &e.Day, &e.Category, &e.Description, &e.Amount, &e.SpentAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	return e, nil
}
