// Package repo contains all database access logic for the trip planner API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planweave/planweave/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for saved trips. All reads and
// deletes are scoped to the owning user.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip owned by owner.
	// Returns domain.ErrNotFound if no such trip exists under that owner.
	GetByID(ctx context.Context, owner string, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of the owner's trips ordered by start_date
	// descending, plus the total count for pagination.
	ListPaged(ctx context.Context, owner string, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Delete removes a trip owned by owner. Expenses cascade.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner, destination, title, days, travelers, budget, start_date, end_date, plan, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (owner, destination, title, days, travelers, budget, start_date, end_date, plan)
		VALUES (@owner, @destination, @title, @days, @travelers, @budget, @start_date, @end_date, @plan)
		RETURNING ` + tripColumns

	planJSON, err := json.Marshal(trip.Plan)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: marshal plan: %w", err)
	}

	args := pgx.NamedArgs{
		"owner":       trip.Owner,
		"destination": trip.Destination,
		"title":       trip.Title,
		"days":        trip.Days,
		"travelers":   trip.Travelers,
		"budget":      trip.Budget,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"plan":        planJSON,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key, scoped to its owner.
func (r *pgTripRepo) GetByID(ctx context.Context, owner string, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE id = @id AND owner = @owner`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner": owner})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of the owner's trips, most recent start first.
func (r *pgTripRepo) ListPaged(ctx context.Context, owner string, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE owner = @owner`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner": owner}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner = @owner
		ORDER BY start_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner": owner, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}

	return trips, total, nil
}

// Delete removes a trip by primary key, scoped to its owner.
func (r *pgTripRepo) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id AND owner = @owner`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner": owner})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, date, and plan-JSONB conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		start    pgtype.Date
		end      pgtype.Date
		planJSON []byte
	)

	err := s.Scan(&id, &t.Owner, &t.Destination, &t.Title, &t.Days, &t.Travelers,
		&t.Budget, &start, &end, &planJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	if len(planJSON) > 0 {
		if err := json.Unmarshal(planJSON, &t.Plan); err != nil {
			return domain.Trip{}, fmt.Errorf("unmarshal plan: %w", err)
		}
	}

	return t, nil
}
