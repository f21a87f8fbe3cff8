// Package repo contains all database access logic for the event planner API.
// No business logic lives here — only SQL and type mapping. Every lookup or
// mutation of a single event is conditioned on both id and owner_id, so a
// non-owner's request matches zero rows and surfaces as domain.ErrNotFound.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
// Begin on a pgx.Tx opens a savepoint, so nested use in tests still works.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// EventRepo defines the persistence operations for Events.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type EventRepo interface {
	// Create inserts a new event and its steps in one transaction and
	// returns the persisted record with DB-generated ids and timestamps.
	// The caller must have set OwnerID; client-supplied step ids are ignored.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event owned by ownerID, steps included.
	// Returns domain.ErrNotFound when no row matches id AND owner.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (domain.Event, error)

	// ListByOwner returns all events of one owner ordered by created_at
	// ascending, with steps attached in position order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error)

	// Update merges the supplied patch fields into the event matching
	// id AND owner. Absent fields are left unchanged. When the patch carries
	// a step sequence, steps keeping their persisted id are updated in
	// place, new steps are inserted with fresh ids, and the rest deleted.
	// Returns domain.ErrNotFound when no row matches.
	Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.EventPatch) (domain.Event, error)

	// Delete removes the event matching id AND owner; embedded steps go with
	// it via ON DELETE CASCADE. Returns domain.ErrNotFound when no row
	// matches — deleting the same pair twice reports not-found the second
	// time, never a silent no-op.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, owner_id, name, event_date, location, description,
		guest_count, confirmed_count, created_at, updated_at`

// Create inserts the event row and its steps transactionally.
func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO events (owner_id, name, event_date, location, description, guest_count, confirmed_count)
		VALUES (@owner_id, @name, @event_date, @location, @description, @guest_count, @confirmed_count)
		RETURNING ` + eventColumns

	eventDate, err := parseDate(event.Date)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"owner_id":        event.OwnerID,
		"name":            event.Name,
		"event_date":      eventDate,
		"location":        event.Location,
		"description":     event.Description,
		"guest_count":     event.GuestCount, // nil becomes NULL
		"confirmed_count": event.ConfirmedCount,
	}

	created, err := scanEvent(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}

	const insertStep = `
		INSERT INTO event_steps (event_id, title, step_time, position)
		VALUES (@event_id, @title, @step_time, @position)
		RETURNING id`

	created.Steps = make([]domain.Step, 0, len(event.Steps))
	for i, step := range event.Steps {
		var stepID uuid.UUID
		err := tx.QueryRow(ctx, insertStep, pgx.NamedArgs{
			"event_id":  created.ID,
			"title":     step.Title,
			"step_time": step.Time,
			"position":  i,
		}).Scan(&stepID)
		if err != nil {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: step %d: %w", i, err)
		}
		id := stepID
		created.Steps = append(created.Steps, domain.Step{ID: &id, Title: step.Title, Time: step.Time})
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: commit: %w", err)
	}
	return created, nil
}

// GetByID retrieves an event by primary key, scoped to the given owner.
func (r *pgEventRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = @id AND owner_id = @owner_id`

	event, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}

	event.Steps, err = r.loadSteps(ctx, event.ID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return event, nil
}

// ListByOwner returns one owner's events ordered by creation time ascending.
func (r *pgEventRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error) {
	const q = `
		SELECT ` + eventColumns + `
		FROM events
		WHERE owner_id = @owner_id
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByOwner: scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.ListByOwner: rows: %w", err)
	}

	for i := range events {
		steps, err := r.loadSteps(ctx, events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.ListByOwner: %w", err)
		}
		events[i].Steps = steps
	}
	return events, nil
}

// Update applies a partial merge conditioned on ownership, reconciling the
// step sequence when the patch carries one.
func (r *pgEventRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// COALESCE keeps the stored value for every field the patch omits.
	const q = `
		UPDATE events
		SET name            = COALESCE(@name, name),
		    event_date      = COALESCE(@event_date, event_date),
		    location        = COALESCE(@location, location),
		    description     = COALESCE(@description, description),
		    guest_count     = COALESCE(@guest_count, guest_count),
		    confirmed_count = COALESCE(@confirmed_count, confirmed_count),
		    updated_at      = now()
		WHERE id = @id AND owner_id = @owner_id
		RETURNING ` + eventColumns

	var eventDate *time.Time
	if patch.Date != nil {
		parsed, err := parseDate(*patch.Date)
		if err != nil {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
		}
		eventDate = &parsed
	}

	args := pgx.NamedArgs{
		"id":              id,
		"owner_id":        ownerID,
		"name":            patch.Name,
		"event_date":      eventDate,
		"location":        patch.Location,
		"description":     patch.Description,
		"guest_count":     patch.GuestCount,
		"confirmed_count": patch.ConfirmedCount,
	}

	updated, err := scanEvent(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}

	if patch.Steps != nil {
		if err := reconcileSteps(ctx, tx, id, *patch.Steps); err != nil {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: commit: %w", err)
	}

	updated.Steps, err = r.loadSteps(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an event conditioned on ownership.
func (r *pgEventRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.EventRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EventRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// reconcileSteps rewrites the event's step sequence inside tx.
// Steps whose id matches an existing row are updated in place, preserving
// the id across the edit. Steps without an id — or with an id this event
// does not actually have — are inserted fresh. Existing rows absent from
// the new sequence are deleted.
func reconcileSteps(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, steps []domain.Step) error {
	rows, err := tx.Query(ctx,
		`SELECT id FROM event_steps WHERE event_id = @event_id`,
		pgx.NamedArgs{"event_id": eventID})
	if err != nil {
		return fmt.Errorf("load step ids: %w", err)
	}
	existing := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan step id: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("step id rows: %w", err)
	}

	keep := make([]uuid.UUID, 0, len(steps))
	for i, step := range steps {
		if step.ID != nil && existing[*step.ID] {
			_, err := tx.Exec(ctx, `
				UPDATE event_steps
				SET title = @title, step_time = @step_time, position = @position
				WHERE id = @id AND event_id = @event_id`,
				pgx.NamedArgs{
					"id":        *step.ID,
					"event_id":  eventID,
					"title":     step.Title,
					"step_time": step.Time,
					"position":  i,
				})
			if err != nil {
				return fmt.Errorf("update step %d: %w", i, err)
			}
			keep = append(keep, *step.ID)
			continue
		}

		var newID uuid.UUID
		err := tx.QueryRow(ctx, `
			INSERT INTO event_steps (event_id, title, step_time, position)
			VALUES (@event_id, @title, @step_time, @position)
			RETURNING id`,
			pgx.NamedArgs{
				"event_id":  eventID,
				"title":     step.Title,
				"step_time": step.Time,
				"position":  i,
			}).Scan(&newID)
		if err != nil {
			return fmt.Errorf("insert step %d: %w", i, err)
		}
		keep = append(keep, newID)
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM event_steps
		WHERE event_id = @event_id AND NOT (id = ANY(@keep))`,
		pgx.NamedArgs{"event_id": eventID, "keep": keep})
	if err != nil {
		return fmt.Errorf("delete removed steps: %w", err)
	}
	return nil
}

// loadSteps returns the event's steps in position order.
func (r *pgEventRepo) loadSteps(ctx context.Context, eventID uuid.UUID) ([]domain.Step, error) {
	const q = `
		SELECT id, title, step_time
		FROM event_steps
		WHERE event_id = @event_id
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"event_id": eventID})
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.Step
	for rows.Next() {
		var (
			id   uuid.UUID
			step domain.Step
		)
		if err := rows.Scan(&id, &step.Title, &step.Time); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		stepID := id
		step.ID = &stepID
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("step rows: %w", err)
	}
	return steps, nil
}

// parseDate converts the YYYY-MM-DD wire form into a time.Time for the date
// column. The service validates the format first, so a failure here means a
// caller bypassed validation.
func parseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEvent to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEvent maps a single database row into a domain.Event (without steps).
// It handles the UUID, date, and nullable counter conversions.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		ev        domain.Event
		id        pgtype.UUID
		owner     pgtype.UUID
		date      pgtype.Date
		guest     pgtype.Int4
		confirmed pgtype.Int4
	)

	err := s.Scan(&id, &owner, &ev.Name, &date, &ev.Location, &ev.Description,
		&guest, &confirmed, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	ev.ID = uuid.UUID(id.Bytes)
	ev.OwnerID = uuid.UUID(owner.Bytes)
	ev.Date = date.Time.Format("2006-01-02")
	if guest.Valid {
		n := int(guest.Int32)
		ev.GuestCount = &n
	}
	if confirmed.Valid {
		n := int(confirmed.Int32)
		ev.ConfirmedCount = &n
	}
	return ev, nil
}
