// Package service contains the business logic for the event planner API.
// Services enforce the ownership gate, run the authoritative payload
// validation, and orchestrate repo calls. No SQL lives here — services
// depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmoreau/eventplanner/backend/internal/auth"
	"github.com/jmoreau/eventplanner/backend/internal/domain"
	"github.com/jmoreau/eventplanner/backend/internal/repo"
)

// EventService implements business logic for Event operations.
//
// Every method takes the caller identity explicitly. The ownership rule is
// enforced twice: here (identity required for any mutation or single-event
// lookup) and in the repo (id AND owner_id conditions), so a non-owner can
// never distinguish "not yours" from "does not exist".
type EventService struct {
	repo repo.EventRepo
}

// NewEventService constructs an EventService backed by the provided EventRepo.
func NewEventService(r repo.EventRepo) *EventService {
	return &EventService{repo: r}
}

// Create validates and persists a new event owned by the caller.
// The event's OwnerID is forced to the caller identity — whatever owner the
// payload may have claimed was already dropped during decoding, and is
// overwritten here again.
// Returns domain.ErrUnauthenticated for anonymous callers and
// domain.ErrValidation (a *domain.ValidationError) for invalid payloads.
func (s *EventService) Create(ctx context.Context, caller auth.Identity, event domain.Event) (domain.Event, error) {
	if caller.IsAnonymous() {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", domain.ErrUnauthenticated)
	}
	if err := domain.ValidateEvent(event); err != nil {
		return domain.Event{}, err
	}

	event.ID = uuid.Nil
	event.OwnerID = caller.UserID

	result, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Create: %w", err)
	}
	return result, nil
}

// Get returns a single event by id, scoped to the caller.
// Returns domain.ErrNotFound both when the event does not exist and when it
// belongs to someone else.
func (s *EventService) Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (domain.Event, error) {
	if caller.IsAnonymous() {
		return domain.Event{}, fmt.Errorf("service.EventService.Get: %w", domain.ErrUnauthenticated)
	}
	result, err := s.repo.GetByID(ctx, id, caller.UserID)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Get: %w", err)
	}
	return result, nil
}

// List returns the caller's events ordered by creation time ascending.
// An anonymous caller gets an empty list — never anyone else's events.
// Always returns a non-nil slice so callers can safely range over it.
func (s *EventService) List(ctx context.Context, caller auth.Identity) ([]domain.Event, error) {
	if caller.IsAnonymous() {
		return []domain.Event{}, nil
	}
	events, err := s.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	if events == nil {
		return []domain.Event{}, nil
	}
	return events, nil
}

// Update applies a partial update to the caller's event. Fields absent from
// the patch are left unchanged; an empty patch is rejected. The patch type
// carries no id or owner field, so neither can ever be overwritten.
func (s *EventService) Update(ctx context.Context, caller auth.Identity, id uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	if caller.IsAnonymous() {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", domain.ErrUnauthenticated)
	}
	if patch.IsEmpty() {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: empty patch: %w", domain.ErrValidation)
	}
	if err := domain.ValidatePatch(patch); err != nil {
		return domain.Event{}, err
	}

	result, err := s.repo.Update(ctx, id, caller.UserID, patch)
	if err != nil {
		return domain.Event{}, fmt.Errorf("service.EventService.Update: %w", err)
	}
	return result, nil
}

// Delete removes the caller's event. The embedded step sequence goes with it;
// steps have no existence outside their event.
func (s *EventService) Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error {
	if caller.IsAnonymous() {
		return fmt.Errorf("service.EventService.Delete: %w", domain.ErrUnauthenticated)
	}
	if err := s.repo.Delete(ctx, id, caller.UserID); err != nil {
		return fmt.Errorf("service.EventService.Delete: %w", err)
	}
	return nil
}
