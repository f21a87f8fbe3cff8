package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoreau/eventplanner/backend/internal/auth"
	"github.com/jmoreau/eventplanner/backend/internal/domain"
	"github.com/jmoreau/eventplanner/backend/internal/repo"
	"github.com/jmoreau/eventplanner/backend/internal/service"
)

// mockEventRepo is a hand-written test double for repo.EventRepo.
// Each method is a function field — set only the ones your test needs.
type mockEventRepo struct {
	create      func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID     func(ctx context.Context, id, ownerID uuid.UUID) (domain.Event, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error)
	update      func(ctx context.Context, id, ownerID uuid.UUID, patch domain.EventPatch) (domain.Event, error)
	delete      func(ctx context.Context, id, ownerID uuid.UUID) error
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, id, ownerID)
}
func (m *mockEventRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Event, error) {
	return m.listByOwner(ctx, ownerID)
}
func (m *mockEventRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	return m.update(ctx, id, ownerID, patch)
}
func (m *mockEventRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return m.delete(ctx, id, ownerID)
}

// compile-time check: mockEventRepo must satisfy repo.EventRepo.
var _ repo.EventRepo = (*mockEventRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func caller() auth.Identity {
	return auth.Identity{UserID: uuid.New()}
}

func validEvent() domain.Event {
	return domain.Event{
		Name:     "Gala",
		Date:     "2025-06-01",
		Location: "Hall",
		Steps:    []domain.Step{{Title: "Ceremony", Time: "18:00"}},
	}
}

func echoRepo() *mockEventRepo {
	// A repo that echoes whatever it receives back — useful for Create/Update
	// tests that only care about the gate and validation, not the DB result.
	return &mockEventRepo{
		create: func(_ context.Context, ev domain.Event) (domain.Event, error) { return ev, nil },
		update: func(_ context.Context, _, _ uuid.UUID, _ domain.EventPatch) (domain.Event, error) {
			return domain.Event{}, nil
		},
	}
}

func strptr(s string) *string { return &s }

// ---- Create tests ----------------------------------------------------------

func TestEventService_Create_Valid(t *testing.T) {
	svc := service.NewEventService(echoRepo())

	got, err := svc.Create(context.Background(), caller(), validEvent())

	require.NoError(t, err)
	assert.Equal(t, "Gala", got.Name)
}

func TestEventService_Create_Anonymous(t *testing.T) {
	svc := service.NewEventService(echoRepo())

	_, err := svc.Create(context.Background(), auth.Identity{}, validEvent())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEventService_Create_ForcesOwner(t *testing.T) {
	id := caller()

	var persisted domain.Event
	r := &mockEventRepo{
		create: func(_ context.Context, ev domain.Event) (domain.Event, error) {
			persisted = ev
			return ev, nil
		},
	}
	svc := service.NewEventService(r)

	ev := validEvent()
	// A payload claiming someone else's identity must be overwritten.
	ev.OwnerID = uuid.New()
	ev.ID = uuid.New()

	_, err := svc.Create(context.Background(), id, ev)

	require.NoError(t, err)
	assert.Equal(t, id.UserID, persisted.OwnerID, "owner must be the caller")
	assert.Equal(t, uuid.Nil, persisted.ID, "client-supplied id must be dropped")
}

func TestEventService_Create_EmptySteps(t *testing.T) {
	svc := service.NewEventService(echoRepo())

	ev := validEvent()
	ev.Steps = nil

	_, err := svc.Create(context.Background(), caller(), ev)

	// Rejected before reaching the repo (echoRepo would have succeeded).
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := &mockEventRepo{
		create: func(_ context.Context, _ domain.Event) (domain.Event, error) {
			return domain.Event{}, repoErr
		},
	}
	svc := service.NewEventService(r)

	_, err := svc.Create(context.Background(), caller(), validEvent())

	// The service should propagate repo errors unchanged.
	assert.ErrorIs(t, err, repoErr)
}

// ---- Get tests -------------------------------------------------------------

func TestEventService_Get_ScopedToCaller(t *testing.T) {
	id := caller()
	want := validEvent()
	want.ID = uuid.New()
	want.OwnerID = id.UserID

	r := &mockEventRepo{
		getByID: func(_ context.Context, _, ownerID uuid.UUID) (domain.Event, error) {
			assert.Equal(t, id.UserID, ownerID, "lookup must be owner-scoped")
			return want, nil
		},
	}
	svc := service.NewEventService(r)

	got, err := svc.Get(context.Background(), id, want.ID)

	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestEventService_Get_Anonymous(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	_, err := svc.Get(context.Background(), auth.Identity{}, uuid.New())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEventService_Get_NotFound(t *testing.T) {
	r := &mockEventRepo{
		getByID: func(_ context.Context, _, _ uuid.UUID) (domain.Event, error) {
			return domain.Event{}, domain.ErrNotFound
		},
	}
	svc := service.NewEventService(r)

	_, err := svc.Get(context.Background(), caller(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List tests ------------------------------------------------------------

func TestEventService_List(t *testing.T) {
	events := []domain.Event{validEvent(), validEvent()}
	r := &mockEventRepo{
		listByOwner: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) { return events, nil },
	}
	svc := service.NewEventService(r)

	got, err := svc.List(context.Background(), caller())

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEventService_List_Anonymous_Empty(t *testing.T) {
	// The repo must not even be consulted: its function fields are nil and
	// would panic if called.
	svc := service.NewEventService(&mockEventRepo{})

	got, err := svc.List(context.Background(), auth.Identity{})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEventService_List_NilFromRepo(t *testing.T) {
	r := &mockEventRepo{
		listByOwner: func(_ context.Context, _ uuid.UUID) ([]domain.Event, error) { return nil, nil },
	}
	svc := service.NewEventService(r)

	got, err := svc.List(context.Background(), caller())

	require.NoError(t, err)
	// Should return an empty slice, not nil — callers can safely range over it.
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Update tests ----------------------------------------------------------

func TestEventService_Update_Valid(t *testing.T) {
	id := caller()
	r := &mockEventRepo{
		update: func(_ context.Context, _, ownerID uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
			assert.Equal(t, id.UserID, ownerID)
			ev := validEvent()
			ev.Name = *patch.Name
			return ev, nil
		},
	}
	svc := service.NewEventService(r)

	got, err := svc.Update(context.Background(), id, uuid.New(),
		domain.EventPatch{Name: strptr("Renamed")})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestEventService_Update_Anonymous(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	_, err := svc.Update(context.Background(), auth.Identity{}, uuid.New(),
		domain.EventPatch{Name: strptr("X")})

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEventService_Update_EmptyPatch(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	_, err := svc.Update(context.Background(), caller(), uuid.New(), domain.EventPatch{})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Update_EmptyStepsRejected(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	steps := []domain.Step{}
	_, err := svc.Update(context.Background(), caller(), uuid.New(),
		domain.EventPatch{Steps: &steps})

	// The ≥1-step invariant holds for partial updates too.
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventService_Update_NotFound(t *testing.T) {
	r := &mockEventRepo{
		update: func(_ context.Context, _, _ uuid.UUID, _ domain.EventPatch) (domain.Event, error) {
			return domain.Event{}, domain.ErrNotFound
		},
	}
	svc := service.NewEventService(r)

	_, err := svc.Update(context.Background(), caller(), uuid.New(),
		domain.EventPatch{Name: strptr("X")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete tests ----------------------------------------------------------

func TestEventService_Delete_OK(t *testing.T) {
	id := caller()
	r := &mockEventRepo{
		delete: func(_ context.Context, _, ownerID uuid.UUID) error {
			assert.Equal(t, id.UserID, ownerID)
			return nil
		},
	}
	svc := service.NewEventService(r)

	err := svc.Delete(context.Background(), id, uuid.New())

	assert.NoError(t, err)
}

func TestEventService_Delete_Anonymous(t *testing.T) {
	svc := service.NewEventService(&mockEventRepo{})

	err := svc.Delete(context.Background(), auth.Identity{}, uuid.New())

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestEventService_Delete_NotFound(t *testing.T) {
	r := &mockEventRepo{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := service.NewEventService(r)

	err := svc.Delete(context.Background(), caller(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
