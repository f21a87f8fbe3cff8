// Package handler implements the HTTP handlers for the event planner API.
// All handlers are methods on Server. The public surface is query-parameter
// addressed (PATCH /events?id=...), matching what the web client sends, so
// routing is done by method on a single /events resource path.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmoreau/eventplanner/backend/internal/auth"
	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

// EventServicer defines the business operations the event handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type EventServicer interface {
	Create(ctx context.Context, caller auth.Identity, event domain.Event) (domain.Event, error)
	Get(ctx context.Context, caller auth.Identity, id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, caller auth.Identity) ([]domain.Event, error)
	Update(ctx context.Context, caller auth.Identity, id uuid.UUID, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, caller auth.Identity, id uuid.UUID) error
}

// Server holds the handler dependencies. Wire it in main.go via Routes.
type Server struct {
	events EventServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(events EventServicer) *Server {
	return &Server{events: events}
}

// Routes returns the router for the full API surface.
// Identity resolution happens in middleware before these handlers run; each
// handler reads the identity from context once and passes it explicitly to
// the service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.handleGetEvents)
		r.Post("/", s.handleCreateEvent)
		r.Patch("/", s.handleUpdateEvent)
		r.Delete("/", s.handleDeleteEvent)
	})
	return r
}
