// Package client is a Go client for the event planner API with a
// synchronization cache: reads are served from a local copy of the caller's
// event list, and every successful mutation invalidates and refetches that
// copy before the mutation call returns. Callers therefore always observe
// their own writes on the next read.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

// ErrMutationPending is returned when a mutation is started while another
// mutation on the same client has not finished. The client allows one
// in-flight mutation at a time so the cache never reflects a half-applied
// sequence of writes.
var ErrMutationPending = errors.New("another mutation is already in flight")

// apiError mirrors the server's error body.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// EventsClient talks to the events API on behalf of one authenticated user.
// It is safe for concurrent use.
type EventsClient struct {
	httpClient *http.Client
	baseURL    string
	token      string

	mu       sync.Mutex
	cached   []domain.Event
	hasCache bool
	mutating bool
}

// NewEventsClient returns a client for the API at baseURL authenticating with
// the given bearer token. Pass nil to use http.DefaultClient.
func NewEventsClient(httpClient *http.Client, baseURL, token string) *EventsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &EventsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
	}
}

// Events returns the caller's events. The first call fetches from the server;
// later calls are served from the cache until a mutation invalidates it.
func (c *EventsClient) Events(ctx context.Context) ([]domain.Event, error) {
	c.mu.Lock()
	if c.hasCache {
		out := make([]domain.Event, len(c.cached))
		copy(out, c.cached)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	return c.refetch(ctx)
}

// Create submits a new event. On success the cache is invalidated and
// refetched before Create returns; on failure the cache is left untouched.
func (c *EventsClient) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	if err := c.beginMutation(); err != nil {
		return domain.Event{}, err
	}
	defer c.endMutation()

	var created domain.Event
	err := c.do(ctx, http.MethodPost, "/events", event, http.StatusCreated, &created)
	if err != nil {
		return domain.Event{}, err
	}

	if _, err := c.refetch(ctx); err != nil {
		return domain.Event{}, fmt.Errorf("create succeeded but refetch failed: %w", err)
	}
	return created, nil
}

// Update applies a partial update to one event, then refreshes the cache.
func (c *EventsClient) Update(ctx context.Context, id uuid.UUID, patch domain.EventPatch) (domain.Event, error) {
	if err := c.beginMutation(); err != nil {
		return domain.Event{}, err
	}
	defer c.endMutation()

	var updated domain.Event
	err := c.do(ctx, http.MethodPatch, "/events?id="+url.QueryEscape(id.String()), patch, http.StatusOK, &updated)
	if err != nil {
		return domain.Event{}, err
	}

	if _, err := c.refetch(ctx); err != nil {
		return domain.Event{}, fmt.Errorf("update succeeded but refetch failed: %w", err)
	}
	return updated, nil
}

// Delete removes one event, then refreshes the cache.
func (c *EventsClient) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.beginMutation(); err != nil {
		return err
	}
	defer c.endMutation()

	err := c.do(ctx, http.MethodDelete, "/events?id="+url.QueryEscape(id.String()), nil, http.StatusNoContent, nil)
	if err != nil {
		return err
	}

	if _, err := c.refetch(ctx); err != nil {
		return fmt.Errorf("delete succeeded but refetch failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached list so the next Events call hits the server.
func (c *EventsClient) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.hasCache = false
}

func (c *EventsClient) beginMutation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mutating {
		return ErrMutationPending
	}
	c.mutating = true
	return nil
}

func (c *EventsClient) endMutation() {
	c.mu.Lock()
	c.mutating = false
	c.mu.Unlock()
}

// refetch fetches the event list from the server and replaces the cache.
func (c *EventsClient) refetch(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, http.StatusOK, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.Event{}
	}

	c.mu.Lock()
	c.cached = events
	c.hasCache = true
	c.mu.Unlock()

	out := make([]domain.Event, len(events))
	copy(out, events)
	return out, nil
}

// do sends one request and decodes the response into out (when non-nil).
// Any status other than wantStatus is turned into an error carrying the
// server's message, with a generic fallback when the body is unusable.
func (c *EventsClient) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}

func errorFromResponse(resp *http.Response) error {
	var body apiError
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("client: server returned %d: %s", resp.StatusCode, body.Error)
	}
	return fmt.Errorf("client: server returned %d", resp.StatusCode)
}
