// Package domain contains the core data types for the event planner API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler, client, editor).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an organizer-owned record describing a single occasion (a wedding,
// a gala) with an ordered program of steps. The event is the top-level
// aggregate; steps belong to an event and have no independent lifecycle.
type Event struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`
	Name    string    `json:"name"`
	// Date is the calendar date of the occasion in YYYY-MM-DD form.
	Date        string `json:"date"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	// Steps is never empty for a persisted event (minimum one program step).
	Steps []Step `json:"steps"`
	// GuestCount and ConfirmedCount are aggregated from the guest domain and
	// read-mostly on this resource.
	GuestCount     *int      `json:"guestCount,omitempty"`
	ConfirmedCount *int      `json:"confirmedCount,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Step is a single program entry of an event: "Ceremony at 18:00".
// ID is nil for steps created during an edit and not yet persisted.
type Step struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Title string     `json:"title"`
	// Time is the time of day in HH:MM form.
	Time string `json:"time"`
}

// EventPatch is a partial update. A nil field means "leave unchanged";
// a set field overwrites. Steps, when set, replaces the whole sequence
// (the repo reconciles individual steps by their persisted id).
//
// The patch deliberately has no ID or OwnerID field: client-supplied values
// for either are dropped during decoding rather than checked and rejected.
type EventPatch struct {
	Name           *string `json:"name"`
	Date           *string `json:"date"`
	Location       *string `json:"location"`
	Description    *string `json:"description"`
	Steps          *[]Step `json:"steps"`
	GuestCount     *int    `json:"guestCount"`
	ConfirmedCount *int    `json:"confirmedCount"`
}

// IsEmpty reports whether the patch carries no changes at all.
// An empty patch is rejected at the endpoint before reaching storage.
func (p EventPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Date == nil &&
		p.Location == nil &&
		p.Description == nil &&
		p.Steps == nil &&
		p.GuestCount == nil &&
		p.ConfirmedCount == nil
}
