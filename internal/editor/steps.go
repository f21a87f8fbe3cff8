// Package editor holds the in-memory editing model for an event's step
// sequence. Each row has a stable local key that survives reordering and
// persistence round-trips, so a caller rendering the rows (a form, a TUI)
// can track them across edits without relying on server-assigned ids, which
// new rows do not have yet.
package editor

import (
	"errors"

	"github.com/google/uuid"

	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

// ErrLastStep is returned by Remove when the editor holds a single row.
// An event always carries at least one step, so the last row cannot go.
var ErrLastStep = errors.New("an event needs at least one step")

// ErrRowOutOfRange is returned when a row index does not exist.
var ErrRowOutOfRange = errors.New("row index out of range")

// Row is one editable step. Key is local to the editor and never sent to the
// server; PersistedID carries the server-assigned id for rows that came from
// a stored event, and is nil for rows added during this edit.
type Row struct {
	Key         uuid.UUID
	PersistedID *uuid.UUID
	Title       string
	Time        string
}

// StepEditor is a mutable working copy of an event's step sequence.
// It is not safe for concurrent use; each edit session gets its own editor.
type StepEditor struct {
	rows []Row
}

// NewStepEditor seeds an editor from an event's current steps. An empty
// input yields a single blank row, so there is always something to edit.
func NewStepEditor(steps []domain.Step) *StepEditor {
	ed := &StepEditor{}
	for _, s := range steps {
		ed.rows = append(ed.rows, Row{
			Key:         uuid.New(),
			PersistedID: s.ID,
			Title:       s.Title,
			Time:        s.Time,
		})
	}
	if len(ed.rows) == 0 {
		ed.rows = append(ed.rows, Row{Key: uuid.New()})
	}
	return ed
}

// Add appends a blank row and returns its key.
func (ed *StepEditor) Add() uuid.UUID {
	row := Row{Key: uuid.New()}
	ed.rows = append(ed.rows, row)
	return row.Key
}

// Remove deletes the row at index i. Removing the last remaining row is
// refused with ErrLastStep.
func (ed *StepEditor) Remove(i int) error {
	if i < 0 || i >= len(ed.rows) {
		return ErrRowOutOfRange
	}
	if len(ed.rows) == 1 {
		return ErrLastStep
	}
	ed.rows = append(ed.rows[:i], ed.rows[i+1:]...)
	return nil
}

// Set overwrites the title and time of the row at index i. The row's key and
// persisted id are untouched.
func (ed *StepEditor) Set(i int, title, time string) error {
	if i < 0 || i >= len(ed.rows) {
		return ErrRowOutOfRange
	}
	ed.rows[i].Title = title
	ed.rows[i].Time = time
	return nil
}

// Rows returns a copy of the current rows in display order.
func (ed *StepEditor) Rows() []Row {
	out := make([]Row, len(ed.rows))
	copy(out, ed.rows)
	return out
}

// Len returns the number of rows.
func (ed *StepEditor) Len() int { return len(ed.rows) }

// CanRemove reports whether Remove would be allowed right now.
func (ed *StepEditor) CanRemove() bool { return len(ed.rows) > 1 }

// Steps flattens the rows into the submission shape, preserving order and
// persisted ids. Rows added during this edit go out with a nil id and get
// their id assigned by the server.
func (ed *StepEditor) Steps() []domain.Step {
	out := make([]domain.Step, len(ed.rows))
	for i, r := range ed.rows {
		out[i] = domain.Step{ID: r.PersistedID, Title: r.Title, Time: r.Time}
	}
	return out
}
