package editor_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmoreau/eventplanner/backend/internal/domain"
	"github.com/jmoreau/eventplanner/backend/internal/editor"
)

func persistedSteps() []domain.Step {
	a, b := uuid.New(), uuid.New()
	return []domain.Step{
		{ID: &a, Title: "Ceremony", Time: "18:00"},
		{ID: &b, Title: "Dinner", Time: "20:00"},
	}
}

func TestNewStepEditor_SeedsFromEvent(t *testing.T) {
	steps := persistedSteps()
	ed := editor.NewStepEditor(steps)

	rows := ed.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Ceremony", rows[0].Title)
	require.NotNil(t, rows[0].PersistedID)
	assert.Equal(t, *steps[0].ID, *rows[0].PersistedID)
	assert.NotEqual(t, rows[0].Key, rows[1].Key, "each row gets its own key")
}

func TestNewStepEditor_EmptyGetsBlankRow(t *testing.T) {
	ed := editor.NewStepEditor(nil)

	rows := ed.Rows()
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].PersistedID)
	assert.Empty(t, rows[0].Title)
}

func TestStepEditor_Add(t *testing.T) {
	ed := editor.NewStepEditor(persistedSteps())

	key := ed.Add()

	rows := ed.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, key, rows[2].Key)
	assert.Nil(t, rows[2].PersistedID, "new rows have no server id yet")
}

func TestStepEditor_Remove(t *testing.T) {
	ed := editor.NewStepEditor(persistedSteps())
	keep := ed.Rows()[1].Key

	require.NoError(t, ed.Remove(0))

	rows := ed.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, keep, rows[0].Key, "surviving row keeps its key")
	assert.Equal(t, "Dinner", rows[0].Title)
}

func TestStepEditor_RemoveLastRefused(t *testing.T) {
	ed := editor.NewStepEditor(nil)

	assert.False(t, ed.CanRemove())
	assert.ErrorIs(t, ed.Remove(0), editor.ErrLastStep)
	assert.Equal(t, 1, ed.Len(), "the row is still there")
}

func TestStepEditor_RemoveOutOfRange(t *testing.T) {
	ed := editor.NewStepEditor(persistedSteps())

	assert.ErrorIs(t, ed.Remove(5), editor.ErrRowOutOfRange)
	assert.ErrorIs(t, ed.Remove(-1), editor.ErrRowOutOfRange)
}

func TestStepEditor_Set(t *testing.T) {
	ed := editor.NewStepEditor(persistedSteps())
	before := ed.Rows()[0]

	require.NoError(t, ed.Set(0, "Welcome Drinks", "17:30"))

	after := ed.Rows()[0]
	assert.Equal(t, "Welcome Drinks", after.Title)
	assert.Equal(t, "17:30", after.Time)
	assert.Equal(t, before.Key, after.Key, "editing never changes the key")
	assert.Equal(t, before.PersistedID, after.PersistedID)
}

func TestStepEditor_StepsRoundTrip(t *testing.T) {
	steps := persistedSteps()
	ed := editor.NewStepEditor(steps)

	// Edit the first row, drop the second, append a new one.
	require.NoError(t, ed.Set(0, "Welcome Drinks", "17:30"))
	require.NoError(t, ed.Remove(1))
	ed.Add()
	require.NoError(t, ed.Set(1, "Fireworks", "23:00"))

	out := ed.Steps()
	require.Len(t, out, 2)

	// The edited row still carries its persisted id; the new row has none.
	require.NotNil(t, out[0].ID)
	assert.Equal(t, *steps[0].ID, *out[0].ID)
	assert.Equal(t, "Welcome Drinks", out[0].Title)
	assert.Nil(t, out[1].ID)
	assert.Equal(t, "Fireworks", out[1].Title)
}

func TestStepEditor_RowsIsACopy(t *testing.T) {
	ed := editor.NewStepEditor(persistedSteps())

	rows := ed.Rows()
	rows[0].Title = "Mutated"

	assert.Equal(t, "Ceremony", ed.Rows()[0].Title)
}
