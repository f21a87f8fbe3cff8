package domain

import (
	"fmt"
	"strings"
	"time"
)

// FieldViolation names a single invalid field and why it is invalid.
// Field uses the JSON name ("name", "steps[0].title") so clients can map
// violations straight onto form inputs.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field violation found in a payload.
// It unwraps to ErrValidation so callers can match with errors.Is without
// caring about the field detail.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}
	return "validation error: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// dateLayout is the only accepted form for Event.Date.
const dateLayout = "2006-01-02"

// ValidateEvent checks a candidate event for creation or full submission.
// It returns nil or a *ValidationError listing every violation; it never
// mutates the event. The same check runs client-side before submission and
// at the endpoint — the endpoint does not trust the local check.
func ValidateEvent(ev Event) error {
	var v []FieldViolation
	if strings.TrimSpace(ev.Name) == "" {
		v = append(v, FieldViolation{"name", "name is required"})
	}
	v = append(v, checkDate(ev.Date)...)
	if strings.TrimSpace(ev.Location) == "" {
		v = append(v, FieldViolation{"location", "location is required"})
	}
	v = append(v, checkSteps(ev.Steps)...)
	v = append(v, checkCounters(ev.GuestCount, ev.ConfirmedCount)...)
	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

// ValidatePatch checks a partial update. Only fields the patch actually
// carries are validated; absent fields mean "unchanged" and are skipped.
func ValidatePatch(p EventPatch) error {
	var v []FieldViolation
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		v = append(v, FieldViolation{"name", "name is required"})
	}
	if p.Date != nil {
		v = append(v, checkDate(*p.Date)...)
	}
	if p.Location != nil && strings.TrimSpace(*p.Location) == "" {
		v = append(v, FieldViolation{"location", "location is required"})
	}
	if p.Steps != nil {
		v = append(v, checkSteps(*p.Steps)...)
	}
	v = append(v, checkCounters(p.GuestCount, p.ConfirmedCount)...)
	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

func checkDate(date string) []FieldViolation {
	if strings.TrimSpace(date) == "" {
		return []FieldViolation{{"date", "date is required"}}
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return []FieldViolation{{"date", "date must be in YYYY-MM-DD form"}}
	}
	return nil
}

func checkSteps(steps []Step) []FieldViolation {
	if len(steps) == 0 {
		return []FieldViolation{{"steps", "at least one step is required"}}
	}
	var v []FieldViolation
	for i, s := range steps {
		if strings.TrimSpace(s.Title) == "" {
			v = append(v, FieldViolation{fmt.Sprintf("steps[%d].title", i), "title is required"})
		}
		if strings.TrimSpace(s.Time) == "" {
			v = append(v, FieldViolation{fmt.Sprintf("steps[%d].time", i), "time is required"})
		}
	}
	return v
}

func checkCounters(guest, confirmed *int) []FieldViolation {
	var v []FieldViolation
	if guest != nil && *guest < 0 {
		v = append(v, FieldViolation{"guestCount", "guestCount must not be negative"})
	}
	if confirmed != nil && *confirmed < 0 {
		v = append(v, FieldViolation{"confirmedCount", "confirmedCount must not be negative"})
	}
	return v
}
