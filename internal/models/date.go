package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/riffvalley/riffvalley-app-back/internal/shared"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish name of m, as used in list names and calendar titles.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	return monthNames[m-1]
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses an ISO-8601 date or timestamp. Values without offset are read as UTC.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, shared.Invalid("invalid date %q", s)
}

// SameTime compares two optional timestamps by instant.
func SameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// DatePatch is an optional date in a partial update: unset leaves the field alone,
// set with a nil Value clears it.
type DatePatch struct {
	Set   bool
	Value *time.Time
}

// SetDate returns a patch that assigns t.
func SetDate(t time.Time) DatePatch { return DatePatch{Set: true, Value: &t} }

// ClearDate returns a patch that nulls the field.
func ClearDate() DatePatch { return DatePatch{Set: true} }

// Clears reports whether the patch nulls the field.
func (p DatePatch) Clears() bool { return p.Set && p.Value == nil }

// UnmarshalJSON accepts null, "" or an ISO-8601 string.
// Absent keys never reach this method and leave the patch unset.
func (p *DatePatch) UnmarshalJSON(data []byte) error {
	p.Set = true
	p.Value = nil
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return shared.Invalid("dates must be ISO-8601 strings")
	}
	if s == "" {
		return nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	p.Value = &t
	return nil
}

// Ptr returns a pointer to a copy of t.
func Ptr[T any](v T) *T { return &v }
