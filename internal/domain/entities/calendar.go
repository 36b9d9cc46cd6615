package entities

import (
	"time"
)

// CalendarEvent is a calendar entry. RecurrenceRule is stored verbatim and
// never expanded.
type CalendarEvent struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description" yaml:"description"`
	StartDatetime   string    `json:"start_datetime" yaml:"start_datetime"`
	EndDatetime     *string   `json:"end_datetime" yaml:"end_datetime,omitempty"`
	AllDay          bool      `json:"all_day" yaml:"all_day"`
	Color           *string   `json:"color" yaml:"color,omitempty"`
	RecurrenceRule  *string   `json:"recurrence_rule" yaml:"recurrence_rule,omitempty"`
	ReminderMinutes *int      `json:"reminder_minutes" yaml:"reminder_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// EventID returns the collection key of e.
func EventID(e CalendarEvent) string { return e.ID }

// Clone returns a deep copy of e.
func (e CalendarEvent) Clone() CalendarEvent {
	out := e
	out.EndDatetime = cloneString(e.EndDatetime)
	out.Color = cloneString(e.Color)
	out.RecurrenceRule = cloneString(e.RecurrenceRule)
	out.ReminderMinutes = cloneInt(e.ReminderMinutes)
	return out
}
