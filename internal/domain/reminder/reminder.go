// Package reminder decides when a task's due-date reminder should fire.
package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/noruno/platform/internal/domain/entities"
)

const (
	// DateTimeLayout is the preferred due-date format.
	DateTimeLayout = "2006-01-02 15:04"
	// DateLayout is the date-only fallback, read as local midnight.
	DateLayout = "2006-01-02"
)

// ParseError reports a due date that matches neither supported layout.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse due date %q: expected YYYY-MM-DD HH:MM or YYYY-MM-DD", e.Value)
}

// Unwrap lets callers match with errors.Is(err, entities.ErrInvalidDueDate).
func (e *ParseError) Unwrap() error {
	return entities.ErrInvalidDueDate
}

// ParseDue resolves dueDate to an instant in loc.
func ParseDue(dueDate string, loc *time.Location) (time.Time, error) {
	if due, err := time.ParseInLocation(DateTimeLayout, dueDate, loc); err == nil {
		return due, nil
	}

	datePart := dueDate
	if fields := strings.Fields(dueDate); len(fields) > 0 {
		datePart = fields[0]
	}
	if due, err := time.ParseInLocation(DateLayout, datePart, loc); err == nil {
		return due, nil
	}

	return time.Time{}, &ParseError{Value: dueDate}
}

// MinutesUntilDue returns the whole minutes from now until dueDate, truncated
// toward zero. The due date is interpreted in now's location.
func MinutesUntilDue(dueDate string, now time.Time) (int64, error) {
	due, err := ParseDue(dueDate, now.Location())
	if err != nil {
		return 0, err
	}
	return int64(due.Sub(now) / time.Minute), nil
}

// ShouldNotify is true iff 0 <= minutesUntilDue <= threshold. Overdue tasks
// never fire.
func ShouldNotify(minutesUntilDue int64, threshold int) bool {
	return minutesUntilDue >= 0 && minutesUntilDue <= int64(threshold)
}

// EffectiveThreshold prefers the task's own threshold over the global one.
func EffectiveThreshold(task *entities.Task, settings entities.MailSettings) int {
	if task.NotificationMinutes != nil {
		return *task.NotificationMinutes
	}
	return settings.NotificationMinutes
}

// Decision is the outcome of evaluating one task.
type Decision struct {
	MinutesUntilDue int64
	Threshold       int
	Notify          bool
}

// Evaluate runs the full rule for task at now.
func Evaluate(task *entities.Task, settings entities.MailSettings, now time.Time) (Decision, error) {
	minutes, err := MinutesUntilDue(task.DueDate, now)
	if err != nil {
		return Decision{}, err
	}
	threshold := EffectiveThreshold(task, settings)
	return Decision{
		MinutesUntilDue: minutes,
		Threshold:       threshold,
		Notify:          ShouldNotify(minutes, threshold),
	}, nil
}
