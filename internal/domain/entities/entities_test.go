package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestTask_NextSubtaskID(t *testing.T) {
	task := Task{}
	assert.Equal(t, 1, task.NextSubtaskID())

	task.Subtasks = []Subtask{{ID: 1}, {ID: 2}}
	assert.Equal(t, 3, task.NextSubtaskID())

	task.Subtasks = append(task.Subtasks, Subtask{ID: 5})
	assert.Equal(t, 6, task.NextSubtaskID())
}

func TestTask_Reschedule(t *testing.T) {
	t.Run("due date change re-arms", func(t *testing.T) {
		task := Task{DueDate: "2025-01-01", Notified: true}
		task.Reschedule("2025-01-02", nil)
		assert.False(t, task.Notified)
		assert.Equal(t, "2025-01-02", task.DueDate)
	})

	t.Run("threshold change re-arms", func(t *testing.T) {
		task := Task{DueDate: "2025-01-01", Notified: true, NotificationMinutes: intPtr(30)}
		task.Reschedule("2025-01-01", intPtr(60))
		assert.False(t, task.Notified)
		require.NotNil(t, task.NotificationMinutes)
		assert.Equal(t, 60, *task.NotificationMinutes)
	})

	t.Run("threshold cleared re-arms", func(t *testing.T) {
		task := Task{DueDate: "2025-01-01", Notified: true, NotificationMinutes: intPtr(30)}
		task.Reschedule("2025-01-01", nil)
		assert.False(t, task.Notified)
		assert.Nil(t, task.NotificationMinutes)
	})

	t.Run("unchanged keeps latch", func(t *testing.T) {
		task := Task{DueDate: "2025-01-01", Notified: true, NotificationMinutes: intPtr(30)}
		task.Reschedule("2025-01-01", intPtr(30))
		assert.True(t, task.Notified)
	})
}

func TestTask_CloneIsDeep(t *testing.T) {
	task := Task{
		ID:                  1,
		StartDate:           strPtr("2025-01-01"),
		NotificationMinutes: intPtr(10),
		Subtasks:            []Subtask{{ID: 1, Description: "a"}},
		Dependencies:        []int{2},
	}
	clone := task.Clone()
	clone.Subtasks[0].Description = "b"
	clone.Dependencies[0] = 9
	*clone.NotificationMinutes = 99

	assert.Equal(t, "a", task.Subtasks[0].Description)
	assert.Equal(t, 2, task.Dependencies[0])
	assert.Equal(t, 10, *task.NotificationMinutes)
}

func TestReadingBook_RecomputeProgress(t *testing.T) {
	book := ReadingBook{TotalPages: intPtr(300), CurrentPage: intPtr(100)}
	book.RecomputeProgress()
	require.NotNil(t, book.ProgressPercent)
	assert.Equal(t, 33, *book.ProgressPercent)

	book.CurrentPage = intPtr(29)
	book.TotalPages = intPtr(100)
	book.RecomputeProgress()
	assert.Equal(t, 29, *book.ProgressPercent)

	// Missing or zero totals keep the previous value.
	book.TotalPages = intPtr(0)
	book.RecomputeProgress()
	assert.Equal(t, 29, *book.ProgressPercent)

	book.TotalPages = nil
	book.RecomputeProgress()
	assert.Equal(t, 29, *book.ProgressPercent)
}

func TestReadingStatus_Valid(t *testing.T) {
	assert.True(t, ReadingStatusPaused.Valid())
	assert.False(t, ReadingStatus("abandoned").Valid())
}

func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()
	data, err := json.Marshal(in)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestJSONRoundTrip(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	t.Run("task with everything", func(t *testing.T) {
		task := Task{
			ID: 1, Description: "Test Task", StartDate: strPtr("2023-01-01"),
			DueDate: "2023-12-31", Group: "Work", Details: "Details",
			NotificationMinutes: intPtr(30),
			Subtasks:            []Subtask{{ID: 1, Description: "Sub 1"}},
			Dependencies:        []int{2, 3},
		}
		assert.Equal(t, task, roundTrip(t, task))
	})

	t.Run("task with nothing optional", func(t *testing.T) {
		task := Task{ID: 2, DueDate: "2023-12-31", Subtasks: []Subtask{}}
		assert.Equal(t, task, roundTrip(t, task))
	})

	t.Run("book with embedded lists", func(t *testing.T) {
		book := ReadingBook{
			ID: "b1", Title: "Dune", Author: strPtr("Herbert"), Genres: []string{"sf"},
			Status: ReadingStatusReading, StartDate: &now, TotalPages: intPtr(600),
			CurrentPage: intPtr(60), ProgressPercent: intPtr(10), Rating: intPtr(90),
			Notes:           []ReadingNote{{ID: "n1", PageNumber: intPtr(3), Quote: strPtr("fear"), Comment: "c", CreatedAt: now}},
			ReadingSessions: []ReadingSession{{ID: "s1", SessionDate: now, PagesRead: 20, Memo: strPtr("m")}},
			Tags:            []string{"classic"}, CreatedAt: now, UpdatedAt: now,
		}
		assert.Equal(t, book, roundTrip(t, book))
	})

	t.Run("empty book", func(t *testing.T) {
		book := ReadingBook{
			ID: "b2", Status: ReadingStatusWantToRead, Genres: []string{},
			Notes: []ReadingNote{}, ReadingSessions: []ReadingSession{}, Tags: []string{},
			CreatedAt: now, UpdatedAt: now,
		}
		assert.Equal(t, book, roundTrip(t, book))
	})

	t.Run("memo folder event settings", func(t *testing.T) {
		memo := Memo{ID: "m", FolderID: strPtr("f"), Tags: []string{"a"}, CreatedAt: now, UpdatedAt: now}
		assert.Equal(t, memo, roundTrip(t, memo))

		folder := Folder{ID: "f", Name: "root"}
		assert.Equal(t, folder, roundTrip(t, folder))

		event := CalendarEvent{ID: "e", StartDatetime: "2025-01-01T10:00", Color: strPtr("#fff"), ReminderMinutes: intPtr(5), CreatedAt: now, UpdatedAt: now}
		assert.Equal(t, event, roundTrip(t, event))

		settings := MailSettings{Email: "a@b.c", AppPassword: "x", NotificationMinutes: 60}
		assert.Equal(t, settings, roundTrip(t, settings))
	})
}
