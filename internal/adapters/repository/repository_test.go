package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/config"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

func setupTestDB(t *testing.T) ports.Repositories {
	t.Helper()
	dir := t.TempDir()
	db, err := database.New(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(dir, "noruno.db"),
		MaxOpenConns: 1,
	}, dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate("up", 0))
	return NewRepositories(db)
}

func ptr[T any](v T) *T { return &v }

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)

	task := entities.Task{
		ID:                  1,
		Description:         "Write report",
		DueDate:             "2025-01-15 10:00",
		Group:               "work",
		NotificationMinutes: ptr(30),
		Subtasks:            []entities.Subtask{{ID: 1, Description: "outline"}},
		Dependencies:        []int{7},
	}
	other := entities.Task{ID: 2, Description: "Groceries", StartDate: ptr("2025-01-10")}
	require.NoError(t, repos.Tasks.Upsert(ctx, task, other))

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, task, tasks[0])
	assert.Equal(t, "2025-01-10", *tasks[1].StartDate)
	assert.Equal(t, []entities.Subtask{}, tasks[1].Subtasks)
	assert.Nil(t, tasks[1].NotificationMinutes)

	// Updating keeps the original position.
	task.Completed = true
	task.Notified = true
	require.NoError(t, repos.Tasks.Upsert(ctx, task))
	tasks, err = repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].ID)
	assert.True(t, tasks[0].Completed)
	assert.True(t, tasks[0].Notified)

	require.NoError(t, repos.Tasks.Delete(ctx, 1))
	require.NoError(t, repos.Tasks.Delete(ctx, 99))
	tasks, err = repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].ID)
}

func TestTaskRepository_DependenciesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)

	tests := []struct {
		name string
		deps []int
	}{
		{"absent", nil},
		{"empty", []int{}},
		{"populated", []int{3, 5}},
	}

	for i, tt := range tests {
		task := entities.Task{
			ID:           i + 1,
			Description:  tt.name,
			DueDate:      "2025-01-15",
			Subtasks:     []entities.Subtask{},
			Dependencies: tt.deps,
		}
		require.NoError(t, repos.Tasks.Upsert(ctx, task))
	}

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, len(tests))

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.deps, tasks[i].Dependencies)
		})
	}
	assert.Nil(t, tasks[0].Dependencies)
	assert.NotNil(t, tasks[1].Dependencies)
}

func TestGroupRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)

	require.NoError(t, repos.Groups.Upsert(ctx, "work", "home"))
	require.NoError(t, repos.Groups.Upsert(ctx, "work"))

	groups, err := repos.Groups.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "home"}, groups)

	require.NoError(t, repos.Groups.Delete(ctx, "work"))
	groups, err = repos.Groups.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, groups)
}

func TestMemoAndFolderRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	folder := entities.Folder{ID: "f1", Name: "Ideas"}
	child := entities.Folder{ID: "f2", Name: "Sub", ParentID: ptr("f1")}
	require.NoError(t, repos.Folders.Upsert(ctx, folder, child))

	memo := entities.Memo{
		ID:        "m1",
		Title:     "Note",
		Content:   "body",
		FolderID:  ptr("f2"),
		Tags:      []string{"a", "b"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repos.Memos.Upsert(ctx, memo))

	folders, err := repos.Folders.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Folder{folder, child}, folders)

	memos, err := repos.Memos.List(ctx)
	require.NoError(t, err)
	require.Len(t, memos, 1)
	assert.Equal(t, memo, memos[0])

	memo.FolderID = nil
	memo.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, repos.Memos.Upsert(ctx, memo))
	memos, err = repos.Memos.List(ctx)
	require.NoError(t, err)
	assert.Nil(t, memos[0].FolderID)
	assert.Equal(t, now, memos[0].CreatedAt)
	assert.Equal(t, now.Add(time.Hour), memos[0].UpdatedAt)
}

func TestBookRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	book := entities.ReadingBook{
		ID:              "b1",
		Title:           "Dune",
		Author:          ptr("Herbert"),
		Genres:          []string{"sf"},
		Status:          entities.ReadingStatusReading,
		StartDate:       &now,
		ProgressPercent: ptr(33),
		TotalPages:      ptr(300),
		CurrentPage:     ptr(100),
		Notes: []entities.ReadingNote{
			{ID: "n1", PageNumber: ptr(12), Comment: "great", CreatedAt: now},
		},
		ReadingSessions: []entities.ReadingSession{
			{ID: "s1", SessionDate: now, PagesRead: 40, DurationMinutes: ptr(60)},
		},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repos.Books.Upsert(ctx, book))

	books, err := repos.Books.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book, books[0])

	require.NoError(t, repos.Books.Delete(ctx, "b1"))
	books, err = repos.Books.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	event := entities.CalendarEvent{
		ID:              "e1",
		Title:           "Standup",
		StartDatetime:   "2025-03-02T09:00",
		AllDay:          false,
		Color:           ptr("#ff0000"),
		RecurrenceRule:  ptr("FREQ=DAILY"),
		ReminderMinutes: ptr(10),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	allDay := entities.CalendarEvent{ID: "e2", Title: "Holiday", StartDatetime: "2025-03-05", AllDay: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Events.Upsert(ctx, event, allDay))

	events, err := repos.Events.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.CalendarEvent{event, allDay}, events)
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repos := setupTestDB(t)

	settings, err := repos.Settings.LoadMailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultMailSettings(), settings)

	saved := entities.MailSettings{Email: "me@example.com", AppPassword: "secret", NotificationMinutes: 60}
	require.NoError(t, repos.Settings.SaveMailSettings(ctx, saved))
	require.NoError(t, repos.Settings.SaveMailSettings(ctx, saved))

	settings, err = repos.Settings.LoadMailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, settings)
}
