package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noruno/platform/internal/domain/entities"
)

func TestDocument_UpsertListDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repos := NewRepositories(dir)

	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	a := entities.Task{ID: 1, Description: "a", Subtasks: []entities.Subtask{}}
	b := entities.Task{ID: 2, Description: "b", Subtasks: []entities.Subtask{}}
	require.NoError(t, repos.Tasks.Upsert(ctx, a, b))

	a.Completed = true
	require.NoError(t, repos.Tasks.Upsert(ctx, a))

	tasks, err = repos.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Task{a, b}, tasks)

	require.NoError(t, repos.Tasks.Delete(ctx, 1))
	require.NoError(t, repos.Tasks.Delete(ctx, 42))

	tasks, err = repos.Tasks.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Task{b}, tasks)

	_, err = os.Stat(filepath.Join(dir, "tasks.json"))
	assert.NoError(t, err)
}

func TestDocument_ReadsLegacyFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	legacy := `[
	  {"id": 3, "description": "Pay rent", "due_date": "2025-01-31",
	   "group": "home", "details": "", "completed": false, "notified": false,
	   "notification_minutes": null, "subtasks": [{"id": 1, "description": "transfer", "completed": true}]}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte(legacy), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "groups.json"), []byte(`["home","work"]`), 0o644))

	repos := NewRepositories(dir)
	tasks, err := repos.Tasks.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 3, tasks[0].ID)
	assert.Equal(t, "home", tasks[0].Group)
	assert.Nil(t, tasks[0].NotificationMinutes)
	assert.True(t, tasks[0].Subtasks[0].Completed)

	groups, err := repos.Groups.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "work"}, groups)
}

func TestDocument_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "memos.json"), []byte("{not json"), 0o644))

	_, err := NewRepositories(dir).Memos.List(context.Background())
	assert.Error(t, err)
}

func TestDocument_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRepositories(t.TempDir()).Events.Upsert(ctx, entities.CalendarEvent{ID: "e1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSettingsFile(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsFile(t.TempDir())

	got, err := settings.LoadMailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultMailSettings(), got)

	want := entities.MailSettings{Email: "me@example.com", AppPassword: "pw", NotificationMinutes: 90}
	require.NoError(t, settings.SaveMailSettings(ctx, want))

	got, err = settings.LoadMailSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsFile_MissingFieldsKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"email":"me@example.com"}`), 0o644))

	got, err := NewSettingsFile(dir).LoadMailSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", got.Email)
	assert.Equal(t, entities.DefaultNotificationMinutes, got.NotificationMinutes)
}

func TestDocument_MemoTimesRoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(t.TempDir())
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	memo := entities.Memo{ID: "m1", Title: "t", Tags: []string{"x"}, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Memos.Upsert(ctx, memo))

	memos, err := repos.Memos.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []entities.Memo{memo}, memos)
}
