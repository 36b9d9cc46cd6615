package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

func configure(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.app.Settings.SaveMailSettings(context.Background(), entities.MailSettings{
		Email:               "me@example.com",
		AppPassword:         "app-password",
		NotificationMinutes: 60,
	})
	require.NoError(t, err)
}

func TestNotificationService_TickIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)

	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{
		Description:         "Write report",
		DueDate:             "2025-01-01 10:00",
		NotificationMinutes: ptr(30),
		Details:             "quarterly",
		Group:               "work",
	})
	require.NoError(t, err)

	sent, err := f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	mails := f.mailer.Sent()
	require.Len(t, mails, 1)
	assert.Equal(t, "me@example.com", mails[0].To)
	assert.Equal(t, "[Todo App] Task Due: Write report", mails[0].Subject)
	assert.Equal(t, "Your task 'Write report' is due on 2025-01-01 10:00.\n\nDetails: quarterly\nGroup: work", mails[0].Body)

	task, err := f.reload(t).Tasks.GetTask(1)
	require.NoError(t, err)
	assert.True(t, task.Notified)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.m.ReminderTicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.RemindersSent))
}

func TestNotificationService_Thresholds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)

	requests := []ports.TaskRequest{
		{Description: "overdue", DueDate: "2025-01-01 09:40"},
		{Description: "exactly now", DueDate: "2025-01-01 09:45"},
		{Description: "global threshold", DueDate: "2025-01-01 10:45"},
		{Description: "too far", DueDate: "2025-01-01 10:46"},
		{Description: "own threshold", DueDate: "2025-01-01 10:46", NotificationMinutes: ptr(120)},
		{Description: "date only", DueDate: "2025-01-02"},
		{Description: "garbage", DueDate: "next tuesday"},
	}
	for _, req := range requests {
		_, err := f.app.Tasks.CreateTask(ctx, req)
		require.NoError(t, err)
	}
	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "done", DueDate: "2025-01-01 10:00"})
	require.NoError(t, err)
	_, err = f.app.Tasks.CompleteTask(ctx, 8)
	require.NoError(t, err)

	sent, err := f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	var subjects []string
	for _, m := range f.mailer.Sent() {
		subjects = append(subjects, m.Subject)
	}
	assert.Equal(t, []string{
		"[Todo App] Task Due: exactly now",
		"[Todo App] Task Due: global threshold",
		"[Todo App] Task Due: own threshold",
	}, subjects)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.ReminderParseErrs))
}

func TestNotificationService_Unconfigured(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "due", DueDate: "2025-01-01 10:00"})
	require.NoError(t, err)

	sent, err := f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.mailer.Sent())

	task, err := f.app.Tasks.GetTask(1)
	require.NoError(t, err)
	assert.False(t, task.Notified)

	_, err = f.app.Notifications.CheckNotifications(ctx)
	assert.ErrorIs(t, err, entities.ErrMailNotConfigured)

	_, err = f.app.Notifications.SendTestEmail(ctx)
	assert.ErrorIs(t, err, entities.ErrMailNotConfigured)
}

func TestNotificationService_SendFailureKeepsLatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)
	f.mailer.err = errors.New("connection refused")

	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "due", DueDate: "2025-01-01 10:00"})
	require.NoError(t, err)

	sent, err := f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	task, err := f.app.Tasks.GetTask(1)
	require.NoError(t, err)
	assert.True(t, task.Notified)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.RemindersFailed))

	f.mailer.err = nil
	sent, err = f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.mailer.Sent())
}

func TestNotificationService_CheckReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)

	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "soon", DueDate: "2025-01-01 10:00", NotificationMinutes: ptr(30)})
	require.NoError(t, err)
	_, err = f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "finished", DueDate: "2025-01-01 10:00"})
	require.NoError(t, err)
	_, err = f.app.Tasks.CompleteTask(ctx, 2)
	require.NoError(t, err)
	_, err = f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "broken", DueDate: "soon"})
	require.NoError(t, err)

	report, err := f.app.Notifications.CheckNotifications(ctx)
	require.NoError(t, err)

	want := "Notification check complete.\n\nSent 1 email(s).\n\n--- Debug Info ---\n" +
		"Current time: 2025-01-01 09:45:00\n" +
		"Global notification threshold: 60 minutes\n" +
		"Total tasks: 3\n" +
		"Task 'soon': due_date=2025-01-01 10:00, minutes_until_due=15, threshold=30, will_notify=true\n" +
		"Task 'finished': SKIPPED (completed)\n" +
		"Task 'broken': ERROR parsing date 'soon': invalid format\n" +
		"Tasks updated\n" +
		"✓ Email sent for task 'soon'"
	assert.Equal(t, want, report)

	report, err = f.app.Notifications.CheckNotifications(ctx)
	require.NoError(t, err)
	assert.Contains(t, report, "Sent 0 email(s).")
	assert.Contains(t, report, "Task 'soon': SKIPPED (already notified)")
	assert.NotContains(t, report, "Tasks updated")
}

func TestNotificationService_OverdueNeverFires(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)

	_, err := f.app.Tasks.CreateTask(ctx, ports.TaskRequest{Description: "late", DueDate: "2025-01-01 10:00", NotificationMinutes: ptr(30)})
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, 1, 1, 10, 5, 0, 0, time.Local))
	sent, err := f.app.Notifications.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestNotificationService_SendTestEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	configure(t, f)

	msg, err := f.app.Notifications.SendTestEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Email sent successfully", msg)

	mails := f.mailer.Sent()
	require.Len(t, mails, 1)
	assert.Equal(t, sentMail{To: "me@example.com", Subject: "Test Email from Todo App", Body: "This is a test email to verify your settings."}, mails[0])
}

func TestNotificationService_RunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.app.Notifications.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(f.m.ReminderTicks) >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
