package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/domain/reminder"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

const (
	testEmailSubject = "Test Email from Todo App"
	testEmailBody    = "This is a test email to verify your settings."
)

// NotificationService scans tasks for due reminders and mails them
type NotificationService struct {
	*base
	log      *logger.Logger
	tasks    *TaskService
	settings *SettingsService
	mailer   ports.Mailer
}

// NewNotificationService creates a new notification service
func NewNotificationService(tasks *TaskService, settings *SettingsService, mailer ports.Mailer, b *base) *NotificationService {
	return &NotificationService{
		base:     b,
		log:      b.logger.WithComponent("notifications"),
		tasks:    tasks,
		settings: settings,
		mailer:   mailer,
	}
}

// Run ticks every interval until ctx is canceled.
func (s *NotificationService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Infow("Notification scheduler started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Notification scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Tick(ctx); err != nil {
				s.log.Errorw("Notification tick failed", "error", err)
			}
		}
	}
}

// Tick runs one scheduler pass and returns the number of reminders attempted.
// Unconfigured mail settings skip the pass without error.
func (s *NotificationService) Tick(ctx context.Context) (int, error) {
	s.metrics.Tick()

	settings := s.settings.GetMailSettings()
	if !settings.Configured() {
		return 0, nil
	}

	pending, err := s.scan(ctx, settings, s.timestamp().Local(), nil)
	s.deliver(ctx, settings, pending, nil)
	return len(pending), err
}

// CheckNotifications runs a pass on demand and returns a diagnostic report
// with the decision taken for every task.
func (s *NotificationService) CheckNotifications(ctx context.Context) (string, error) {
	settings := s.settings.GetMailSettings()
	if !settings.Configured() {
		return "", fmt.Errorf("check notifications: %w", entities.ErrMailNotConfigured)
	}

	now := s.timestamp().Local()
	lines := []string{
		"Current time: " + now.Format("2006-01-02 15:04:05"),
		fmt.Sprintf("Global notification threshold: %d minutes", settings.NotificationMinutes),
		fmt.Sprintf("Total tasks: %d", s.tasks.tasks.Len()),
	}

	pending, err := s.scan(ctx, settings, now, &lines)
	if err != nil {
		lines = append(lines, "Failed to update tasks: "+err.Error())
	} else if len(pending) > 0 {
		lines = append(lines, "Tasks updated")
	}
	s.deliver(ctx, settings, pending, &lines)

	return fmt.Sprintf("Notification check complete.\n\nSent %d email(s).\n\n--- Debug Info ---\n%s",
		len(pending), strings.Join(lines, "\n")), nil
}

// SendTestEmail mails a fixed message to the configured address
func (s *NotificationService) SendTestEmail(ctx context.Context) (string, error) {
	settings := s.settings.GetMailSettings()
	if err := s.mailer.Send(ctx, settings, settings.Email, testEmailSubject, testEmailBody); err != nil {
		s.log.Warnw("Test email failed", "error", err)
		return "", err
	}
	s.log.Infow("Test email sent", "to", settings.Email)
	return "Email sent successfully", nil
}

// scan marks every due task as notified under the task lock and returns the
// marked tasks. A persistence error still returns the marked tasks: they are
// latched in memory and are sent once.
func (s *NotificationService) scan(ctx context.Context, settings entities.MailSettings, now time.Time, report *[]string) ([]entities.Task, error) {
	note := func(format string, args ...interface{}) {
		if report != nil {
			*report = append(*report, fmt.Sprintf(format, args...))
		}
	}

	pending, err := s.tasks.MarkDue(ctx, func(task *entities.Task) bool {
		if task.Completed {
			note("Task '%s': SKIPPED (completed)", task.Description)
			return false
		}
		if task.Notified {
			note("Task '%s': SKIPPED (already notified)", task.Description)
			return false
		}

		decision, err := reminder.Evaluate(task, settings, now)
		if err != nil {
			s.metrics.ParseError()
			s.log.Debugw("Skipping task with unparseable due date", "task_id", task.ID, "due_date", task.DueDate)
			note("Task '%s': ERROR parsing date '%s': invalid format", task.Description, task.DueDate)
			return false
		}

		note("Task '%s': due_date=%s, minutes_until_due=%d, threshold=%d, will_notify=%t",
			task.Description, task.DueDate, decision.MinutesUntilDue, decision.Threshold, decision.Notify)
		if decision.Notify {
			task.Notified = true
		}
		return decision.Notify
	})
	if err != nil {
		s.log.Errorw("Failed to persist notified tasks", "count", len(pending), "error", err)
	}
	return pending, err
}

// deliver sends one reminder per task. Failures are recorded and never
// revert the notified flag.
func (s *NotificationService) deliver(ctx context.Context, settings entities.MailSettings, pending []entities.Task, report *[]string) {
	for _, task := range pending {
		subject, body := reminderMessage(task)
		if err := s.mailer.Send(ctx, settings, settings.Email, subject, body); err != nil {
			s.metrics.ReminderFailed()
			s.log.Warnw("Failed to send reminder", "task_id", task.ID, "error", err)
			if report != nil {
				*report = append(*report, fmt.Sprintf("✗ Failed to send email for task '%s': %v", task.Description, err))
			}
			continue
		}

		s.metrics.ReminderSent()
		s.log.Infow("Reminder sent", "task_id", task.ID, "due_date", task.DueDate)
		if report != nil {
			*report = append(*report, fmt.Sprintf("✓ Email sent for task '%s'", task.Description))
		}
	}
}

func reminderMessage(task entities.Task) (string, string) {
	subject := "[Todo App] Task Due: " + task.Description
	body := fmt.Sprintf("Your task '%s' is due on %s.\n\nDetails: %s\nGroup: %s",
		task.Description, task.DueDate, task.Details, task.Group)
	return subject, body
}
