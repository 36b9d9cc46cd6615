package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/infrastructure/metrics"
	"github.com/noruno/platform/internal/ports"
)

// App is the application context handed to every command handler. It holds
// one service per entity kind, each owning its in-memory collection.
type App struct {
	Tasks         *TaskService
	Groups        *GroupService
	Memos         *MemoService
	Folders       *FolderService
	Reading       *ReadingService
	Calendar      *CalendarService
	Settings      *SettingsService
	Notifications *NotificationService
}

// Clock returns the current time. Tests replace it to pin timestamps.
type Clock func() time.Time

// IDGenerator returns a fresh string identifier.
type IDGenerator func() string

// base carries what every service needs besides its collection.
type base struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     Clock
	newID   IDGenerator
}

// persisted converts a backend failure into a PersistenceError and records it.
func (b *base) persisted(kind entities.Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	b.metrics.PersistError(string(kind))
	b.logger.LogPersistence(string(kind), op, 0, err)
	return &ports.PersistenceError{Op: op, Kind: kind, Err: err}
}

func (b *base) timestamp() time.Time {
	return b.now().UTC()
}

// Option customizes an App at construction time.
type Option func(*base)

// WithClock overrides the time source.
func WithClock(now Clock) Option {
	return func(b *base) { b.now = now }
}

// WithIDGenerator overrides UUID generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *base) { b.newID = gen }
}

// NewApp loads every collection from repos and wires the services.
func NewApp(ctx context.Context, repos ports.Repositories, mailer ports.Mailer, appLogger *logger.Logger, m *metrics.Metrics, opts ...Option) (*App, error) {
	b := &base{
		logger:  appLogger,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}

	tasks, err := repos.Tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	groups, err := repos.Groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	memos, err := repos.Memos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load memos: %w", err)
	}
	folders, err := repos.Folders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load folders: %w", err)
	}
	books, err := repos.Books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading books: %w", err)
	}
	events, err := repos.Events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar events: %w", err)
	}
	settings, err := repos.Settings.LoadMailSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load mail settings: %w", err)
	}

	app := &App{}
	app.Tasks = NewTaskService(store.New(tasks, entities.TaskID, entities.Task.Clone), repos.Tasks, b)
	app.Groups = NewGroupService(store.New(groups, identity, identity), repos.Groups, app.Tasks, b)
	app.Memos = NewMemoService(store.New(memos, entities.MemoID, entities.Memo.Clone), repos.Memos, b)
	app.Folders = NewFolderService(store.New(folders, entities.FolderID, entities.Folder.Clone), repos.Folders, app.Memos, b)
	app.Reading = NewReadingService(store.New(books, entities.BookID, entities.ReadingBook.Clone), repos.Books, b)
	app.Calendar = NewCalendarService(store.New(events, entities.EventID, entities.CalendarEvent.Clone), repos.Events, b)
	app.Settings = NewSettingsService(settings, repos.Settings, b)
	app.Notifications = NewNotificationService(app.Tasks, app.Settings, mailer, b)

	appLogger.Infow("Application state loaded",
		"tasks", len(tasks),
		"groups", len(groups),
		"memos", len(memos),
		"folders", len(folders),
		"reading_books", len(books),
		"calendar_events", len(events),
	)

	return app, nil
}

func identity(s string) string { return s }
