package ports

import (
	"context"
	"fmt"

	"github.com/noruno/platform/internal/domain/entities"
)

// Repository is the persistence backend for one entity kind. Upsert is
// insert-or-update by key; every call is durable before it returns.
type Repository[K comparable, T any] interface {
	List(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, items ...T) error
	Delete(ctx context.Context, id K) error
}

// TaskRepository persists tasks with their embedded subtasks.
type TaskRepository = Repository[int, entities.Task]

// GroupRepository persists group labels; a group is its own key.
type GroupRepository = Repository[string, string]

// MemoRepository persists memos.
type MemoRepository = Repository[string, entities.Memo]

// FolderRepository persists memo folders.
type FolderRepository = Repository[string, entities.Folder]

// BookRepository persists reading books with their notes and sessions.
type BookRepository = Repository[string, entities.ReadingBook]

// EventRepository persists calendar events.
type EventRepository = Repository[string, entities.CalendarEvent]

// SettingsRepository persists the mail settings singleton.
type SettingsRepository interface {
	LoadMailSettings(ctx context.Context) (entities.MailSettings, error)
	SaveMailSettings(ctx context.Context, settings entities.MailSettings) error
}

// Repositories bundles one backend per entity kind.
type Repositories struct {
	Tasks    TaskRepository
	Groups   GroupRepository
	Memos    MemoRepository
	Folders  FolderRepository
	Books    BookRepository
	Events   EventRepository
	Settings SettingsRepository
}

// PersistenceError reports a storage failure. The in-memory collection may
// already hold the change that failed to persist.
type PersistenceError struct {
	Op   string
	Kind entities.Kind
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s (%s): %v", e.Kind, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
