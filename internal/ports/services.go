package ports

import (
	"context"
	"time"

	"github.com/noruno/platform/internal/domain/entities"
)

// Mailer delivers a plain-text message using the credentials in settings.
// Implementations return entities.ErrMailNotConfigured before dialing when
// the settings are incomplete.
type Mailer interface {
	Send(ctx context.Context, settings entities.MailSettings, to, subject, body string) error
}

// Request/Response Types

// Task related types
type TaskRequest struct {
	Description         string  `json:"description" validate:"required,max=1000"`
	StartDate           *string `json:"start_date"`
	DueDate             string  `json:"due_date"`
	Group               string  `json:"group" validate:"max=200"`
	Details             string  `json:"details"`
	NotificationMinutes *int    `json:"notification_minutes" validate:"omitempty,gte=0"`
	Dependencies        []int   `json:"dependencies"`
}

type SubtaskRequest struct {
	Description string `json:"description" validate:"required,max=1000"`
	Completed   bool   `json:"completed"`
}

type GroupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// Memo related types
type MemoRequest struct {
	Title    string   `json:"title" validate:"max=500"`
	Content  string   `json:"content"`
	FolderID *string  `json:"folder_id"`
	Tags     []string `json:"tags"`
}

type FolderRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	ParentID *string `json:"parent_id"`
}

// Reading related types
type CreateBookRequest struct {
	Title string `json:"title" validate:"required,max=500"`
}

type UpdateBookRequest struct {
	Title         string                 `json:"title" validate:"required,max=500"`
	Author        *string                `json:"author"`
	ISBN          *string                `json:"isbn"`
	Publisher     *string                `json:"publisher"`
	PublishedYear *int                   `json:"published_year"`
	CoverImageURL *string                `json:"cover_image_url" validate:"omitempty,url"`
	Genres        []string               `json:"genres"`
	Status        entities.ReadingStatus `json:"status" validate:"required"`
	StartDate     *time.Time             `json:"start_date"`
	FinishDate    *time.Time             `json:"finish_date"`
	TotalPages    *int                   `json:"total_pages" validate:"omitempty,gte=0"`
	CurrentPage   *int                   `json:"current_page" validate:"omitempty,gte=0"`
	Rating        *int                   `json:"rating" validate:"omitempty,gte=0,lte=100"`
	Summary       string                 `json:"summary"`
	Tags          []string               `json:"tags"`
}

type ReadingNoteRequest struct {
	PageNumber *int    `json:"page_number" validate:"omitempty,gte=0"`
	Quote      *string `json:"quote"`
	Comment    string  `json:"comment"`
}

type ReadingSessionRequest struct {
	SessionDate     time.Time `json:"session_date" validate:"required"`
	StartPage       *int      `json:"start_page" validate:"omitempty,gte=0"`
	EndPage         *int      `json:"end_page" validate:"omitempty,gte=0"`
	PagesRead       int       `json:"pages_read" validate:"gte=0"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gte=0"`
	Memo            *string   `json:"memo"`
}

// Calendar related types
type CalendarEventRequest struct {
	Title           string  `json:"title" validate:"required,max=500"`
	Description     string  `json:"description"`
	StartDatetime   string  `json:"start_datetime" validate:"required"`
	EndDatetime     *string `json:"end_datetime"`
	AllDay          bool    `json:"all_day"`
	Color           *string `json:"color"`
	RecurrenceRule  *string `json:"recurrence_rule"`
	ReminderMinutes *int    `json:"reminder_minutes" validate:"omitempty,gte=0"`
}
