package entities

import (
	"errors"
)

// Common errors
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrSubtaskNotFound   = errors.New("subtask not found")
	ErrMemoNotFound      = errors.New("memo not found")
	ErrFolderNotFound    = errors.New("folder not found")
	ErrFolderCycle       = errors.New("folder parent would create a cycle")
	ErrBookNotFound      = errors.New("reading book not found")
	ErrNoteNotFound      = errors.New("reading note not found")
	ErrSessionNotFound   = errors.New("reading session not found")
	ErrEventNotFound     = errors.New("calendar event not found")
	ErrInvalidGroup      = errors.New("group name must not be blank")
	ErrInvalidStatus     = errors.New("invalid reading status")
	ErrInvalidDueDate    = errors.New("due date is not in a supported format")
	ErrMailNotConfigured = errors.New("email settings are not configured")
)

// IsNotFound reports whether err is one of the lookup failures above.
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrTaskNotFound,
		ErrSubtaskNotFound,
		ErrMemoNotFound,
		ErrFolderNotFound,
		ErrBookNotFound,
		ErrNoteNotFound,
		ErrSessionNotFound,
		ErrEventNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Kind names a top-level persisted collection.
type Kind string

const (
	KindTask     Kind = "tasks"
	KindGroup    Kind = "groups"
	KindMemo     Kind = "memos"
	KindFolder   Kind = "folders"
	KindBook     Kind = "reading_books"
	KindEvent    Kind = "calendar_events"
	KindSettings Kind = "settings"
)

// DefaultNotificationMinutes is the global reminder threshold used when
// nothing else has been configured (one day).
const DefaultNotificationMinutes = 1440

// MailSettings holds the reminder mail credentials. One instance per install.
type MailSettings struct {
	Email               string `json:"email" yaml:"email" validate:"omitempty,email"`
	AppPassword         string `json:"app_password" yaml:"-"`
	NotificationMinutes int    `json:"notification_minutes" yaml:"notification_minutes" validate:"gte=0"`
}

// DefaultMailSettings returns the unconfigured settings.
func DefaultMailSettings() MailSettings {
	return MailSettings{NotificationMinutes: DefaultNotificationMinutes}
}

// Configured reports whether both the sender address and credential are set.
func (s MailSettings) Configured() bool {
	return s.Email != "" && s.AppPassword != ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
