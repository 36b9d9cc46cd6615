package services

import (
	"time"

	"github.com/noruno/platform/internal/domain/entities"
)

// Snapshot is a point-in-time copy of every collection, used for backups.
// The mail credential is never included.
type Snapshot struct {
	ExportedAt     time.Time                `json:"exported_at" yaml:"exported_at"`
	Tasks          []entities.Task          `json:"tasks" yaml:"tasks"`
	Groups         []string                 `json:"groups" yaml:"groups"`
	Memos          []entities.Memo          `json:"memos" yaml:"memos"`
	Folders        []entities.Folder        `json:"folders" yaml:"folders"`
	ReadingBooks   []entities.ReadingBook   `json:"reading_books" yaml:"reading_books"`
	CalendarEvents []entities.CalendarEvent `json:"calendar_events" yaml:"calendar_events"`
	MailSettings   entities.MailSettings    `json:"mail_settings" yaml:"mail_settings"`
}

// Export snapshots every collection. Each collection is copied under its own
// lock, so the result is consistent per kind only.
func (a *App) Export() Snapshot {
	settings := a.Settings.GetMailSettings()
	settings.AppPassword = ""

	return Snapshot{
		ExportedAt:     a.Settings.timestamp(),
		Tasks:          a.Tasks.ListTasks(),
		Groups:         a.Groups.ListGroups(),
		Memos:          a.Memos.ListMemos(),
		Folders:        a.Folders.ListFolders(),
		ReadingBooks:   a.Reading.ListBooks(),
		CalendarEvents: a.Calendar.ListEvents(),
		MailSettings:   settings,
	}
}
