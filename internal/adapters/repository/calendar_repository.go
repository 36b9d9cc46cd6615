package repository

import (
	"database/sql"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

type eventRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	StartDatetime   string         `db:"start_datetime"`
	EndDatetime     sql.NullString `db:"end_datetime"`
	AllDay          bool           `db:"all_day"`
	Color           sql.NullString `db:"color"`
	RecurrenceRule  sql.NullString `db:"recurrence_rule"`
	ReminderMinutes sql.NullInt64  `db:"reminder_minutes"`
	CreatedAt       string         `db:"created_at"`
	UpdatedAt       string         `db:"updated_at"`
}

// NewEventRepository creates a calendar event repository
func NewEventRepository(db *database.DB) ports.EventRepository {
	return &sqlTable[string, entities.CalendarEvent, eventRow]{
		db:   db,
		kind: entities.KindEvent,
		selectSQL: `
			SELECT id, title, description, start_datetime, end_datetime, all_day,
				color, recurrence_rule, reminder_minutes, created_at, updated_at
			FROM calendar_events
			ORDER BY seq`,
		upsertSQL: `
			INSERT INTO calendar_events (id, title, description, start_datetime, end_datetime,
				all_day, color, recurrence_rule, reminder_minutes, created_at, updated_at)
			VALUES (:id, :title, :description, :start_datetime, :end_datetime,
				:all_day, :color, :recurrence_rule, :reminder_minutes, :created_at, :updated_at)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				start_datetime = excluded.start_datetime,
				end_datetime = excluded.end_datetime,
				all_day = excluded.all_day,
				color = excluded.color,
				recurrence_rule = excluded.recurrence_rule,
				reminder_minutes = excluded.reminder_minutes,
				updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM calendar_events WHERE id = ?`,
		toRow: func(e entities.CalendarEvent) (eventRow, error) {
			return eventRow{
				ID:              e.ID,
				Title:           e.Title,
				Description:     e.Description,
				StartDatetime:   e.StartDatetime,
				EndDatetime:     nullString(e.EndDatetime),
				AllDay:          e.AllDay,
				Color:           nullString(e.Color),
				RecurrenceRule:  nullString(e.RecurrenceRule),
				ReminderMinutes: nullInt(e.ReminderMinutes),
				CreatedAt:       formatTime(e.CreatedAt),
				UpdatedAt:       formatTime(e.UpdatedAt),
			}, nil
		},
		fromRow: eventFromRow,
	}
}

func eventFromRow(r eventRow) (entities.CalendarEvent, error) {
	e := entities.CalendarEvent{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		StartDatetime:   r.StartDatetime,
		EndDatetime:     stringPtr(r.EndDatetime),
		AllDay:          r.AllDay,
		Color:           stringPtr(r.Color),
		RecurrenceRule:  stringPtr(r.RecurrenceRule),
		ReminderMinutes: intPtr(r.ReminderMinutes),
	}

	var err error
	if e.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return e, err
	}
	if e.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return e, err
	}
	return e, nil
}
