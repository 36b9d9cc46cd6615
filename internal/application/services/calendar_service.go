package services

import (
	"context"
	"fmt"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// CalendarService handles calendar events. Recurrence rules are stored as
// given and never expanded.
type CalendarService struct {
	*base
	events *store.Collection[string, entities.CalendarEvent]
	repo   ports.EventRepository
}

// NewCalendarService creates a new calendar service
func NewCalendarService(events *store.Collection[string, entities.CalendarEvent], repo ports.EventRepository, b *base) *CalendarService {
	return &CalendarService{base: b, events: events, repo: repo}
}

// ListEvents returns every event
func (s *CalendarService) ListEvents() []entities.CalendarEvent {
	return s.events.Snapshot()
}

// GetEvent retrieves an event by ID
func (s *CalendarService) GetEvent(id string) (entities.CalendarEvent, error) {
	event, ok := s.events.Get(id)
	if !ok {
		return entities.CalendarEvent{}, fmt.Errorf("event %s: %w", id, entities.ErrEventNotFound)
	}
	return event, nil
}

// CreateEvent adds an event
func (s *CalendarService) CreateEvent(ctx context.Context, req ports.CalendarEventRequest) ([]entities.CalendarEvent, error) {
	now := s.timestamp()
	event := eventFromRequest(req)
	event.ID = s.newID()
	event.CreatedAt = now
	event.UpdatedAt = now

	events, err := s.events.Mutate(func(items *[]entities.CalendarEvent) error {
		*items = append(*items, event)
		return s.persisted(entities.KindEvent, "create", s.repo.Upsert(ctx, event))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Calendar event created successfully", "event_id", event.ID)
	return events, nil
}

// UpdateEvent replaces an event's fields. The id and creation time are kept.
func (s *CalendarService) UpdateEvent(ctx context.Context, id string, req ports.CalendarEventRequest) ([]entities.CalendarEvent, error) {
	return s.events.Mutate(func(items *[]entities.CalendarEvent) error {
		i := s.events.IndexOf(*items, id)
		if i < 0 {
			return fmt.Errorf("event %s: %w", id, entities.ErrEventNotFound)
		}

		updated := eventFromRequest(req)
		updated.ID = id
		updated.CreatedAt = (*items)[i].CreatedAt
		updated.UpdatedAt = s.timestamp()
		(*items)[i] = updated

		return s.persisted(entities.KindEvent, "update", s.repo.Upsert(ctx, updated))
	})
}

// DeleteEvent removes an event. Unknown ids leave the collection untouched.
func (s *CalendarService) DeleteEvent(ctx context.Context, id string) ([]entities.CalendarEvent, error) {
	return s.events.Mutate(func(items *[]entities.CalendarEvent) error {
		if !s.events.Remove(items, id) {
			return nil
		}
		return s.persisted(entities.KindEvent, "delete", s.repo.Delete(ctx, id))
	})
}

func eventFromRequest(req ports.CalendarEventRequest) entities.CalendarEvent {
	return entities.CalendarEvent{
		Title:           req.Title,
		Description:     req.Description,
		StartDatetime:   req.StartDatetime,
		EndDatetime:     req.EndDatetime,
		AllDay:          req.AllDay,
		Color:           req.Color,
		RecurrenceRule:  req.RecurrenceRule,
		ReminderMinutes: req.ReminderMinutes,
	}
}
