package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

// CalendarHandler handles calendar event requests
type CalendarHandler struct {
	calendarService *services.CalendarService
	logger          *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

func (h *CalendarHandler) ListEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, h.calendarService.ListEvents())
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Description recurrence_rule is stored as given and never expanded
// @Tags calendar
// @Accept json
// @Produce json
// @Param request body ports.CalendarEventRequest true "Event data"
// @Success 201 {array} entities.CalendarEvent
// @Router /events [post]
func (h *CalendarHandler) CreateEvent(c echo.Context) error {
	var req ports.CalendarEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	events, err := h.calendarService.CreateEvent(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Create event failed", err)
	}
	return c.JSON(http.StatusCreated, events)
}

func (h *CalendarHandler) UpdateEvent(c echo.Context) error {
	id := c.Param("id")
	var req ports.CalendarEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	events, err := h.calendarService.UpdateEvent(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Update event failed", err, "event_id", id)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *CalendarHandler) DeleteEvent(c echo.Context) error {
	id := c.Param("id")

	events, err := h.calendarService.DeleteEvent(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Delete event failed", err, "event_id", id)
	}
	return c.JSON(http.StatusOK, events)
}
