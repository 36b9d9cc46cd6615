package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/logger"
)

// SettingsHandler handles mail settings and notification requests
type SettingsHandler struct {
	settingsService     *services.SettingsService
	notificationService *services.NotificationService
	logger              *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService, notificationService *services.NotificationService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService:     settingsService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetMailSettings godoc
// @Summary Get mail settings
// @Tags settings
// @Produce json
// @Success 200 {object} entities.MailSettings
// @Router /settings/mail [get]
func (h *SettingsHandler) GetMailSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settingsService.GetMailSettings())
}

// SaveMailSettings godoc
// @Summary Save mail settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body entities.MailSettings true "Mail settings"
// @Success 200 {object} entities.MailSettings
// @Failure 400 {object} ErrorResponse
// @Router /settings/mail [put]
func (h *SettingsHandler) SaveMailSettings(c echo.Context) error {
	var req entities.MailSettings
	if err := bind(c, &req); err != nil {
		return err
	}

	settings, err := h.settingsService.SaveMailSettings(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Save mail settings failed", err)
	}
	return c.JSON(http.StatusOK, settings)
}

// SendTestEmail godoc
// @Summary Send a test email to the configured address
// @Tags notifications
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 412 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /notifications/test-email [post]
func (h *SettingsHandler) SendTestEmail(c echo.Context) error {
	msg, err := h.notificationService.SendTestEmail(c.Request().Context())
	if err != nil {
		return fail(h.logger, "Test email failed", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

// CheckNotifications godoc
// @Summary Run a reminder pass now
// @Description Returns a human-readable diagnostic report
// @Tags notifications
// @Produce plain
// @Success 200 {string} string
// @Failure 412 {object} ErrorResponse
// @Router /notifications/check [post]
func (h *SettingsHandler) CheckNotifications(c echo.Context) error {
	report, err := h.notificationService.CheckNotifications(c.Request().Context())
	if err != nil {
		return fail(h.logger, "Notification check failed", err)
	}
	return c.String(http.StatusOK, report)
}
