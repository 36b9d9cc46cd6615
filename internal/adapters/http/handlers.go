// Package http exposes the application commands as a local JSON API. Every
// mutating endpoint answers with the full, fresh collection of the kind it
// touched.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/adapters/mail"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/logger"
)

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// bind decodes and validates the request body into req
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func intParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return v, nil
}

// StatusFor maps an application error to the HTTP status it is reported with
func StatusFor(err error) int {
	var (
		transportErr  *mail.TransportError
		validationErr validator.ValidationErrors
	)

	switch {
	case entities.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrFolderCycle),
		errors.Is(err, entities.ErrInvalidGroup),
		errors.Is(err, entities.ErrInvalidDueDate),
		errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrMailNotConfigured):
		return http.StatusPreconditionFailed
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and converts it into an echo.HTTPError carrying the
// descriptive message.
func fail(log *logger.Logger, msg string, err error, fields ...interface{}) error {
	code := StatusFor(err)
	fields = append(fields, "error", err, "status", code)
	if code >= http.StatusInternalServerError {
		log.Errorw(msg, fields...)
	} else {
		log.Warnw(msg, fields...)
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}
