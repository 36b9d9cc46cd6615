package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

// ReadingHandler handles reading log requests
type ReadingHandler struct {
	readingService *services.ReadingService
	logger         *logger.Logger
}

// NewReadingHandler creates a new reading handler
func NewReadingHandler(readingService *services.ReadingService, logger *logger.Logger) *ReadingHandler {
	return &ReadingHandler{
		readingService: readingService,
		logger:         logger,
	}
}

// ListBooks godoc
// @Summary List reading books
// @Tags reading
// @Produce json
// @Success 200 {array} entities.ReadingBook
// @Router /books [get]
func (h *ReadingHandler) ListBooks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.readingService.ListBooks())
}

func (h *ReadingHandler) CreateBook(c echo.Context) error {
	var req ports.CreateBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.CreateBook(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Create book failed", err)
	}
	return c.JSON(http.StatusCreated, books)
}

// UpdateBook godoc
// @Summary Update a reading book
// @Description Progress is recomputed from current_page and total_pages
// @Tags reading
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param request body ports.UpdateBookRequest true "Book data"
// @Success 200 {array} entities.ReadingBook
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /books/{id} [put]
func (h *ReadingHandler) UpdateBook(c echo.Context) error {
	id := c.Param("id")
	var req ports.UpdateBookRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.UpdateBook(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Update book failed", err, "book_id", id)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *ReadingHandler) DeleteBook(c echo.Context) error {
	id := c.Param("id")

	books, err := h.readingService.DeleteBook(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Delete book failed", err, "book_id", id)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *ReadingHandler) AddNote(c echo.Context) error {
	id := c.Param("id")
	var req ports.ReadingNoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.AddNote(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Add note failed", err, "book_id", id)
	}
	return c.JSON(http.StatusCreated, books)
}

func (h *ReadingHandler) UpdateNote(c echo.Context) error {
	id, noteID := c.Param("id"), c.Param("noteId")
	var req ports.ReadingNoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.UpdateNote(c.Request().Context(), id, noteID, req)
	if err != nil {
		return fail(h.logger, "Update note failed", err, "book_id", id, "note_id", noteID)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *ReadingHandler) DeleteNote(c echo.Context) error {
	id, noteID := c.Param("id"), c.Param("noteId")

	books, err := h.readingService.DeleteNote(c.Request().Context(), id, noteID)
	if err != nil {
		return fail(h.logger, "Delete note failed", err, "book_id", id, "note_id", noteID)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *ReadingHandler) AddSession(c echo.Context) error {
	id := c.Param("id")
	var req ports.ReadingSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.AddSession(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Add session failed", err, "book_id", id)
	}
	return c.JSON(http.StatusCreated, books)
}

func (h *ReadingHandler) UpdateSession(c echo.Context) error {
	id, sessionID := c.Param("id"), c.Param("sessionId")
	var req ports.ReadingSessionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	books, err := h.readingService.UpdateSession(c.Request().Context(), id, sessionID, req)
	if err != nil {
		return fail(h.logger, "Update session failed", err, "book_id", id, "session_id", sessionID)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *ReadingHandler) DeleteSession(c echo.Context) error {
	id, sessionID := c.Param("id"), c.Param("sessionId")

	books, err := h.readingService.DeleteSession(c.Request().Context(), id, sessionID)
	if err != nil {
		return fail(h.logger, "Delete session failed", err, "book_id", id, "session_id", sessionID)
	}
	return c.JSON(http.StatusOK, books)
}
