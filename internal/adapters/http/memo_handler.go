package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

// MemoHandler handles memo and folder requests
type MemoHandler struct {
	memoService   *services.MemoService
	folderService *services.FolderService
	logger        *logger.Logger
}

// NewMemoHandler creates a new memo handler
func NewMemoHandler(memoService *services.MemoService, folderService *services.FolderService, logger *logger.Logger) *MemoHandler {
	return &MemoHandler{
		memoService:   memoService,
		folderService: folderService,
		logger:        logger,
	}
}

// ListMemos godoc
// @Summary List memos
// @Tags memos
// @Produce json
// @Success 200 {array} entities.Memo
// @Router /memos [get]
func (h *MemoHandler) ListMemos(c echo.Context) error {
	return c.JSON(http.StatusOK, h.memoService.ListMemos())
}

func (h *MemoHandler) GetMemo(c echo.Context) error {
	id := c.Param("id")

	memo, err := h.memoService.GetMemo(id)
	if err != nil {
		return fail(h.logger, "Get memo failed", err, "memo_id", id)
	}
	return c.JSON(http.StatusOK, memo)
}

// CreateMemo godoc
// @Summary Create a memo
// @Tags memos
// @Accept json
// @Produce json
// @Param request body ports.MemoRequest true "Memo data"
// @Success 201 {array} entities.Memo
// @Router /memos [post]
func (h *MemoHandler) CreateMemo(c echo.Context) error {
	var req ports.MemoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	memos, err := h.memoService.CreateMemo(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Create memo failed", err)
	}
	return c.JSON(http.StatusCreated, memos)
}

func (h *MemoHandler) UpdateMemo(c echo.Context) error {
	id := c.Param("id")
	var req ports.MemoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	memos, err := h.memoService.UpdateMemo(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Update memo failed", err, "memo_id", id)
	}
	return c.JSON(http.StatusOK, memos)
}

func (h *MemoHandler) DeleteMemo(c echo.Context) error {
	id := c.Param("id")

	memos, err := h.memoService.DeleteMemo(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Delete memo failed", err, "memo_id", id)
	}
	return c.JSON(http.StatusOK, memos)
}

// SearchMemos godoc
// @Summary Search memos
// @Description Case-insensitive substring match on title, content and tags
// @Tags memos
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} entities.Memo
// @Router /memos/search [get]
func (h *MemoHandler) SearchMemos(c echo.Context) error {
	return c.JSON(http.StatusOK, h.memoService.SearchMemos(c.QueryParam("q")))
}

// GetAllTags returns every tag in use, sorted
func (h *MemoHandler) GetAllTags(c echo.Context) error {
	return c.JSON(http.StatusOK, h.memoService.AllTags())
}

func (h *MemoHandler) ListFolders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.folderService.ListFolders())
}

func (h *MemoHandler) CreateFolder(c echo.Context) error {
	var req ports.FolderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	folders, err := h.folderService.CreateFolder(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Create folder failed", err)
	}
	return c.JSON(http.StatusCreated, folders)
}

func (h *MemoHandler) UpdateFolder(c echo.Context) error {
	id := c.Param("id")
	var req ports.FolderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	folders, err := h.folderService.UpdateFolder(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Update folder failed", err, "folder_id", id)
	}
	return c.JSON(http.StatusOK, folders)
}

// DeleteFolder godoc
// @Summary Delete a folder
// @Description Memos in the folder are kept and lose their folder reference
// @Tags folders
// @Produce json
// @Param id path string true "Folder ID"
// @Success 200 {array} entities.Folder
// @Router /folders/{id} [delete]
func (h *MemoHandler) DeleteFolder(c echo.Context) error {
	id := c.Param("id")

	folders, err := h.folderService.DeleteFolder(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Delete folder failed", err, "folder_id", id)
	}
	return c.JSON(http.StatusOK, folders)
}
