package http

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/noruno/platform/internal/application/services"
	"github.com/noruno/platform/internal/infrastructure/logger"
	"github.com/noruno/platform/internal/ports"
)

// TaskHandler handles task, subtask and group requests
type TaskHandler struct {
	taskService  *services.TaskService
	groupService *services.GroupService
	logger       *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, groupService *services.GroupService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		groupService: groupService,
		logger:       logger,
	}
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Success 200 {array} entities.Task
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.taskService.ListTasks())
}

// GetTask godoc
// @Summary Get task by ID
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		return fail(h.logger, "Get task failed", err, "task_id", id)
	}
	return c.JSON(http.StatusOK, task)
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.TaskRequest true "Task data"
// @Success 201 {array} entities.Task
// @Failure 400 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.TaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return fail(h.logger, "Create task failed", err)
	}
	return c.JSON(http.StatusCreated, tasks)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Changing due_date or notification_minutes re-arms the reminder
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body ports.TaskRequest true "Task data"
// @Success 200 {array} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req ports.TaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.UpdateTask(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Update task failed", err, "task_id", id)
	}
	return c.JSON(http.StatusOK, tasks)
}

// CompleteTask godoc
// @Summary Toggle the completed flag of a task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {array} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.CompleteTask(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Complete task failed", err, "task_id", id)
	}
	return c.JSON(http.StatusOK, tasks)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Deleting a missing task is a no-op
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {array} entities.Task
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.DeleteTask(c.Request().Context(), id)
	if err != nil {
		return fail(h.logger, "Delete task failed", err, "task_id", id)
	}
	return c.JSON(http.StatusOK, tasks)
}

// AddSubtask godoc
// @Summary Add a subtask
// @Tags subtasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body ports.SubtaskRequest true "Subtask data"
// @Success 201 {array} entities.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/subtasks [post]
func (h *TaskHandler) AddSubtask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	var req ports.SubtaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.AddSubtask(c.Request().Context(), id, req)
	if err != nil {
		return fail(h.logger, "Add subtask failed", err, "task_id", id)
	}
	return c.JSON(http.StatusCreated, tasks)
}

// UpdateSubtask godoc
// @Summary Update a subtask
// @Tags subtasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param subtaskId path int true "Subtask ID"
// @Param request body ports.SubtaskRequest true "Subtask data"
// @Success 200 {array} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/subtasks/{subtaskId} [put]
func (h *TaskHandler) UpdateSubtask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	subtaskID, err := intParam(c, "subtaskId")
	if err != nil {
		return err
	}
	var req ports.SubtaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	tasks, err := h.taskService.UpdateSubtask(c.Request().Context(), id, subtaskID, req)
	if err != nil {
		return fail(h.logger, "Update subtask failed", err, "task_id", id, "subtask_id", subtaskID)
	}
	return c.JSON(http.StatusOK, tasks)
}

// ToggleSubtask godoc
// @Summary Toggle the completed flag of a subtask
// @Tags subtasks
// @Produce json
// @Param id path int true "Task ID"
// @Param subtaskId path int true "Subtask ID"
// @Success 200 {array} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/subtasks/{subtaskId}/toggle [post]
func (h *TaskHandler) ToggleSubtask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	subtaskID, err := intParam(c, "subtaskId")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ToggleSubtask(c.Request().Context(), id, subtaskID)
	if err != nil {
		return fail(h.logger, "Toggle subtask failed", err, "task_id", id, "subtask_id", subtaskID)
	}
	return c.JSON(http.StatusOK, tasks)
}

// DeleteSubtask godoc
// @Summary Delete a subtask
// @Tags subtasks
// @Produce json
// @Param id path int true "Task ID"
// @Param subtaskId path int true "Subtask ID"
// @Success 200 {array} entities.Task
// @Failure 404 {object} ErrorResponse
// @Router /tasks/{id}/subtasks/{subtaskId} [delete]
func (h *TaskHandler) DeleteSubtask(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	subtaskID, err := intParam(c, "subtaskId")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.DeleteSubtask(c.Request().Context(), id, subtaskID)
	if err != nil {
		return fail(h.logger, "Delete subtask failed", err, "task_id", id, "subtask_id", subtaskID)
	}
	return c.JSON(http.StatusOK, tasks)
}

// ListGroups godoc
// @Summary List task groups
// @Tags groups
// @Produce json
// @Success 200 {array} string
// @Router /groups [get]
func (h *TaskHandler) ListGroups(c echo.Context) error {
	return c.JSON(http.StatusOK, h.groupService.ListGroups())
}

// CreateGroup godoc
// @Summary Create a task group
// @Description Duplicate names are ignored
// @Tags groups
// @Accept json
// @Produce json
// @Param request body ports.GroupRequest true "Group name"
// @Success 201 {array} string
// @Failure 400 {object} ErrorResponse
// @Router /groups [post]
func (h *TaskHandler) CreateGroup(c echo.Context) error {
	var req ports.GroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	groups, err := h.groupService.CreateGroup(c.Request().Context(), req.Name)
	if err != nil {
		return fail(h.logger, "Create group failed", err, "group", req.Name)
	}
	return c.JSON(http.StatusCreated, groups)
}

// DeleteGroup godoc
// @Summary Delete a task group
// @Description Clears the group from every task using it
// @Tags groups
// @Produce json
// @Param name path string true "Group name"
// @Success 200 {array} string
// @Router /groups/{name} [delete]
func (h *TaskHandler) DeleteGroup(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid group name")
	}

	groups, err := h.groupService.DeleteGroup(c.Request().Context(), name)
	if err != nil {
		return fail(h.logger, "Delete group failed", err, "group", name)
	}
	return c.JSON(http.StatusOK, groups)
}
