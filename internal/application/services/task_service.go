package services

import (
	"context"
	"fmt"

	"github.com/noruno/platform/internal/application/store"
	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/ports"
)

// TaskService handles task and subtask operations
type TaskService struct {
	*base
	tasks  *store.Collection[int, entities.Task]
	repo   ports.TaskRepository
	nextID int // guarded by the tasks collection lock
}

// NewTaskService creates a new task service. Ids continue after the highest
// loaded id.
func NewTaskService(tasks *store.Collection[int, entities.Task], repo ports.TaskRepository, b *base) *TaskService {
	highest := 0
	tasks.Read(func(items []entities.Task) {
		for _, t := range items {
			if t.ID > highest {
				highest = t.ID
			}
		}
	})

	return &TaskService{
		base:   b,
		tasks:  tasks,
		repo:   repo,
		nextID: highest + 1,
	}
}

// ListTasks returns every task
func (s *TaskService) ListTasks() []entities.Task {
	return s.tasks.Snapshot()
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(id int) (entities.Task, error) {
	task, ok := s.tasks.Get(id)
	if !ok {
		return entities.Task{}, fmt.Errorf("task %d: %w", id, entities.ErrTaskNotFound)
	}
	return task, nil
}

// CreateTask creates a new task
func (s *TaskService) CreateTask(ctx context.Context, req ports.TaskRequest) ([]entities.Task, error) {
	var created entities.Task

	tasks, err := s.tasks.Mutate(func(items *[]entities.Task) error {
		created = entities.Task{
			ID:                  s.nextID,
			Description:         req.Description,
			StartDate:           req.StartDate,
			DueDate:             req.DueDate,
			Group:               req.Group,
			Details:             req.Details,
			NotificationMinutes: req.NotificationMinutes,
			Subtasks:            []entities.Subtask{},
			Dependencies:        req.Dependencies,
		}
		s.nextID++
		*items = append(*items, created)

		return s.persisted(entities.KindTask, "create", s.repo.Upsert(ctx, created))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task created successfully", "task_id", created.ID)
	return tasks, nil
}

// UpdateTask overwrites the mutable fields of a task. Changing the due date
// or the notification threshold re-arms the reminder.
func (s *TaskService) UpdateTask(ctx context.Context, id int, req ports.TaskRequest) ([]entities.Task, error) {
	tasks, err := s.modify(ctx, id, "update", func(task *entities.Task) error {
		task.Description = req.Description
		task.StartDate = req.StartDate
		task.Group = req.Group
		task.Details = req.Details
		task.Dependencies = req.Dependencies
		task.Reschedule(req.DueDate, req.NotificationMinutes)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task updated successfully", "task_id", id)
	return tasks, nil
}

// CompleteTask toggles the completed flag
func (s *TaskService) CompleteTask(ctx context.Context, id int) ([]entities.Task, error) {
	return s.modify(ctx, id, "complete", func(task *entities.Task) error {
		task.Completed = !task.Completed
		return nil
	})
}

// DeleteTask removes a task. Unknown ids leave the collection untouched.
func (s *TaskService) DeleteTask(ctx context.Context, id int) ([]entities.Task, error) {
	tasks, err := s.tasks.Mutate(func(items *[]entities.Task) error {
		if !s.tasks.Remove(items, id) {
			return nil
		}
		return s.persisted(entities.KindTask, "delete", s.repo.Delete(ctx, id))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task deleted successfully", "task_id", id)
	return tasks, nil
}

// AddSubtask appends a subtask with the next free id
func (s *TaskService) AddSubtask(ctx context.Context, taskID int, req ports.SubtaskRequest) ([]entities.Task, error) {
	return s.modify(ctx, taskID, "add_subtask", func(task *entities.Task) error {
		task.Subtasks = append(task.Subtasks, entities.Subtask{
			ID:          task.NextSubtaskID(),
			Description: req.Description,
			Completed:   req.Completed,
		})
		return nil
	})
}

// UpdateSubtask sets a subtask's description and completed flag
func (s *TaskService) UpdateSubtask(ctx context.Context, taskID, subtaskID int, req ports.SubtaskRequest) ([]entities.Task, error) {
	return s.modify(ctx, taskID, "update_subtask", func(task *entities.Task) error {
		sub := task.FindSubtask(subtaskID)
		if sub == nil {
			return fmt.Errorf("subtask %d of task %d: %w", subtaskID, taskID, entities.ErrSubtaskNotFound)
		}
		sub.Description = req.Description
		sub.Completed = req.Completed
		return nil
	})
}

// ToggleSubtask flips a subtask's completed flag
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID int) ([]entities.Task, error) {
	return s.modify(ctx, taskID, "toggle_subtask", func(task *entities.Task) error {
		sub := task.FindSubtask(subtaskID)
		if sub == nil {
			return fmt.Errorf("subtask %d of task %d: %w", subtaskID, taskID, entities.ErrSubtaskNotFound)
		}
		sub.Completed = !sub.Completed
		return nil
	})
}

// DeleteSubtask removes a subtask. Unknown subtask ids are ignored.
func (s *TaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID int) ([]entities.Task, error) {
	return s.modify(ctx, taskID, "delete_subtask", func(task *entities.Task) error {
		kept := task.Subtasks[:0]
		for _, sub := range task.Subtasks {
			if sub.ID != subtaskID {
				kept = append(kept, sub)
			}
		}
		if len(kept) == len(task.Subtasks) {
			return errUnchanged
		}
		task.Subtasks = kept
		return nil
	})
}

// ClearGroup empties the group label on every task that uses name and
// persists the affected tasks.
func (s *TaskService) ClearGroup(ctx context.Context, name string) (int, error) {
	var cleared []entities.Task

	_, err := s.tasks.Mutate(func(items *[]entities.Task) error {
		for i := range *items {
			if (*items)[i].Group == name {
				(*items)[i].Group = ""
				cleared = append(cleared, (*items)[i].Clone())
			}
		}
		if len(cleared) == 0 {
			return nil
		}
		return s.persisted(entities.KindTask, "clear_group", s.repo.Upsert(ctx, cleared...))
	})
	return len(cleared), err
}

// MarkDue runs decide over every task while holding the task lock. Tasks for
// which decide returns true are persisted together in one write and
// returned.
func (s *TaskService) MarkDue(ctx context.Context, decide func(task *entities.Task) bool) ([]entities.Task, error) {
	var marked []entities.Task

	_, err := s.tasks.Mutate(func(items *[]entities.Task) error {
		for i := range *items {
			if decide(&(*items)[i]) {
				marked = append(marked, (*items)[i].Clone())
			}
		}
		if len(marked) == 0 {
			return nil
		}
		return s.persisted(entities.KindTask, "mark_notified", s.repo.Upsert(ctx, marked...))
	})
	return marked, err
}

// modify applies fn to the task with id and persists it. fn may return
// errUnchanged to skip the write.
func (s *TaskService) modify(ctx context.Context, id int, op string, fn func(task *entities.Task) error) ([]entities.Task, error) {
	return s.tasks.Mutate(func(items *[]entities.Task) error {
		i := s.tasks.IndexOf(*items, id)
		if i < 0 {
			return fmt.Errorf("task %d: %w", id, entities.ErrTaskNotFound)
		}

		updated := s.tasks.Clone((*items)[i])
		if err := fn(&updated); err != nil {
			if err == errUnchanged {
				return nil
			}
			return err
		}
		(*items)[i] = updated

		return s.persisted(entities.KindTask, op, s.repo.Upsert(ctx, updated))
	})
}
