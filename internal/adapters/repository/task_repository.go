package repository

import (
	"database/sql"

	"github.com/noruno/platform/internal/domain/entities"
	"github.com/noruno/platform/internal/infrastructure/database"
	"github.com/noruno/platform/internal/ports"
)

type taskRow struct {
	ID                  int            `db:"id"`
	Description         string         `db:"description"`
	StartDate           sql.NullString `db:"start_date"`
	DueDate             string         `db:"due_date"`
	GroupName           string         `db:"group_name"`
	Details             string         `db:"details"`
	Completed           bool           `db:"completed"`
	Notified            bool           `db:"notified"`
	NotificationMinutes sql.NullInt64  `db:"notification_minutes"`
	Subtasks            string         `db:"subtasks"`
	Dependencies        sql.NullString `db:"dependencies"`
}

// NewTaskRepository creates a task repository
func NewTaskRepository(db *database.DB) ports.TaskRepository {
	return &sqlTable[int, entities.Task, taskRow]{
		db:   db,
		kind: entities.KindTask,
		selectSQL: `
			SELECT id, description, start_date, due_date, group_name, details,
				completed, notified, notification_minutes, subtasks, dependencies
			FROM tasks
			ORDER BY seq`,
		upsertSQL: `
			INSERT INTO tasks (id, description, start_date, due_date, group_name, details,
				completed, notified, notification_minutes, subtasks, dependencies, updated_at)
			VALUES (:id, :description, :start_date, :due_date, :group_name, :details,
				:completed, :notified, :notification_minutes, :subtasks, :dependencies, CURRENT_TIMESTAMP)
			ON CONFLICT(id) DO UPDATE SET
				description = excluded.description,
				start_date = excluded.start_date,
				due_date = excluded.due_date,
				group_name = excluded.group_name,
				details = excluded.details,
				completed = excluded.completed,
				notified = excluded.notified,
				notification_minutes = excluded.notification_minutes,
				subtasks = excluded.subtasks,
				dependencies = excluded.dependencies,
				updated_at = CURRENT_TIMESTAMP`,
		deleteSQL: `DELETE FROM tasks WHERE id = ?`,
		toRow:     taskToRow,
		fromRow:   taskFromRow,
	}
}

func taskToRow(t entities.Task) (taskRow, error) {
	subtasks, err := encodeList(t.Subtasks)
	if err != nil {
		return taskRow{}, err
	}
	deps, err := encodeOptionalList(t.Dependencies)
	if err != nil {
		return taskRow{}, err
	}

	return taskRow{
		ID:                  t.ID,
		Description:         t.Description,
		StartDate:           nullString(t.StartDate),
		DueDate:             t.DueDate,
		GroupName:           t.Group,
		Details:             t.Details,
		Completed:           t.Completed,
		Notified:            t.Notified,
		NotificationMinutes: nullInt(t.NotificationMinutes),
		Subtasks:            subtasks,
		Dependencies:        deps,
	}, nil
}

func taskFromRow(r taskRow) (entities.Task, error) {
	t := entities.Task{
		ID:                  r.ID,
		Description:         r.Description,
		StartDate:           stringPtr(r.StartDate),
		DueDate:             r.DueDate,
		Group:               r.GroupName,
		Details:             r.Details,
		Completed:           r.Completed,
		Notified:            r.Notified,
		NotificationMinutes: intPtr(r.NotificationMinutes),
		Subtasks:            []entities.Subtask{},
	}
	if err := decodeList(r.Subtasks, &t.Subtasks); err != nil {
		return t, err
	}
	if r.Dependencies.Valid {
		t.Dependencies = []int{}
		if err := decodeList(r.Dependencies.String, &t.Dependencies); err != nil {
			return t, err
		}
	}
	if t.Subtasks == nil {
		t.Subtasks = []entities.Subtask{}
	}
	return t, nil
}

type groupRow struct {
	Name string `db:"name"`
}

// NewGroupRepository creates a group repository. Groups keep insertion order.
func NewGroupRepository(db *database.DB) ports.GroupRepository {
	return &sqlTable[string, string, groupRow]{
		db:        db,
		kind:      entities.KindGroup,
		selectSQL: `SELECT name FROM task_groups ORDER BY seq`,
		upsertSQL: `INSERT INTO task_groups (name) VALUES (:name) ON CONFLICT(name) DO NOTHING`,
		deleteSQL: `DELETE FROM task_groups WHERE name = ?`,
		toRow:     func(name string) (groupRow, error) { return groupRow{Name: name}, nil },
		fromRow:   func(r groupRow) (string, error) { return r.Name, nil },
	}
}
