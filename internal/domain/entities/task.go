package entities

// Subtask is a checklist item owned by a Task. Its id is unique within the
// parent only.
type Subtask struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// Task represents a to-do item with an optional email reminder.
//
// DueDate is free-form text; the reminder evaluator understands
// "YYYY-MM-DD HH:MM" and "YYYY-MM-DD". Notified latches once a reminder has
// fired and is cleared whenever DueDate or NotificationMinutes changes.
type Task struct {
	ID                  int       `json:"id" yaml:"id"`
	Description         string    `json:"description" yaml:"description"`
	StartDate           *string   `json:"start_date" yaml:"start_date,omitempty"`
	DueDate             string    `json:"due_date" yaml:"due_date"`
	Group               string    `json:"group" yaml:"group"`
	Details             string    `json:"details" yaml:"details"`
	Completed           bool      `json:"completed" yaml:"completed"`
	Notified            bool      `json:"notified" yaml:"notified"`
	NotificationMinutes *int      `json:"notification_minutes" yaml:"notification_minutes,omitempty"`
	Subtasks            []Subtask `json:"subtasks" yaml:"subtasks"`
	Dependencies        []int     `json:"dependencies" yaml:"dependencies,omitempty"`
}

// TaskID returns the collection key of t.
func TaskID(t Task) int { return t.ID }

// NextSubtaskID returns max existing subtask id + 1, or 1 when there are none.
func (t *Task) NextSubtaskID() int {
	highest := 0
	for _, s := range t.Subtasks {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest + 1
}

// FindSubtask returns a pointer into t.Subtasks for id.
func (t *Task) FindSubtask(id int) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// Reschedule applies a new due date and threshold, re-arming the reminder
// when either one differs from the current value.
func (t *Task) Reschedule(dueDate string, notificationMinutes *int) {
	changed := t.DueDate != dueDate || !equalIntPtr(t.NotificationMinutes, notificationMinutes)
	t.DueDate = dueDate
	t.NotificationMinutes = cloneInt(notificationMinutes)
	if changed {
		t.Notified = false
	}
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	out := t
	out.StartDate = cloneString(t.StartDate)
	out.NotificationMinutes = cloneInt(t.NotificationMinutes)
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	if t.Dependencies != nil {
		out.Dependencies = make([]int, len(t.Dependencies))
		copy(out.Dependencies, t.Dependencies)
	}
	return out
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
