package entity

import (
	"slices"
	"time"
)

type TaskPriority string

const (
	PriorityP1 TaskPriority = "P1"
	PriorityP2 TaskPriority = "P2"
	PriorityP3 TaskPriority = "P3"
	PriorityP4 TaskPriority = "P4"
)

var TaskPriorities = []TaskPriority{PriorityP1, PriorityP2, PriorityP3, PriorityP4}

func (p TaskPriority) Valid() bool { return slices.Contains(TaskPriorities, p) }

// Rank orders priorities with P1 first; unknown values sort last.
func (p TaskPriority) Rank() int {
	if i := slices.Index(TaskPriorities, p); i >= 0 {
		return i + 1
	}
	return 99
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "Todo"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone}

func (s TaskStatus) Valid() bool { return slices.Contains(TaskStatuses, s) }

type Task struct {
	Base

	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	DueDate      *time.Time   `json:"due_date"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	Project      *string      `json:"project"`
	Tags         []string     `json:"tags"`
	ConnectionID *int64       `json:"connection_id"`

	// FocusDate is set exactly when IsFocusTask is true.
	IsFocusTask bool  `json:"is_focus_task"`
	FocusDate   *Date `json:"focus_date"`
}

func (t *Task) Normalize() {
	if t.Priority == "" {
		t.Priority = PriorityP2
	}
	if t.Status == "" {
		t.Status = TaskTodo
	}
}

// FocusedOn reports whether the task counts against the focus quota of day.
func (t *Task) FocusedOn(day Date) bool {
	return t.IsFocusTask && t.FocusDate != nil && *t.FocusDate == day
}

func (t *Task) SetFocus(day Date) {
	t.IsFocusTask = true
	t.FocusDate = &day
}

func (t *Task) ClearFocus() {
	t.IsFocusTask = false
	t.FocusDate = nil
}

func (t *Task) FieldValue(field string) (any, bool) {
	switch field {
	case "status":
		return string(t.Status), true
	case "is_focus_task":
		return t.IsFocusTask, true
	case "priority":
		return string(t.Priority), true
	case "connection_id":
		if t.ConnectionID == nil {
			return nil, true
		}
		return *t.ConnectionID, true
	}
	return nil, false
}

func (t *Task) Clone() *Task {
	c := *t
	c.Description = clonePtr(t.Description)
	c.DueDate = clonePtr(t.DueDate)
	c.Project = clonePtr(t.Project)
	c.Tags = slices.Clone(t.Tags)
	c.ConnectionID = clonePtr(t.ConnectionID)
	c.FocusDate = clonePtr(t.FocusDate)
	return &c
}

func ByTaskStatus(s TaskStatus) Filter { return Filter{Field: "status", Value: string(s)} }

func ByFocusFlag(focus bool) Filter { return Filter{Field: "is_focus_task", Value: focus} }

func ByConnectionID(id int64) Filter { return Filter{Field: "connection_id", Value: id} }
