package models

import "time"

type TaskRequest struct {
	Title       *string    `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	ProjectID   *int       `json:"projectID" db:"project_id"`
	AssigneeID  *int       `json:"assigneeID" db:"assignee_id"`
	Status      *string    `json:"status" db:"status"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
}

type Task struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	ProjectID   *int       `json:"projectID" db:"project_id"`
	AssigneeID  *int       `json:"assigneeID" db:"assignee_id"`
	Status      string     `json:"status" db:"status"`
	DueDate     *time.Time `json:"dueDate" db:"due_date"`
	CreatedBy   int        `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
	Todos       []Todo     `json:"todos,omitempty" db:"-"`
}

type Todo struct {
	ID     int    `json:"id" db:"id"`
	TaskID int    `json:"taskID" db:"task_id"`
	Label  string `json:"label" db:"label"`
	Done   bool   `json:"done" db:"done"`
}

// TodoItem is the inbound shape for a checklist replace.
type TodoItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}
