package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"gestionale/pkg/models"
)

func (s *Store) GetTasks(ctx context.Context) (tasks []models.Task, err error) {
	start := time.Now()
	defer func() { s.observe("GetTasks", start, err) }()
	if err = s.db.SelectContext(ctx, &tasks, `SELECT * FROM tasks ORDER BY id`); err != nil {
		return nil, fmt.Errorf("err getting tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) CreateTask(ctx context.Context, task models.TaskRequest, createdBy int) (created models.Task, err error) {
	start := time.Now()
	defer func() { s.observe("CreateTask", start, err) }()
	if task.Title == nil {
		return models.Task{}, fmt.Errorf("title is required")
	}
	query := `
INSERT INTO tasks (title, description, project_id, assignee_id, status, due_date, created_by)
VALUES ($1, $2, $3, $4, COALESCE($5, 'aperto'), $6, $7)
RETURNING *;`
	err = s.db.GetContext(ctx, &created, query,
		*task.Title, orEmpty(task.Description), task.ProjectID,
		task.AssigneeID, task.Status, task.DueDate, createdBy)
	if err != nil {
		return models.Task{}, fmt.Errorf("err creating task: %w", err)
	}
	return created, nil
}

func (s *Store) GetTask(ctx context.Context, id int) (task models.Task, err error) {
	start := time.Now()
	defer func() { s.observe("GetTask", start, err) }()
	err = s.db.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = $1;`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Task{}, ErrTaskNotFound
	case err != nil:
		return models.Task{}, fmt.Errorf("err getting task %d: %w", id, err)
	}
	if err = s.db.SelectContext(ctx, &task.Todos,
		`SELECT * FROM task_todos WHERE task_id = $1 ORDER BY id`, id); err != nil {
		return models.Task{}, fmt.Errorf("err getting todos for task %d: %w", id, err)
	}
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int, task models.TaskRequest) (updated models.Task, err error) {
	start := time.Now()
	defer func() { s.observe("UpdateTask", start, err) }()
	query := `
UPDATE tasks
SET title       = COALESCE($2, title),
    description = COALESCE($3, description),
    project_id  = COALESCE($4, project_id),
    assignee_id = COALESCE($5, assignee_id),
    status      = COALESCE($6, status),
    due_date    = COALESCE($7, due_date),
    updated_at  = now()
WHERE id = $1
RETURNING *;`
	err = s.db.GetContext(ctx, &updated, query, id,
		task.Title, task.Description, task.ProjectID, task.AssigneeID,
		task.Status, task.DueDate)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Task{}, ErrTaskNotFound
	case err != nil:
		return models.Task{}, fmt.Errorf("err updating task %d: %w", id, err)
	}
	return updated, nil
}

func (s *Store) DeleteTask(ctx context.Context, id int) (deleted models.Task, err error) {
	start := time.Now()
	defer func() { s.observe("DeleteTask", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM task_todos WHERE task_id = $1`, id); errTx != nil {
			return fmt.Errorf("err deleting todos: %w", errTx)
		}
		errTx := tx.GetContext(ctx, &deleted, `DELETE FROM tasks WHERE id = $1 RETURNING *;`, id)
		switch {
		case errors.Is(errTx, sql.ErrNoRows):
			return ErrTaskNotFound
		case errTx != nil:
			return fmt.Errorf("err deleting task %d: %w", id, errTx)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return deleted, nil
}

// ReplaceTodos swaps the whole checklist in one transaction, same semantics
// as a vote replace: the previous set is gone, the new set is inserted in
// order with a single multi-row statement.
func (s *Store) ReplaceTodos(ctx context.Context, taskID int, todos []models.TodoItem) (result []models.Todo, err error) {
	start := time.Now()
	defer func() { s.observe("ReplaceTodos", start, err) }()
	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if errTx := tx.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, taskID); errTx != nil {
			return fmt.Errorf("err checking task %d: %w", taskID, errTx)
		}
		if !exists {
			return ErrTaskNotFound
		}
		if _, errTx := tx.ExecContext(ctx, `DELETE FROM task_todos WHERE task_id = $1`, taskID); errTx != nil {
			return fmt.Errorf("err clearing todos: %w", errTx)
		}
		if len(todos) == 0 {
			return nil
		}
		args := make([]interface{}, 0, len(todos)*3)
		for _, t := range todos {
			args = append(args, taskID, t.Label, t.Done)
		}
		query := `INSERT INTO task_todos (task_id, label, done) VALUES ` +
			valuesPlaceholders(len(todos), 3) + ` RETURNING *;`
		if errTx := tx.SelectContext(ctx, &result, query, args...); errTx != nil {
			return fmt.Errorf("err inserting todos: %w", errTx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
