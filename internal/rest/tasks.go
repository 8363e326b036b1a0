package rest

import (
	"fmt"
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.app.GetTasks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, tasks)
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var task models.TaskRequest
	if err := decodeBody(r, &task); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if task.Title == nil || *task.Title == "" {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	claims := s.getClaims(ctx)
	created, err := s.app.CreateTask(ctx, task, claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	task, err := s.app.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, task)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var task models.TaskRequest
	if err = decodeBody(r, &task); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateTask(ctx, id, task, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteTask(ctx, id, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

// PUT /tasks/{id}/todos swaps the whole checklist.
func (s *Server) replaceTodosHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var todos []models.TodoItem
	if err = decodeBody(r, &todos); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.app.ReplaceTodos(r.Context(), id, todos)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, result)
}
