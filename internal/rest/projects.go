package rest

import (
	"fmt"
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := s.app.GetProjects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, projects)
}

func (s *Server) createProjectHandler(w http.ResponseWriter, r *http.Request) {
	var project models.ProjectRequest
	if err := decodeBody(r, &project); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if project.Name == nil || *project.Name == "" {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}
	created, err := s.app.CreateProject(r.Context(), project)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	project, err := s.app.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, project)
}

// PUT /projects/{id}, same optimistic-locking contract as clients.
func (s *Server) updateProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var project models.ProjectRequest
	if err = decodeBody(r, &project); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateProject(r.Context(), id, project)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteProject(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

func (s *Server) getProjectTeamHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	team, err := s.app.ProjectTeam(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, team)
}

func (s *Server) assignToProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		UserID int `json:"userID"`
	}
	if err = decodeBody(r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if err = s.app.AssignToProject(r.Context(), id, req.UserID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, models.TeamMember{ProjectID: id, UserID: req.UserID})
}
