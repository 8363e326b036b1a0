package rest

import (
	"fmt"
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := s.app.GetClients(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, clients)
}

func (s *Server) createClientHandler(w http.ResponseWriter, r *http.Request) {
	var client models.ClientRequest
	if err := decodeBody(r, &client); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if client.Name == nil || *client.Name == "" {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}
	created, err := s.app.CreateClient(r.Context(), client)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	client, err := s.app.GetClient(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, client)
}

// PUT /clients/{id}. With expectedVersion in the body the update is
// optimistic-locked and a stale version yields 409 with the server's row;
// without it the legacy last-write-wins path applies.
func (s *Server) updateClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var client models.ClientRequest
	if err = decodeBody(r, &client); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateClient(r.Context(), id, client)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteClientHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteClient(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}
