package rest

import (
	"fmt"
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.app.GetCandidates(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, candidates)
}

func (s *Server) createCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var candidate models.CandidateRequest
	if err := decodeBody(r, &candidate); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if candidate.Email == nil || *candidate.Email == "" {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("email is required"))
		return
	}
	created, err := s.app.CreateCandidate(r.Context(), candidate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	candidate, err := s.app.GetCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, candidate)
}

func (s *Server) updateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var candidate models.CandidateRequest
	if err = decodeBody(r, &candidate); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateCandidate(r.Context(), id, candidate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteCandidate(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

// POST /onboarding/start consumes an accepted candidate and provisions the
// trial user, the trial project and the assignment in one transaction.
func (s *Server) startOnboardingHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req struct {
		CandidateID int `json:"candidateId"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	claims := s.getClaims(ctx)
	result, err := s.app.StartOnboarding(ctx, req.CandidateID, *claims)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, result)
}
