package rest

import (
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := s.app.GetEvents(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, events)
}

type createEventBody struct {
	models.EventRequest
	ParticipantIDs []int `json:"participantIDs"`
}

func (s *Server) createEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body createEventBody
	if err := decodeBody(r, &body); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	claims := s.getClaims(ctx)
	created, err := s.app.CreateEvent(ctx, body.EventRequest, claims.UserID, body.ParticipantIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getEventHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	event, err := s.app.GetEvent(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, event)
}

func (s *Server) updateEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var event models.EventRequest
	if err = decodeBody(r, &event); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	updated, err := s.app.UpdateEvent(ctx, id, event, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, updated)
}

func (s *Server) deleteEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeleteEvent(ctx, id, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

// PUT /events/{id}/rsvp upserts the caller's own participation status.
func (s *Server) rsvpHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var req models.RSVPRequest
	if err = decodeBody(r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	claims := s.getClaims(ctx)
	participant, err := s.app.SetRSVP(ctx, id, claims.UserID, req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, participant)
}
