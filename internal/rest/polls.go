package rest

import (
	"fmt"
	"net/http"

	"gestionale/pkg/models"
)

func (s *Server) getPollsHandler(w http.ResponseWriter, r *http.Request) {
	polls, err := s.app.GetPolls(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, polls)
}

func (s *Server) createPollHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var poll models.PollRequest
	if err := decodeBody(r, &poll); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	if poll.Title == "" {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}
	if len(poll.Slots) == 0 {
		s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("at least one slot is required"))
		return
	}
	for _, slot := range poll.Slots {
		if !slot.EndTime.After(slot.StartTime) {
			s.writeResponse(w, http.StatusBadRequest, fmt.Errorf("slot endTime must be after startTime"))
			return
		}
	}
	claims := s.getClaims(ctx)
	created, err := s.app.CreatePoll(ctx, poll, claims.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, created)
}

func (s *Server) getPollHandler(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	poll, err := s.app.GetPoll(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, poll)
}

func (s *Server) deletePollHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := s.app.DeletePoll(ctx, id, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, deleted)
}

func (s *Server) getPollInviteesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	poll, err := s.app.GetPoll(ctx, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ids, err := s.app.ExpandInvitationRules(ctx, poll.InvitationRules)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, map[string][]int{"userIDs": ids})
}

// POST /polls/{id}/vote replaces the caller's whole vote set for the poll.
func (s *Server) voteHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var req models.VoteRequest
	if err = decodeBody(r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	claims := s.getClaims(ctx)
	if err = s.app.Vote(ctx, id, claims.UserID, req.SlotIDs); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /polls/{id}/organize closes the poll on one winning slot and
// materializes the event; voters of that slot become the participants.
func (s *Server) organizePollHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := urlID(r)
	if err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	var req models.OrganizeRequest
	if err = decodeBody(r, &req); err != nil {
		s.writeResponse(w, http.StatusBadRequest, err)
		return
	}
	event, err := s.app.OrganizePoll(ctx, id, req.SlotID, *s.getClaims(ctx))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeResponse(w, http.StatusCreated, event)
}
