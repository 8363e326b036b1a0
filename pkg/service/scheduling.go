package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gestionale/pkg/models"
)

// ExpandInvitationRules resolves the rules to a sorted, de-duplicated set of
// user ids. Group names match a role or an area case-insensitively; unknown
// names contribute nothing, so rules stay forward-compatible when cohorts are
// renamed. Only active users are included, on every path: explicit ids of
// deactivated users are dropped too.
func (s *GestionaleService) ExpandInvitationRules(ctx context.Context, rules models.InvitationRules) ([]int, error) {
	users, err := s.store.ActiveUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("err expanding invitation rules: %w", err)
	}
	set := make(map[int]struct{})
	for _, u := range users {
		if matchesRules(u, rules) {
			set[u.ID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func matchesRules(u models.User, rules models.InvitationRules) bool {
	for _, g := range rules.Groups {
		if strings.EqualFold(g, u.Role) || strings.EqualFold(g, u.Area) {
			return true
		}
	}
	for _, id := range rules.Individuals {
		if id == u.ID {
			return true
		}
	}
	return rules.Area != "" && strings.EqualFold(rules.Area, u.Area)
}

func (s *GestionaleService) GetPolls(ctx context.Context) ([]models.Poll, error) {
	return s.store.GetPolls(ctx)
}

func (s *GestionaleService) CreatePoll(ctx context.Context, poll models.PollRequest, createdBy int) (models.Poll, error) {
	created, err := s.store.CreatePoll(ctx, poll, createdBy)
	if err != nil {
		return models.Poll{}, err
	}
	s.notifyInvitees(ctx, created)
	return created, nil
}

func (s *GestionaleService) GetPoll(ctx context.Context, id int) (models.Poll, error) {
	return s.store.GetPoll(ctx, id)
}

func (s *GestionaleService) DeletePoll(ctx context.Context, id int, actor models.Claims) (models.Poll, error) {
	current, err := s.store.GetPoll(ctx, id)
	if err != nil {
		return models.Poll{}, err
	}
	if actor.Role != models.RoleAdmin && current.CreatedBy != actor.UserID {
		return models.Poll{}, ErrForbidden
	}
	return s.store.DeletePoll(ctx, id)
}

func (s *GestionaleService) Vote(ctx context.Context, pollID, userID int, slotIDs []int) error {
	return s.store.Vote(ctx, pollID, userID, slotIDs)
}

// OrganizePoll closes the poll on the winning slot. Only the creator or an
// admin may organize; the store transaction re-checks the open status under a
// row lock, so the check here is advisory and the database has the final say.
func (s *GestionaleService) OrganizePoll(ctx context.Context, pollID, slotID int, actor models.Claims) (models.Event, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return models.Event{}, err
	}
	if actor.Role != models.RoleAdmin && poll.CreatedBy != actor.UserID {
		return models.Event{}, ErrForbidden
	}
	event, err := s.store.OrganizePoll(ctx, pollID, slotID)
	if err != nil {
		return models.Event{}, err
	}
	s.notifyParticipants(ctx, event)
	if s.calendar != nil {
		if err = s.calendar.Publish(ctx, event); err != nil {
			s.log.Warnf("err publishing event %d to calendar: %v", event.ID, err)
		}
	}
	return event, nil
}

func (s *GestionaleService) notifyInvitees(ctx context.Context, poll models.Poll) {
	ids, err := s.ExpandInvitationRules(ctx, poll.InvitationRules)
	if err != nil {
		s.log.Warnf("err expanding invitees for poll %d: %v", poll.ID, err)
		return
	}
	for _, id := range ids {
		user, err := s.store.GetUser(ctx, id)
		if err != nil || user.ChatID == nil {
			continue
		}
		msg := fmt.Sprintf("Nuovo sondaggio: %s (%d slot, durata %s)",
			poll.Title, len(poll.Slots), time.Duration(poll.DurationMinutes)*time.Minute)
		if err = s.notifier.Notify(ctx, msg, *user.ChatID); err != nil {
			s.log.Warnf("err notifying user %d: %v", id, err)
		}
	}
}
