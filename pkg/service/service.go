package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gestionale/pkg/models"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidEvent = errors.New("endTime must be after startTime")
)

type Notifier interface {
	Notify(ctx context.Context, message string, chatID int64) error
}

// CalendarPublisher pushes materialized events to an external calendar.
// Optional: a nil publisher disables the export.
type CalendarPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

type Store interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	ActiveUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.UserRequest) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, id int, user models.UserRequest) (models.User, error)
	DeleteUser(ctx context.Context, id int) (models.User, error)

	GetClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, client models.ClientRequest) (models.Client, error)
	GetClient(ctx context.Context, id int) (models.Client, error)
	UpdateClient(ctx context.Context, id int, client models.ClientRequest) (models.Client, error)
	DeleteClient(ctx context.Context, id int) (models.Client, error)

	GetProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, project models.ProjectRequest) (models.Project, error)
	GetProject(ctx context.Context, id int) (models.Project, error)
	UpdateProject(ctx context.Context, id int, project models.ProjectRequest) (models.Project, error)
	DeleteProject(ctx context.Context, id int) (models.Project, error)
	ProjectTeam(ctx context.Context, projectID int) ([]models.TeamMember, error)
	AssignToProject(ctx context.Context, projectID, userID int) error

	GetContracts(ctx context.Context) ([]models.Contract, error)
	CreateContract(ctx context.Context, contract models.ContractRequest) (models.Contract, error)
	GetContract(ctx context.Context, id int) (models.Contract, error)
	UpdateContract(ctx context.Context, id int, contract models.ContractRequest) (models.Contract, error)
	DeleteContract(ctx context.Context, id int) (models.Contract, error)

	GetCandidates(ctx context.Context) ([]models.Candidate, error)
	CreateCandidate(ctx context.Context, candidate models.CandidateRequest) (models.Candidate, error)
	GetCandidate(ctx context.Context, id int) (models.Candidate, error)
	UpdateCandidate(ctx context.Context, id int, candidate models.CandidateRequest) (models.Candidate, error)
	DeleteCandidate(ctx context.Context, id int) (models.Candidate, error)
	StartOnboarding(ctx context.Context, candidateID int, actorArea string) (models.OnboardingResult, error)

	GetTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.TaskRequest, createdBy int) (models.Task, error)
	GetTask(ctx context.Context, id int) (models.Task, error)
	UpdateTask(ctx context.Context, id int, task models.TaskRequest) (models.Task, error)
	DeleteTask(ctx context.Context, id int) (models.Task, error)
	ReplaceTodos(ctx context.Context, taskID int, todos []models.TodoItem) ([]models.Todo, error)

	GetEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.EventRequest, createdBy int, participantIDs []int) (models.Event, error)
	GetEvent(ctx context.Context, id int) (models.Event, error)
	UpdateEvent(ctx context.Context, id int, event models.EventRequest) (models.Event, error)
	DeleteEvent(ctx context.Context, id int) (models.Event, error)
	SetRSVP(ctx context.Context, eventID, userID int, status string) (models.Participant, error)

	GetPolls(ctx context.Context) ([]models.Poll, error)
	CreatePoll(ctx context.Context, poll models.PollRequest, createdBy int) (models.Poll, error)
	GetPoll(ctx context.Context, id int) (models.Poll, error)
	DeletePoll(ctx context.Context, id int) (models.Poll, error)
	Vote(ctx context.Context, pollID, userID int, slotIDs []int) error
	OrganizePoll(ctx context.Context, pollID, slotID int) (models.Event, error)
}

type GestionaleService struct {
	log      *logrus.Entry
	store    Store
	notifier Notifier
	calendar CalendarPublisher
}

func NewGestionaleService(log *logrus.Logger, store Store, notifier Notifier, calendar CalendarPublisher) *GestionaleService {
	s := GestionaleService{
		log:      log.WithField("component", "service"),
		store:    store,
		notifier: notifier,
		calendar: calendar,
	}
	return &s
}

func (s *GestionaleService) GetUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("err getting users from store: %w", err)
	}
	return users, nil
}

func (s *GestionaleService) CreateUser(ctx context.Context, user models.UserRequest) (models.User, error) {
	if err := hashPassword(&user); err != nil {
		return models.User{}, fmt.Errorf("err hashing password: %w", err)
	}
	return s.store.CreateUser(ctx, user)
}

func (s *GestionaleService) GetUser(ctx context.Context, id int) (models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *GestionaleService) UpdateUser(ctx context.Context, id int, user models.UserRequest) (models.User, error) {
	if err := hashPassword(&user); err != nil {
		return models.User{}, fmt.Errorf("err hashing password: %w", err)
	}
	return s.store.UpdateUser(ctx, id, user)
}

func (s *GestionaleService) DeleteUser(ctx context.Context, id int) (models.User, error) {
	return s.store.DeleteUser(ctx, id)
}

func (s *GestionaleService) GetClients(ctx context.Context) ([]models.Client, error) {
	return s.store.GetClients(ctx)
}

func (s *GestionaleService) CreateClient(ctx context.Context, client models.ClientRequest) (models.Client, error) {
	return s.store.CreateClient(ctx, client)
}

func (s *GestionaleService) GetClient(ctx context.Context, id int) (models.Client, error) {
	return s.store.GetClient(ctx, id)
}

func (s *GestionaleService) UpdateClient(ctx context.Context, id int, client models.ClientRequest) (models.Client, error) {
	return s.store.UpdateClient(ctx, id, client)
}

func (s *GestionaleService) DeleteClient(ctx context.Context, id int) (models.Client, error) {
	return s.store.DeleteClient(ctx, id)
}

func (s *GestionaleService) GetProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.GetProjects(ctx)
}

func (s *GestionaleService) CreateProject(ctx context.Context, project models.ProjectRequest) (models.Project, error) {
	return s.store.CreateProject(ctx, project)
}

func (s *GestionaleService) GetProject(ctx context.Context, id int) (models.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *GestionaleService) UpdateProject(ctx context.Context, id int, project models.ProjectRequest) (models.Project, error) {
	return s.store.UpdateProject(ctx, id, project)
}

func (s *GestionaleService) DeleteProject(ctx context.Context, id int) (models.Project, error) {
	return s.store.DeleteProject(ctx, id)
}

func (s *GestionaleService) ProjectTeam(ctx context.Context, projectID int) ([]models.TeamMember, error) {
	return s.store.ProjectTeam(ctx, projectID)
}

func (s *GestionaleService) AssignToProject(ctx context.Context, projectID, userID int) error {
	return s.store.AssignToProject(ctx, projectID, userID)
}

func (s *GestionaleService) GetContracts(ctx context.Context) ([]models.Contract, error) {
	return s.store.GetContracts(ctx)
}

func (s *GestionaleService) CreateContract(ctx context.Context, contract models.ContractRequest) (models.Contract, error) {
	return s.store.CreateContract(ctx, contract)
}

func (s *GestionaleService) GetContract(ctx context.Context, id int) (models.Contract, error) {
	return s.store.GetContract(ctx, id)
}

func (s *GestionaleService) UpdateContract(ctx context.Context, id int, contract models.ContractRequest) (models.Contract, error) {
	return s.store.UpdateContract(ctx, id, contract)
}

func (s *GestionaleService) DeleteContract(ctx context.Context, id int) (models.Contract, error) {
	return s.store.DeleteContract(ctx, id)
}

func (s *GestionaleService) GetCandidates(ctx context.Context) ([]models.Candidate, error) {
	return s.store.GetCandidates(ctx)
}

func (s *GestionaleService) CreateCandidate(ctx context.Context, candidate models.CandidateRequest) (models.Candidate, error) {
	return s.store.CreateCandidate(ctx, candidate)
}

func (s *GestionaleService) GetCandidate(ctx context.Context, id int) (models.Candidate, error) {
	return s.store.GetCandidate(ctx, id)
}

func (s *GestionaleService) UpdateCandidate(ctx context.Context, id int, candidate models.CandidateRequest) (models.Candidate, error) {
	return s.store.UpdateCandidate(ctx, id, candidate)
}

func (s *GestionaleService) DeleteCandidate(ctx context.Context, id int) (models.Candidate, error) {
	return s.store.DeleteCandidate(ctx, id)
}

func (s *GestionaleService) GetTasks(ctx context.Context) ([]models.Task, error) {
	return s.store.GetTasks(ctx)
}

func (s *GestionaleService) CreateTask(ctx context.Context, task models.TaskRequest, createdBy int) (models.Task, error) {
	return s.store.CreateTask(ctx, task, createdBy)
}

func (s *GestionaleService) GetTask(ctx context.Context, id int) (models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// UpdateTask allows the creator, the assignee or an admin.
func (s *GestionaleService) UpdateTask(ctx context.Context, id int, task models.TaskRequest, actor models.Claims) (models.Task, error) {
	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !canTouchTask(current, actor) {
		return models.Task{}, ErrForbidden
	}
	return s.store.UpdateTask(ctx, id, task)
}

func (s *GestionaleService) DeleteTask(ctx context.Context, id int, actor models.Claims) (models.Task, error) {
	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if !canTouchTask(current, actor) {
		return models.Task{}, ErrForbidden
	}
	return s.store.DeleteTask(ctx, id)
}

func (s *GestionaleService) ReplaceTodos(ctx context.Context, taskID int, todos []models.TodoItem) ([]models.Todo, error) {
	return s.store.ReplaceTodos(ctx, taskID, todos)
}

func canTouchTask(task models.Task, actor models.Claims) bool {
	if actor.Role == models.RoleAdmin || task.CreatedBy == actor.UserID {
		return true
	}
	return task.AssigneeID != nil && *task.AssigneeID == actor.UserID
}

func (s *GestionaleService) GetEvents(ctx context.Context) ([]models.Event, error) {
	return s.store.GetEvents(ctx)
}

func (s *GestionaleService) CreateEvent(ctx context.Context, event models.EventRequest, createdBy int, participantIDs []int) (models.Event, error) {
	if event.StartTime == nil || event.EndTime == nil || !event.EndTime.After(*event.StartTime) {
		return models.Event{}, ErrInvalidEvent
	}
	created, err := s.store.CreateEvent(ctx, event, createdBy, participantIDs)
	if err != nil {
		return models.Event{}, err
	}
	s.notifyParticipants(ctx, created)
	return created, nil
}

func (s *GestionaleService) GetEvent(ctx context.Context, id int) (models.Event, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *GestionaleService) UpdateEvent(ctx context.Context, id int, event models.EventRequest, actor models.Claims) (models.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if actor.Role != models.RoleAdmin && current.CreatedBy != actor.UserID {
		return models.Event{}, ErrForbidden
	}
	start := current.StartTime
	if event.StartTime != nil {
		start = *event.StartTime
	}
	end := current.EndTime
	if event.EndTime != nil {
		end = *event.EndTime
	}
	if !end.After(start) {
		return models.Event{}, ErrInvalidEvent
	}
	return s.store.UpdateEvent(ctx, id, event)
}

func (s *GestionaleService) DeleteEvent(ctx context.Context, id int, actor models.Claims) (models.Event, error) {
	current, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return models.Event{}, err
	}
	if actor.Role != models.RoleAdmin && current.CreatedBy != actor.UserID {
		return models.Event{}, ErrForbidden
	}
	return s.store.DeleteEvent(ctx, id)
}

func (s *GestionaleService) SetRSVP(ctx context.Context, eventID, userID int, status string) (models.Participant, error) {
	return s.store.SetRSVP(ctx, eventID, userID, status)
}

// notifyParticipants is best effort: a failed notification never fails the
// write that triggered it.
func (s *GestionaleService) notifyParticipants(ctx context.Context, event models.Event) {
	for _, p := range event.Participants {
		user, err := s.store.GetUser(ctx, p.UserID)
		if err != nil || user.ChatID == nil {
			continue
		}
		msg := fmt.Sprintf("Sei invitato: %s, %s", event.Title, event.StartTime.Format(time.RFC1123))
		if err = s.notifier.Notify(ctx, msg, *user.ChatID); err != nil {
			s.log.Warnf("err notifying user %d: %v", p.UserID, err)
		}
	}
}
