package rest

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"gestionale/pkg/models"
	"gestionale/pkg/pgstore"
	"gestionale/pkg/service"
)

type App interface {
	Login(ctx context.Context, email, password string) (models.User, error)

	GetUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user models.UserRequest) (models.User, error)
	GetUser(ctx context.Context, id int) (models.User, error)
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
	StartOnboarding(ctx context.Context, candidateID int, actor models.Claims) (models.OnboardingResult, error)

	GetTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.TaskRequest, createdBy int) (models.Task, error)
	GetTask(ctx context.Context, id int) (models.Task, error)
	UpdateTask(ctx context.Context, id int, task models.TaskRequest, actor models.Claims) (models.Task, error)
	DeleteTask(ctx context.Context, id int, actor models.Claims) (models.Task, error)
	ReplaceTodos(ctx context.Context, taskID int, todos []models.TodoItem) ([]models.Todo, error)

	GetEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.EventRequest, createdBy int, participantIDs []int) (models.Event, error)
	GetEvent(ctx context.Context, id int) (models.Event, error)
	UpdateEvent(ctx context.Context, id int, event models.EventRequest, actor models.Claims) (models.Event, error)
	DeleteEvent(ctx context.Context, id int, actor models.Claims) (models.Event, error)
	SetRSVP(ctx context.Context, eventID, userID int, status string) (models.Participant, error)

	GetPolls(ctx context.Context) ([]models.Poll, error)
	CreatePoll(ctx context.Context, poll models.PollRequest, createdBy int) (models.Poll, error)
	GetPoll(ctx context.Context, id int) (models.Poll, error)
	DeletePoll(ctx context.Context, id int, actor models.Claims) (models.Poll, error)
	Vote(ctx context.Context, pollID, userID int, slotIDs []int) error
	OrganizePoll(ctx context.Context, pollID, slotID int, actor models.Claims) (models.Event, error)
	ExpandInvitationRules(ctx context.Context, rules models.InvitationRules) ([]int, error)
}

type Server struct {
	log        *logrus.Entry
	app        App
	address    string
	version    string
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	server     *http.Server
}

func NewServer(log *logrus.Logger, app App, address, version string, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *Server {
	s := Server{
		log:        log.WithField("component", "rest"),
		app:        app,
		address:    address,
		version:    version,
		privateKey: privateKey,
		publicKey:  publicKey,
	}
	s.server = &http.Server{
		Addr:              address,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/version", s.versionHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/auth/login", s.loginHandler)
			r.Group(func(r chi.Router) {
				r.Use(s.jwtAuth)

				r.Get("/users", s.getUsersHandler)
				r.With(s.require(ActionUsersManage)).Post("/users", s.createUserHandler)
				r.Get("/users/{id}", s.getUserHandler)
				r.With(s.require(ActionUsersManage)).Patch("/users/{id}", s.updateUserHandler)
				r.With(s.require(ActionUsersManage)).Delete("/users/{id}", s.deleteUserHandler)

				r.Get("/clients", s.getClientsHandler)
				r.With(s.require(ActionClientsWrite)).Post("/clients", s.createClientHandler)
				r.Get("/clients/{id}", s.getClientHandler)
				r.With(s.require(ActionClientsWrite)).Put("/clients/{id}", s.updateClientHandler)
				r.With(s.require(ActionClientsWrite)).Delete("/clients/{id}", s.deleteClientHandler)

				r.Get("/projects", s.getProjectsHandler)
				r.With(s.require(ActionProjectsWrite)).Post("/projects", s.createProjectHandler)
				r.Get("/projects/{id}", s.getProjectHandler)
				r.With(s.require(ActionProjectsWrite)).Put("/projects/{id}", s.updateProjectHandler)
				r.With(s.require(ActionProjectsWrite)).Delete("/projects/{id}", s.deleteProjectHandler)
				r.Get("/projects/{id}/team", s.getProjectTeamHandler)
				r.With(s.require(ActionProjectsWrite)).Post("/projects/{id}/team", s.assignToProjectHandler)

				r.Get("/contracts", s.getContractsHandler)
				r.With(s.require(ActionContractsWrite)).Post("/contracts", s.createContractHandler)
				r.Get("/contracts/{id}", s.getContractHandler)
				r.With(s.require(ActionContractsWrite)).Patch("/contracts/{id}", s.updateContractHandler)
				r.With(s.require(ActionContractsWrite)).Delete("/contracts/{id}", s.deleteContractHandler)

				r.With(s.require(ActionCandidatesRead)).Get("/candidates", s.getCandidatesHandler)
				r.With(s.require(ActionCandidatesWrite)).Post("/candidates", s.createCandidateHandler)
				r.With(s.require(ActionCandidatesRead)).Get("/candidates/{id}", s.getCandidateHandler)
				r.With(s.require(ActionCandidatesWrite)).Patch("/candidates/{id}", s.updateCandidateHandler)
				r.With(s.require(ActionCandidatesWrite)).Delete("/candidates/{id}", s.deleteCandidateHandler)
				r.With(s.require(ActionOnboardingStart)).Post("/onboarding/start", s.startOnboardingHandler)

				r.Get("/tasks", s.getTasksHandler)
				r.With(s.require(ActionTasksWrite)).Post("/tasks", s.createTaskHandler)
				r.Get("/tasks/{id}", s.getTaskHandler)
				r.With(s.require(ActionTasksWrite)).Patch("/tasks/{id}", s.updateTaskHandler)
				r.With(s.require(ActionTasksWrite)).Delete("/tasks/{id}", s.deleteTaskHandler)
				r.With(s.require(ActionTasksWrite)).Put("/tasks/{id}/todos", s.replaceTodosHandler)

				r.Get("/events", s.getEventsHandler)
				r.With(s.require(ActionEventsWrite)).Post("/events", s.createEventHandler)
				r.Get("/events/{id}", s.getEventHandler)
				r.With(s.require(ActionEventsWrite)).Patch("/events/{id}", s.updateEventHandler)
				r.With(s.require(ActionEventsWrite)).Delete("/events/{id}", s.deleteEventHandler)
				r.Put("/events/{id}/rsvp", s.rsvpHandler)

				r.Get("/polls", s.getPollsHandler)
				r.With(s.require(ActionPollsCreate)).Post("/polls", s.createPollHandler)
				r.Get("/polls/{id}", s.getPollHandler)
				r.With(s.require(ActionPollsCreate)).Delete("/polls/{id}", s.deletePollHandler)
				r.Get("/polls/{id}/invitees", s.getPollInviteesHandler)
				r.Post("/polls/{id}/vote", s.voteHandler)
				r.With(s.require(ActionPollsOrganize)).Post("/polls/{id}/organize", s.organizePollHandler)
			})
		})
	})
	return r
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("err during shutdown: %v", err)
		}
	}()
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) writeResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if x, ok := data.(error); ok {
		if err := json.NewEncoder(w).Encode(ErrorResponse{Error: x.Error()}); err != nil {
			s.log.Warnf("err during encoding error: %v", err)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warnf("err during encoding response: %v", err)
	}
}

// writeError maps domain errors onto the HTTP taxonomy: 400 validation,
// 403 ownership, 404 not found, 409 conflict, 500 everything else.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var conflict *models.VersionConflictError
	switch {
	case errors.As(err, &conflict):
		s.writeResponse(w, http.StatusConflict, ConflictResponse{
			Error:           "CONCURRENT_MODIFICATION",
			CurrentVersion:  conflict.Current,
			ExpectedVersion: conflict.Expected,
			ServerData:      conflict.Server,
		})
	case errors.Is(err, pgstore.ErrUserNotFound),
		errors.Is(err, pgstore.ErrClientNotFound),
		errors.Is(err, pgstore.ErrProjectNotFound),
		errors.Is(err, pgstore.ErrContractNotFound),
		errors.Is(err, pgstore.ErrCandidateNotFound),
		errors.Is(err, pgstore.ErrTaskNotFound),
		errors.Is(err, pgstore.ErrEventNotFound),
		errors.Is(err, pgstore.ErrPollNotFound):
		s.writeResponse(w, http.StatusNotFound, err)
	case errors.Is(err, pgstore.ErrPollClosed):
		s.writeResponse(w, http.StatusConflict, err)
	case errors.Is(err, pgstore.ErrSlotNotInPoll),
		errors.Is(err, pgstore.ErrEmailTaken),
		errors.Is(err, pgstore.ErrCandidateNotAccepted),
		errors.Is(err, pgstore.ErrInvalidParticipant),
		errors.Is(err, service.ErrInvalidEvent):
		s.writeResponse(w, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, pgstore.ErrParticipantNotInvited):
		s.writeResponse(w, http.StatusForbidden, err)
	case errors.Is(err, models.ErrInvalidCredentials):
		s.writeResponse(w, http.StatusUnauthorized, err)
	default:
		s.log.Warnf("internal error: %v", err)
		s.writeResponse(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeResponse(w, http.StatusOK, map[string]string{"version": s.version})
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ConflictResponse struct {
	Error           string      `json:"error"`
	CurrentVersion  int         `json:"currentVersion"`
	ExpectedVersion int         `json:"expectedVersion"`
	ServerData      interface{} `json:"serverData"`
}
