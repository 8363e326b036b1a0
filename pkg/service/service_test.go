package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"gestionale/pkg/models"
	"gestionale/pkg/pgstore"
)

// fakeStore overrides only what a test needs; calling anything else panics
// through the embedded nil interface, which is the point.
type fakeStore struct {
	Store
	users  []models.User
	tasks  map[int]models.Task
	events map[int]models.Event
	polls  map[int]models.Poll

	createdUser    *models.UserRequest
	updatedTask    *models.TaskRequest
	deletedTask    *int
	createdEvent   *models.EventRequest
	organizedSlot  *int
	organizedEvent models.Event
}

func (f *fakeStore) ActiveUsers(_ context.Context) ([]models.User, error) {
	active := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		if u.Active {
			active = append(active, u)
		}
	}
	return active, nil
}

func (f *fakeStore) GetUser(_ context.Context, id int) (models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, errNotFound
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, pgstore.ErrUserNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, user models.UserRequest) (models.User, error) {
	f.createdUser = &user
	return models.User{ID: 1}, nil
}

func (f *fakeStore) GetTask(_ context.Context, id int) (models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return models.Task{}, errNotFound
	}
	return task, nil
}

func (f *fakeStore) UpdateTask(_ context.Context, id int, task models.TaskRequest) (models.Task, error) {
	f.updatedTask = &task
	return f.tasks[id], nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id int) (models.Task, error) {
	f.deletedTask = &id
	return f.tasks[id], nil
}

func (f *fakeStore) GetEvent(_ context.Context, id int) (models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return models.Event{}, errNotFound
	}
	return event, nil
}

func (f *fakeStore) CreateEvent(_ context.Context, event models.EventRequest, createdBy int, participantIDs []int) (models.Event, error) {
	f.createdEvent = &event
	created := models.Event{
		ID:        100,
		Title:     *event.Title,
		StartTime: *event.StartTime,
		EndTime:   *event.EndTime,
		CreatedBy: createdBy,
	}
	for _, id := range participantIDs {
		created.Participants = append(created.Participants, models.Participant{
			EventID: created.ID, UserID: id, Status: models.ParticipantPending,
		})
	}
	return created, nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, id int, _ models.EventRequest) (models.Event, error) {
	return f.events[id], nil
}

func (f *fakeStore) GetPoll(_ context.Context, id int) (models.Poll, error) {
	poll, ok := f.polls[id]
	if !ok {
		return models.Poll{}, errNotFound
	}
	return poll, nil
}

func (f *fakeStore) OrganizePoll(_ context.Context, _, slotID int) (models.Event, error) {
	f.organizedSlot = &slotID
	return f.organizedEvent, nil
}

var errNotFound = errors.New("not found")

type fakeNotifier struct {
	sent map[int64][]string
}

func (f *fakeNotifier) Notify(_ context.Context, message string, chatID int64) error {
	if f.sent == nil {
		f.sent = make(map[int64][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], message)
	return nil
}

type fakeCalendar struct {
	published []models.Event
}

func (f *fakeCalendar) Publish(_ context.Context, event models.Event) error {
	f.published = append(f.published, event)
	return nil
}

func newTestService(store *fakeStore, notifier Notifier, calendar CalendarPublisher) *GestionaleService {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewGestionaleService(log, store, notifier, calendar)
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func TestUpdateTaskOwnership(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{tasks: map[int]models.Task{
		7: {ID: 7, CreatedBy: 1, AssigneeID: intPtr(2)},
	}}
	svc := newTestService(store, &fakeNotifier{}, nil)
	patch := models.TaskRequest{Status: strPtr("done")}

	_, err := svc.UpdateTask(ctx, 7, patch, models.Claims{UserID: 3, Role: models.RoleStaff})
	require.ErrorIs(t, err, ErrForbidden)
	require.Nil(t, store.updatedTask)

	_, err = svc.UpdateTask(ctx, 7, patch, models.Claims{UserID: 2, Role: models.RoleStaff})
	require.NoError(t, err)
	require.NotNil(t, store.updatedTask)

	_, err = svc.UpdateTask(ctx, 7, patch, models.Claims{UserID: 9, Role: models.RoleAdmin})
	require.NoError(t, err)
}

func TestDeleteTaskOwnership(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{tasks: map[int]models.Task{
		7: {ID: 7, CreatedBy: 1},
	}}
	svc := newTestService(store, &fakeNotifier{}, nil)

	_, err := svc.DeleteTask(ctx, 7, models.Claims{UserID: 2, Role: models.RoleStaff})
	require.ErrorIs(t, err, ErrForbidden)
	require.Nil(t, store.deletedTask)

	_, err = svc.DeleteTask(ctx, 7, models.Claims{UserID: 1, Role: models.RoleStaff})
	require.NoError(t, err)
	require.NotNil(t, store.deletedTask)
}

func TestCreateEventValidatesTimes(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := newTestService(store, &fakeNotifier{}, nil)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateEvent(ctx, models.EventRequest{Title: strPtr("x")}, 1, nil)
	require.ErrorIs(t, err, ErrInvalidEvent)

	_, err = svc.CreateEvent(ctx, models.EventRequest{
		Title:     strPtr("x"),
		StartTime: timePtr(start),
		EndTime:   timePtr(start.Add(-time.Hour)),
	}, 1, nil)
	require.ErrorIs(t, err, ErrInvalidEvent)
	require.Nil(t, store.createdEvent)

	_, err = svc.CreateEvent(ctx, models.EventRequest{
		Title:     strPtr("x"),
		StartTime: timePtr(start),
		EndTime:   timePtr(start.Add(time.Hour)),
	}, 1, nil)
	require.NoError(t, err)
	require.NotNil(t, store.createdEvent)
}

func TestCreateEventNotifiesParticipants(t *testing.T) {
	ctx := context.Background()
	chat := int64(4242)
	store := &fakeStore{users: []models.User{
		{ID: 2, Email: "a@b.it", ChatID: &chat, Active: true},
		{ID: 3, Email: "c@d.it", Active: true},
	}}
	notifier := &fakeNotifier{}
	svc := newTestService(store, notifier, nil)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateEvent(ctx, models.EventRequest{
		Title:     strPtr("Riunione"),
		StartTime: timePtr(start),
		EndTime:   timePtr(start.Add(time.Hour)),
	}, 1, []int{2, 3})
	require.NoError(t, err)
	// user 3 has no linked chat, user 2 gets exactly one message
	require.Len(t, notifier.sent, 1)
	require.Len(t, notifier.sent[chat], 1)
	require.Contains(t, notifier.sent[chat][0], "Riunione")
}

func TestUpdateEventMergedTimeValidation(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{events: map[int]models.Event{
		7: {ID: 7, CreatedBy: 1, StartTime: start, EndTime: start.Add(time.Hour)},
	}}
	svc := newTestService(store, &fakeNotifier{}, nil)

	_, err := svc.UpdateEvent(ctx, 7, models.EventRequest{}, models.Claims{UserID: 2, Role: models.RoleStaff})
	require.ErrorIs(t, err, ErrForbidden)

	// patching only endTime to before the stored startTime must fail
	_, err = svc.UpdateEvent(ctx, 7, models.EventRequest{
		EndTime: timePtr(start.Add(-time.Minute)),
	}, models.Claims{UserID: 1, Role: models.RoleStaff})
	require.ErrorIs(t, err, ErrInvalidEvent)

	_, err = svc.UpdateEvent(ctx, 7, models.EventRequest{
		StartTime: timePtr(start.Add(30 * time.Minute)),
	}, models.Claims{UserID: 1, Role: models.RoleStaff})
	require.NoError(t, err)
}
