package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"gestionale/pkg/models"
)

type fakeStore struct {
	reminders []models.EventReminder
	notified  []int
}

func (f *fakeStore) PendingEventReminders(_ context.Context, _ time.Duration) ([]models.EventReminder, error) {
	return f.reminders, nil
}

func (f *fakeStore) MarkEventNotified(_ context.Context, eventID int) error {
	f.notified = append(f.notified, eventID)
	return nil
}

type fakeNotifier struct {
	sent     map[int64]int
	failChat int64
}

func (f *fakeNotifier) Notify(_ context.Context, _ string, chatID int64) error {
	if f.failChat != 0 && chatID == f.failChat {
		return errors.New("telegram down")
	}
	if f.sent == nil {
		f.sent = make(map[int64]int)
	}
	f.sent[chatID]++
	return nil
}

func newTestWorker(store *fakeStore, notifier *fakeNotifier) *Worker {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return New(log, store, notifier, 24*time.Hour)
}

func TestTickNotifiesAndMarks(t *testing.T) {
	chatA, chatB := int64(100), int64(200)
	start := time.Now().Add(2 * time.Hour)
	store := &fakeStore{reminders: []models.EventReminder{
		{EventID: 1, Title: "Riunione", StartTime: start, UserID: 2, ChatID: &chatA},
		{EventID: 1, Title: "Riunione", StartTime: start, UserID: 3, ChatID: &chatB},
		{EventID: 1, Title: "Riunione", StartTime: start, UserID: 4, ChatID: nil},
		{EventID: 2, Title: "Demo", StartTime: start, UserID: 2, ChatID: &chatA},
	}}
	notifier := &fakeNotifier{}
	w := newTestWorker(store, notifier)

	require.NoError(t, w.tick(context.Background()))
	require.Equal(t, 2, notifier.sent[chatA])
	require.Equal(t, 1, notifier.sent[chatB])
	// both events flip notified, including the participant without a chat
	require.ElementsMatch(t, []int{1, 2}, store.notified)
}

func TestTickMarksEventDespiteNotifyError(t *testing.T) {
	chatA, chatB := int64(100), int64(200)
	start := time.Now().Add(time.Hour)
	store := &fakeStore{reminders: []models.EventReminder{
		{EventID: 1, Title: "Riunione", StartTime: start, UserID: 2, ChatID: &chatA},
		{EventID: 1, Title: "Riunione", StartTime: start, UserID: 3, ChatID: &chatB},
	}}
	notifier := &fakeNotifier{failChat: chatA}
	w := newTestWorker(store, notifier)

	require.NoError(t, w.tick(context.Background()))
	// a failed send does not hold the event hostage: the other participant
	// is still notified and the event flips to notified, so nobody gets the
	// same reminder again on the next tick
	require.Zero(t, notifier.sent[chatA])
	require.Equal(t, 1, notifier.sent[chatB])
	require.Equal(t, []int{1}, store.notified)
}

func TestTickNoReminders(t *testing.T) {
	store := &fakeStore{}
	w := newTestWorker(store, &fakeNotifier{})

	require.NoError(t, w.tick(context.Background()))
	require.Empty(t, store.notified)
}
