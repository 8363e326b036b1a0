package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"gestionale/pkg/models"
)

const pollInterval = time.Minute

type Store interface {
	PendingEventReminders(ctx context.Context, window time.Duration) ([]models.EventReminder, error)
	MarkEventNotified(ctx context.Context, eventID int) error
}

type Notifier interface {
	Notify(ctx context.Context, message string, chatID int64) error
}

// Worker reminds accepted participants of upcoming events. Delivery is best
// effort: a failed send is logged and skipped, and the event is marked
// notified regardless, so nobody is reminded twice for the same event.
type Worker struct {
	log      *logrus.Entry
	store    Store
	notifier Notifier
	window   time.Duration
}

func New(log *logrus.Logger, store Store, notifier Notifier, window time.Duration) *Worker {
	return &Worker{
		log:      log.WithField("component", "worker"),
		store:    store,
		notifier: notifier,
		window:   window,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if err := w.tick(ctx); err != nil {
			w.log.Warnf("err sending reminders: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *Worker) tick(ctx context.Context) error {
	reminders, err := w.store.PendingEventReminders(ctx, w.window)
	if err != nil {
		return fmt.Errorf("err getting reminders: %w", err)
	}
	done := make(map[int]bool)
	for _, reminder := range reminders {
		done[reminder.EventID] = true
		if reminder.ChatID == nil {
			continue
		}
		msg := fmt.Sprintf("Promemoria: %s alle %s", reminder.Title, reminder.StartTime.Format(time.RFC1123))
		if errNf := w.notifier.Notify(ctx, msg, *reminder.ChatID); errNf != nil {
			w.log.Warnf("err notifying user %d: %v", reminder.UserID, errNf)
		}
	}
	for eventID := range done {
		if err = w.store.MarkEventNotified(ctx, eventID); err != nil {
			return fmt.Errorf("err marking event notified: %w", err)
		}
	}
	return nil
}
