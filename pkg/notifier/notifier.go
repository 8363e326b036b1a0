package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
)

// DummyNotifier logs instead of sending, for tests and deployments without a
// Telegram token.
type DummyNotifier struct {
	log *logrus.Entry
}

func NewDummyNotifier(log *logrus.Logger) *DummyNotifier {
	return &DummyNotifier{
		log: log.WithField("component", "notifier"),
	}
}

func (n *DummyNotifier) Notify(_ context.Context, message string, chatID int64) error {
	n.log.Infof("notifying chat %d: %s", chatID, message)
	return nil
}
