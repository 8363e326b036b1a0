package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"
)

type Notifier struct {
	log *logrus.Entry
	bot *tele.Bot
}

func NewBot(token string) (*tele.Bot, error) {
	config := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(config)
	if err != nil {
		return nil, fmt.Errorf("new bot failed: %w", err)
	}
	return b, nil
}

func NewNotifier(log *logrus.Logger, bot *tele.Bot) *Notifier {
	return &Notifier{
		log: log.WithField("component", "telegram"),
		bot: bot,
	}
}

// Notify sends the message to the user's Telegram chat. Users without a
// linked chat never reach this point.
func (n *Notifier) Notify(_ context.Context, message string, chatID int64) error {
	if _, err := n.bot.Send(tele.ChatID(chatID), message); err != nil {
		return fmt.Errorf("err sending telegram message: %w", err)
	}
	return nil
}
