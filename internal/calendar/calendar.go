package calendar

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"gestionale/pkg/models"
)

// Calendar mirrors organized events onto a shared Google Calendar so the
// whole studio sees them outside the app. Publishing is best effort; the
// caller logs and moves on when it fails.
type Calendar struct {
	log        *logrus.Entry
	srv        *gcal.Service
	calendarID string
}

func New(ctx context.Context, log *logrus.Logger, credentialsFile, calendarID string) (*Calendar, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("err reading credentials file: %w", err)
	}
	config, err := google.JWTConfigFromJSON(b, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("err parsing credentials: %w", err)
	}
	srv, err := gcal.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("err building calendar service: %w", err)
	}
	return &Calendar{
		log:        log.WithField("component", "calendar"),
		srv:        srv,
		calendarID: calendarID,
	}, nil
}

func (c *Calendar) Publish(ctx context.Context, event models.Event) error {
	entry := &gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.StartTime.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.EndTime.Format(time.RFC3339)},
	}
	created, err := c.srv.Events.Insert(c.calendarID, entry).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("err inserting calendar event: %w", err)
	}
	c.log.Debugf("published event %d as %s", event.ID, created.Id)
	return nil
}
