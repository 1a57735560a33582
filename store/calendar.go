package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// Spaced-repetition schedule: review offsets in days after the original
// event, with their ordinal labels.
var (
	reviewIntervals = []int{3, 5, 11, 21}
	reviewLabels    = []string{"First Review", "Second Review", "Third Review", "Final Review"}
)

// EventInput carries the fields a caller may set on a calendar event.
type EventInput struct {
	Date             string
	Time             string
	Type             model.EventType
	Subject          string
	Topic            string
	Description      string
	SpacedRepetition bool
}

// AddEvent appends a calendar event. An event flagged for spaced
// repetition also fans out four derived revision events at +3, +5, +11 and
// +21 days; the derived events never fan out again. All created events are
// returned, the original first.
func (s *Store) AddEvent(ctx context.Context, in EventInput) ([]model.CalendarEvent, error) {
	base, err := time.Parse(model.DateOnly, in.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", in.Date, err)
	}

	var created []model.CalendarEvent
	err = s.mutate(ctx, func(doc *model.Document) error {
		now := time.Now()
		original := model.CalendarEvent{
			ID:               s.allocID(),
			Date:             in.Date,
			Time:             in.Time,
			Type:             in.Type,
			Subject:          in.Subject,
			Topic:            in.Topic,
			Description:      in.Description,
			SpacedRepetition: in.SpacedRepetition,
			CreatedAt:        now,
			LastUpdated:      now,
		}
		created = append(created, original)
		doc.Calendar = append(doc.Calendar, original)

		if !in.SpacedRepetition {
			return nil
		}
		for i, days := range reviewIntervals {
			label := reviewLabels[i]
			review := model.CalendarEvent{
				ID:          s.allocID(),
				Date:        base.AddDate(0, 0, days).Format(model.DateOnly),
				Time:        in.Time,
				Type:        model.EventRevision,
				Subject:     in.Subject,
				Topic:       fmt.Sprintf("%s: %s", label, in.Topic),
				Description: fmt.Sprintf("Spaced repetition %s for: %s", strings.ToLower(label), in.Topic),
			}
			review.CreatedAt = now
			review.LastUpdated = now
			created = append(created, review)
			doc.Calendar = append(doc.Calendar, review)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Events returns all calendar events sorted by date, then time.
func (s *Store) Events(ctx context.Context) []model.CalendarEvent {
	events := s.Document(ctx).Calendar
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Time < events[j].Time
	})
	return events
}

// EventsOn returns the events scheduled for one calendar day.
func (s *Store) EventsOn(ctx context.Context, date string) []model.CalendarEvent {
	var out []model.CalendarEvent
	for _, ev := range s.Events(ctx) {
		if ev.Date == date {
			out = append(out, ev)
		}
	}
	return out
}

// DeleteEvent removes an event by id.
func (s *Store) DeleteEvent(ctx context.Context, id model.ID) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.Calendar {
			if doc.Calendar[i].ID == id {
				doc.Calendar = append(doc.Calendar[:i], doc.Calendar[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: calendar event %s", ErrNotFound, id)
	})
}
