package model

import "time"

// EventType categorizes a calendar event.
type EventType string

const (
	EventStudy    EventType = "study"
	EventRevision EventType = "revision"
	EventTest     EventType = "test"
	EventBreak    EventType = "break"
)

// CalendarEvent is a scheduled study or revision slot. Events flagged with
// SpacedRepetition fan out into four derived revision events at fixed day
// offsets after the original date.
type CalendarEvent struct {
	ID               ID        `json:"id"`
	Date             string    `json:"date"`
	Time             string    `json:"time,omitempty"`
	Type             EventType `json:"type"`
	Subject          string    `json:"subject,omitempty"`
	Topic            string    `json:"topic"`
	Description      string    `json:"description,omitempty"`
	SpacedRepetition bool      `json:"spacedRepetition"`
	CreatedAt        time.Time `json:"createdAt"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Day parses the event's calendar day; zero time for malformed dates.
func (e CalendarEvent) Day() time.Time {
	t, err := time.Parse(DateOnly, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
