package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/sage-api/model"
)

func TestAddEventSpacedRepetition(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.AddEvent(ctx, EventInput{
		Date:             "2025-01-01",
		Time:             "18:00",
		Type:             model.EventStudy,
		Subject:          "Polity",
		Topic:            "Fundamental Rights",
		SpacedRepetition: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 5 {
		t.Fatalf("created %d events, want original + 4 reviews", len(created))
	}

	original := created[0]
	if original.Type != model.EventStudy || !original.SpacedRepetition {
		t.Errorf("original event mangled: %+v", original)
	}

	wantDates := []string{"2025-01-04", "2025-01-06", "2025-01-12", "2025-01-22"}
	wantTopics := []string{
		"First Review: Fundamental Rights",
		"Second Review: Fundamental Rights",
		"Third Review: Fundamental Rights",
		"Final Review: Fundamental Rights",
	}
	for i, review := range created[1:] {
		if review.Date != wantDates[i] {
			t.Errorf("review %d date = %q, want %q", i, review.Date, wantDates[i])
		}
		if review.Topic != wantTopics[i] {
			t.Errorf("review %d topic = %q, want %q", i, review.Topic, wantTopics[i])
		}
		if review.Type != model.EventRevision {
			t.Errorf("review %d type = %q, want revision", i, review.Type)
		}
		if review.SpacedRepetition {
			t.Errorf("review %d must not fan out again", i)
		}
		if review.Time != "18:00" {
			t.Errorf("review %d time = %q, want inherited 18:00", i, review.Time)
		}
	}

	if got := len(s.Events(ctx)); got != 5 {
		t.Errorf("stored events = %d, want 5", got)
	}
}

func TestAddEventPlain(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.AddEvent(ctx, EventInput{
		Date:  "2025-02-01",
		Type:  model.EventTest,
		Topic: "Mock 3",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 {
		t.Errorf("plain event created %d events, want 1", len(created))
	}

	if _, err := s.AddEvent(ctx, EventInput{Date: "02/01/2025", Topic: "bad"}); err == nil {
		t.Error("malformed date should be rejected")
	}
}

func TestEventsSortedAndFiltered(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, in := range []EventInput{
		{Date: "2025-02-02", Time: "10:00", Type: model.EventStudy, Topic: "b"},
		{Date: "2025-02-01", Time: "09:00", Type: model.EventStudy, Topic: "a"},
		{Date: "2025-02-02", Time: "08:00", Type: model.EventStudy, Topic: "c"},
	} {
		if _, err := s.AddEvent(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	events := s.Events(ctx)
	if events[0].Topic != "a" || events[1].Topic != "c" || events[2].Topic != "b" {
		t.Errorf("events not sorted by date then time: %q, %q, %q",
			events[0].Topic, events[1].Topic, events[2].Topic)
	}

	day := s.EventsOn(ctx, "2025-02-02")
	if len(day) != 2 {
		t.Errorf("events on 2025-02-02 = %d, want 2", len(day))
	}
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	created, err := s.AddEvent(ctx, EventInput{Date: "2025-02-01", Type: model.EventStudy, Topic: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteEvent(ctx, created[0].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteEvent(ctx, created[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}
