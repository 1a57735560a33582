package store

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilchouksey/sage-api/model"
)

func TestAddProgressUpsertsByDate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	first, err := s.AddProgress(ctx, ProgressInput{
		Date:         "2025-03-10",
		HoursStudied: 2,
		Subject:      "Polity",
		Type:         model.StudyTheory,
	})
	if err != nil {
		t.Fatal(err)
	}

	second, err := s.AddProgress(ctx, ProgressInput{
		Date:         "2025-03-10",
		HoursStudied: 5,
		Subject:      "Economy",
		Type:         model.StudyRevision,
	})
	if err != nil {
		t.Fatal(err)
	}

	if second.ID != first.ID {
		t.Errorf("same-day write allocated a new id: %d != %d", second.ID, first.ID)
	}
	if !second.Timestamp.Equal(first.Timestamp) {
		t.Error("merge should keep the original timestamp")
	}
	if second.HoursStudied != 5 || second.Subject != "Economy" {
		t.Errorf("merge did not overwrite fields: %+v", second)
	}

	entries := s.ListProgress(ctx, 0)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want one per calendar day", len(entries))
	}
}

func TestUpdateProgressPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	entry, err := s.AddProgress(ctx, ProgressInput{Date: "2025-03-10", HoursStudied: 2, Remarks: "keep me"})
	if err != nil {
		t.Fatal(err)
	}

	hours := 4.5
	updated, err := s.UpdateProgress(ctx, entry.ID, ProgressPatch{HoursStudied: &hours})
	if err != nil {
		t.Fatal(err)
	}
	if updated.HoursStudied != 4.5 {
		t.Errorf("hours = %v, want 4.5", updated.HoursStudied)
	}
	if updated.Remarks != "keep me" {
		t.Errorf("unpatched field changed: %q", updated.Remarks)
	}

	_, err = s.UpdateProgress(ctx, model.ID(424242), ProgressPatch{HoursStudied: &hours})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProgress(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	entry, err := s.AddProgress(ctx, ProgressInput{Date: "2025-03-10", HoursStudied: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProgress(ctx, entry.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProgress(ctx, entry.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestListProgressSortedAndLimited(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, date := range []string{"2025-03-08", "2025-03-10", "2025-03-09"} {
		if _, err := s.AddProgress(ctx, ProgressInput{Date: date, HoursStudied: 1}); err != nil {
			t.Fatal(err)
		}
	}

	entries := s.ListProgress(ctx, 0)
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Date != "2025-03-10" || entries[2].Date != "2025-03-08" {
		t.Errorf("entries not sorted newest first: %q, %q, %q",
			entries[0].Date, entries[1].Date, entries[2].Date)
	}

	if got := s.ListProgress(ctx, 2); len(got) != 2 {
		t.Errorf("limited list = %d, want 2", len(got))
	}
}

func TestProgressWritesRecordAnalytics(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddProgress(ctx, ProgressInput{Date: "2025-03-10", HoursStudied: 3, Subject: "Polity"}); err != nil {
		t.Fatal(err)
	}

	doc := s.Document(ctx)
	curve := doc.Analytics.LearningCurves["Polity"]
	if len(curve) != 1 || curve[0].Hours != 3 {
		t.Errorf("learning curve = %+v, want one 3h point", curve)
	}
	total := 0.0
	for _, h := range doc.Analytics.StudyPatterns {
		total += h
	}
	if total != 3 {
		t.Errorf("study pattern hours = %v, want 3", total)
	}
}
