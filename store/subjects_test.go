package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sahilchouksey/sage-api/model"
)

func TestSubjectCap(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for i := 0; i < MaxSubjects; i++ {
		if _, err := s.AddSubject(ctx, fmt.Sprintf("Subject %d", i), ""); err != nil {
			t.Fatalf("subject %d: %v", i, err)
		}
	}

	_, err := s.AddSubject(ctx, "One too many", "")
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if capErr.Limit != MaxSubjects {
		t.Errorf("limit = %d, want %d", capErr.Limit, MaxSubjects)
	}
	if got := len(s.Subjects(ctx)); got != MaxSubjects {
		t.Errorf("rejected create changed state: %d subjects", got)
	}
}

func TestSubtopicCap(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sub, err := s.AddSubject(ctx, "Polity", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < MaxSubtopicsPerSubject; i++ {
		if _, err := s.AddSubtopic(ctx, sub.ID, fmt.Sprintf("Topic %d", i), ""); err != nil {
			t.Fatalf("subtopic %d: %v", i, err)
		}
	}

	_, err = s.AddSubtopic(ctx, sub.ID, "Overflow", "")
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapacityError, got %v", err)
	}

	_, err = s.AddSubtopic(ctx, model.ID(999999), "Orphan", "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing subject should be ErrNotFound, got %v", err)
	}
}

func TestNewSubtopicStartsIncomplete(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sub, _ := s.AddSubject(ctx, "Polity", "")
	st, err := s.AddSubtopic(ctx, sub.ID, "Preamble", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(st.TestSeries) != model.TestSeriesSlots {
		t.Errorf("test series slots = %d, want %d", len(st.TestSeries), model.TestSeriesSlots)
	}
	if st.CompletedUnits() != 0 {
		t.Errorf("new subtopic has %d completed units", st.CompletedUnits())
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sub, _ := s.AddSubject(ctx, "Polity", "")
	if _, err := s.AddSubtopic(ctx, sub.ID, "Preamble", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetMilestone(ctx, sub.ID, model.Milestone{Title: "Finish"}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteSubject(ctx, sub.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Subject(ctx, sub.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("subject should be gone, got %v", err)
	}
	if len(s.Milestones(ctx)) != 0 {
		t.Error("milestone should be deleted with its subject")
	}
}

func TestUpdateSubtopicTask(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	sub, _ := s.AddSubject(ctx, "Polity", "")
	st, _ := s.AddSubtopic(ctx, sub.ID, "Preamble", "")

	if err := s.UpdateSubtopicTask(ctx, st.ID, model.TaskLecture, true, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateSubtopicTask(ctx, st.ID, model.TaskTestSeries, true, 2); err != nil {
		t.Fatal(err)
	}

	got, err := s.UpdateSubtopic(ctx, st.ID, SubtopicPatch{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Lecture || !got.TestSeries[2] {
		t.Errorf("toggles not persisted: %+v", got)
	}
	if got.CompletedUnits() != 2 {
		t.Errorf("completed units = %d, want 2", got.CompletedUnits())
	}

	// Out-of-range test index is rejected.
	if err := s.UpdateSubtopicTask(ctx, st.ID, model.TaskTestSeries, true, 4); err == nil {
		t.Error("test index 4 should be rejected")
	}
	// Unknown task names are rejected.
	if err := s.UpdateSubtopicTask(ctx, st.ID, "osmosis", true, 0); err == nil {
		t.Error("unknown task should be rejected")
	}
}

func TestUpdateTaskMissingSubtopicIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var notified int
	s.Subscribe(func(model.Document) { notified++ })

	// Toggling a task on a nonexistent subtopic is silently ignored.
	if err := s.UpdateSubtopicTask(ctx, model.ID(987654), model.TaskNotes, true, 0); err != nil {
		t.Fatalf("missing subtopic should not error: %v", err)
	}
	if notified != 0 {
		t.Error("no-op toggle should not notify subscribers")
	}
}

func TestSubtopicProgress(t *testing.T) {
	st := model.Subtopic{TestSeries: make([]bool, model.TestSeriesSlots)}
	st.Lecture = true
	st.Theory = true
	st.Notes = true
	st.PYQ = true
	st.Workbook = true
	for i := range st.TestSeries {
		st.TestSeries[i] = true
	}
	if st.Progress() != 1 {
		t.Errorf("all nine units done: progress = %v, want 1", st.Progress())
	}
}
