package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sahilchouksey/sage-api/database"
	"github.com/sahilchouksey/sage-api/model"
)

func newTestStore(t *testing.T) (*Store, *database.MemoryKV) {
	t.Helper()
	kv := database.NewMemoryKV()
	s, err := New(context.Background(), kv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, kv
}

func TestNewWritesDefaults(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()

	raw, err := kv.Get(ctx, DataKey)
	if err != nil {
		t.Fatalf("expected %s to exist after init: %v", DataKey, err)
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	if doc.ExamDate != model.DefaultExamDate {
		t.Errorf("exam date = %q, want %q", doc.ExamDate, model.DefaultExamDate)
	}
	if doc.Settings.DataVersion != model.DataVersion {
		t.Errorf("data version = %q, want %q", doc.Settings.DataVersion, model.DataVersion)
	}
	if got := s.Document(ctx); got.Subjects == nil || got.DailyProgress == nil {
		t.Error("collections should be initialized, not nil")
	}
}

func TestLegacyMigration(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemoryKV()

	legacy := map[string]interface{}{
		"examDate": "2025-06-01T09:00:00",
		"dailyProgress": []map[string]interface{}{
			{"id": 7, "date": "2025-01-02", "hoursStudied": 3.5},
		},
		"subjects": []map[string]interface{}{
			{"id": 9, "name": "Polity"},
		},
	}
	raw, _ := json.Marshal(legacy)
	if err := kv.Set(ctx, LegacyDataKey, raw); err != nil {
		t.Fatal(err)
	}

	s, err := New(ctx, kv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	doc := s.Document(ctx)
	if doc.ExamDate != "2025-06-01T09:00:00" {
		t.Errorf("exam date = %q, migration should keep it", doc.ExamDate)
	}
	if len(doc.DailyProgress) != 1 || doc.DailyProgress[0].HoursStudied != 3.5 {
		t.Errorf("daily progress not migrated: %+v", doc.DailyProgress)
	}
	if len(doc.Subjects) != 1 || doc.Subjects[0].Name != "Polity" {
		t.Errorf("subjects not migrated: %+v", doc.Subjects)
	}

	if _, err := kv.Get(ctx, LegacyDataKey); err != database.ErrKeyNotFound {
		t.Error("legacy key should be removed after migration")
	}

	// Ids must continue past the migrated maximum.
	sub, err := s.AddSubject(ctx, "Economy", "")
	if err != nil {
		t.Fatal(err)
	}
	if sub.ID <= 9 {
		t.Errorf("new id %d should exceed migrated ids", sub.ID)
	}

	// Running init again must not resurrect legacy data.
	s2, err := New(ctx, kv)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(s2.Document(ctx).Subjects); got != 2 {
		t.Errorf("subjects after second init = %d, want 2", got)
	}
}

func TestCorruptDocumentFailsSoft(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	if err := kv.Set(ctx, DataKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	doc := s.Document(ctx)
	if doc.ExamDate != model.DefaultExamDate {
		t.Error("corrupt payload should fall back to defaults")
	}
}

func TestSaveRetriesAfterWriteFailure(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)

	for i := 0; i < 3; i++ {
		date := fmt.Sprintf("2025-01-0%d", i+1)
		if _, err := s.AddProgress(ctx, ProgressInput{Date: date, HoursStudied: 1}); err != nil {
			t.Fatal(err)
		}
	}

	// First Set fails, the retry after eviction must succeed.
	kv.FailSets = 1
	kv.SetErr = errors.New("quota exceeded")
	if _, err := s.AddProgress(ctx, ProgressInput{Date: "2025-01-04", HoursStudied: 2}); err != nil {
		t.Fatalf("write should succeed on retry: %v", err)
	}

	// Both attempts failing surfaces a StorageError.
	kv.FailSets = 2
	_, err := s.AddProgress(ctx, ProgressInput{Date: "2025-01-05", HoursStudied: 2})
	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StorageError, got %v", err)
	}
}

func TestCleanupDocumentEvictsOldEntries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	doc := model.NewDocument(now)

	for i := 0; i < MaxDailyEntries+25; i++ {
		day := now.AddDate(0, 0, -i)
		doc.DailyProgress = append(doc.DailyProgress, model.ProgressEntry{
			ID:   model.ID(i + 1),
			Date: day.Format(model.DateOnly),
		})
	}
	doc.Calendar = []model.CalendarEvent{
		{ID: 1, Date: now.AddDate(0, 0, -10).Format(model.DateOnly), Topic: "recent"},
		{ID: 2, Date: now.AddDate(-1, 0, -5).Format(model.DateOnly), Topic: "stale"},
		{ID: 3, Date: "garbage", Topic: "malformed"},
	}

	cleanupDocument(&doc, now)

	if len(doc.DailyProgress) != MaxDailyEntries {
		t.Errorf("progress entries = %d, want %d", len(doc.DailyProgress), MaxDailyEntries)
	}
	// Newest entries survive.
	if doc.DailyProgress[0].Date != now.Format(model.DateOnly) {
		t.Errorf("newest entry should survive eviction, got %q first", doc.DailyProgress[0].Date)
	}
	if len(doc.Calendar) != 1 || doc.Calendar[0].Topic != "recent" {
		t.Errorf("calendar after cleanup = %+v, want only the recent event", doc.Calendar)
	}
}

func TestOptimizeDropsUnnamed(t *testing.T) {
	doc := model.NewDocument(time.Now())
	doc.Subjects = []model.Subject{
		{ID: 1, Name: "Polity", Subtopics: []model.Subtopic{
			{ID: 2, Name: "Preamble"},
			{ID: 3, Name: "   "},
		}},
		{ID: 4, Name: ""},
	}

	optimizeDocument(&doc)

	if len(doc.Subjects) != 1 {
		t.Fatalf("subjects = %d, want 1", len(doc.Subjects))
	}
	if len(doc.Subjects[0].Subtopics) != 1 {
		t.Errorf("subtopics = %d, want 1", len(doc.Subjects[0].Subtopics))
	}
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	var notified int
	unsubscribe := s.Subscribe(func(doc model.Document) {
		notified++
	})

	if _, err := s.AddSubject(ctx, "History", ""); err != nil {
		t.Fatal(err)
	}
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}

	// A rejected create must not notify.
	if err := s.DeleteSubject(ctx, model.ID(999999)); err == nil {
		t.Fatal("expected not-found error")
	}
	if notified != 1 {
		t.Errorf("failed mutation should not notify, got %d", notified)
	}

	unsubscribe()
	if _, err := s.AddSubject(ctx, "Geography", ""); err != nil {
		t.Fatal(err)
	}
	if notified != 1 {
		t.Errorf("unsubscribed observer was notified")
	}
}

func TestSubscriberCanReadStore(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	// A subscriber calling back into the store must not deadlock.
	done := make(chan struct{})
	s.Subscribe(func(model.Document) {
		_ = s.Document(ctx)
		close(done)
	})

	if _, err := s.AddSubject(ctx, "Ethics", ""); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber read deadlocked")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.AddSubject(ctx, "Polity", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}

	doc := s.Document(ctx)
	if len(doc.Subjects) != 0 {
		t.Errorf("subjects after reset = %d, want 0", len(doc.Subjects))
	}

	sub, err := s.AddSubject(ctx, "Fresh", "")
	if err != nil {
		t.Fatal(err)
	}
	if sub.ID != 1 {
		t.Errorf("first id after reset = %d, want 1", sub.ID)
	}
}
