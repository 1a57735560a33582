package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahilchouksey/sage-api/database"
	"github.com/sahilchouksey/sage-api/model"
)

const (
	// DataKey is the well-known storage key holding the document.
	DataKey = "sageData"
	// LegacyDataKey is the pre-2.0 storage key, migrated once then removed.
	LegacyDataKey = "aspExamData"

	// MaxSubjects caps the subject collection; creates beyond it fail.
	MaxSubjects = 50
	// MaxSubtopicsPerSubject caps each subject's subtopic list.
	MaxSubtopicsPerSubject = 20
	// MaxDailyEntries bounds the progress history kept under size pressure.
	MaxDailyEntries = 400
	// MaxDocumentBytes is the serialized-size ceiling before eviction runs.
	MaxDocumentBytes = 5 * 1024 * 1024
)

// Store owns the persisted document: CRUD mutators, caps, legacy
// migration, derived statistics and change notifications. All operations
// are synchronous full read-modify-write cycles over the backend.
type Store struct {
	kv database.KeyValue

	mu     sync.Mutex // serializes read-modify-write cycles
	nextID int64

	subMu  sync.Mutex
	subs   map[int]func(model.Document)
	subSeq int
}

// New opens the store, migrating the legacy key and writing defaults on
// first use.
func New(ctx context.Context, kv database.KeyValue) (*Store, error) {
	s := &Store{kv: kv, subs: map[int]func(model.Document){}}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := kv.Get(ctx, DataKey); err == database.ErrKeyNotFound {
		doc, migrated := s.migrateLegacy(ctx)
		if !migrated {
			doc = model.NewDocument(time.Now())
		}
		if err := s.save(ctx, &doc); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, &StorageError{Op: "read", Err: err}
	}

	doc := s.getDocument(ctx)
	s.nextID = highestID(&doc) + 1
	return s, nil
}

// migrateLegacy reads the pre-2.0 key once, restructures it into the
// current schema and deletes the old key. An absent legacy key is a no-op,
// which keeps the migration idempotent.
func (s *Store) migrateLegacy(ctx context.Context) (model.Document, bool) {
	raw, err := s.kv.Get(ctx, LegacyDataKey)
	if err != nil {
		return model.Document{}, false
	}

	var legacy struct {
		ExamDate      string                `json:"examDate"`
		DailyProgress []model.ProgressEntry `json:"dailyProgress"`
		Subjects      []model.Subject       `json:"subjects"`
		Calendar      []model.CalendarEvent `json:"calendar"`
		Settings      struct {
			CreatedAt time.Time `json:"createdAt"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		log.Println("Legacy data migration failed:", err)
		return model.Document{}, false
	}

	doc := model.NewDocument(time.Now())
	if legacy.ExamDate != "" {
		doc.ExamDate = legacy.ExamDate
	}
	if legacy.DailyProgress != nil {
		doc.DailyProgress = legacy.DailyProgress
	}
	if legacy.Subjects != nil {
		doc.Subjects = legacy.Subjects
	}
	if legacy.Calendar != nil {
		doc.Calendar = legacy.Calendar
	}
	if !legacy.Settings.CreatedAt.IsZero() {
		doc.Settings.CreatedAt = legacy.Settings.CreatedAt
	}
	doc.ApplyDefaults()

	if err := s.kv.Delete(ctx, LegacyDataKey); err != nil {
		log.Println("Failed to remove legacy data key:", err)
	}
	return doc, true
}

// getDocument reads the current state. A missing or corrupt payload fails
// soft: the caller gets a default document rather than an error.
func (s *Store) getDocument(ctx context.Context) model.Document {
	raw, err := s.kv.Get(ctx, DataKey)
	if err != nil {
		if err != database.ErrKeyNotFound {
			log.Println("Error reading data:", err)
		}
		return model.NewDocument(time.Now())
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Println("Error parsing stored data, starting from defaults:", err)
		return model.NewDocument(time.Now())
	}
	doc.ApplyDefaults()
	return doc
}

// Document returns the current state.
func (s *Store) Document(ctx context.Context) model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getDocument(ctx)
}

// save persists the document, evicting old entries when the serialized
// size exceeds the ceiling and retrying once after a forced eviction when
// the backend rejects the write. Callers must hold s.mu.
func (s *Store) save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}

	if len(data) > MaxDocumentBytes {
		cleanupDocument(doc, time.Now())
		if data, err = json.Marshal(doc); err != nil {
			return &StorageError{Op: "encode", Err: err}
		}
	}

	if err := s.kv.Set(ctx, DataKey, data); err != nil {
		// Quota-style failure: evict once and retry.
		cleanupDocument(doc, time.Now())
		data, merr := json.Marshal(doc)
		if merr != nil {
			return &StorageError{Op: "encode", Err: merr}
		}
		if rerr := s.kv.Set(ctx, DataKey, data); rerr != nil {
			return &StorageError{Op: "write", Err: rerr}
		}
	}
	return nil
}

// errNoChange signals that a mutator decided not to touch the document;
// mutate treats it as success without persisting or notifying.
var errNoChange = errors.New("no change")

// mutate runs one read-modify-write cycle and notifies subscribers after a
// successful persist. Notification happens outside the store lock so an
// observer's own read-modify-write cannot deadlock.
func (s *Store) mutate(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	doc := s.getDocument(ctx)
	if err := fn(&doc); err != nil {
		s.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	err := s.save(ctx, &doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(doc)
	return nil
}

// allocID hands out the next monotonic id. Callers must hold s.mu.
func (s *Store) allocID() model.ID {
	id := s.nextID
	s.nextID++
	return model.ID(id)
}

// Subscribe registers an observer invoked synchronously after every
// successful save. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(model.Document)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subSeq++
	key := s.subSeq
	s.subs[key] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, key)
	}
}

func (s *Store) notify(doc model.Document) {
	s.subMu.Lock()
	fns := make([]func(model.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(doc)
	}
}

// ListenBroadcasts relays cross-process change broadcasts from the backend
// into local subscribers until ctx is cancelled. Backends without a
// broadcast capability make this a no-op.
func (s *Store) ListenBroadcasts(ctx context.Context) {
	b, ok := s.kv.(database.Broadcaster)
	if !ok {
		return
	}
	go func() {
		err := b.Subscribe(ctx, func(key string) {
			if key != DataKey {
				return
			}
			s.notify(s.Document(ctx))
		})
		if err != nil && ctx.Err() == nil {
			log.Println("Change broadcast listener stopped:", err)
		}
	}()
}

// CleanupNow evicts stale progress and calendar entries and prunes unnamed
// subjects and subtopics, then persists the result.
func (s *Store) CleanupNow(ctx context.Context) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		cleanupDocument(doc, time.Now())
		optimizeDocument(doc)
		return nil
	})
}

// Reset replaces the document with defaults. Used by the settings page's
// clear-all action.
func (s *Store) Reset(ctx context.Context) error {
	err := s.mutate(ctx, func(doc *model.Document) error {
		*doc = model.NewDocument(time.Now())
		return nil
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.nextID = 1
	s.mu.Unlock()
	return nil
}

// cleanupDocument evicts under size pressure: progress entries beyond the
// cap go oldest-by-date first, calendar events older than one year are
// dropped. This truncation is silent, unlike the hard subject/subtopic
// caps. The asymmetry is inherited behavior pending product confirmation.
func cleanupDocument(doc *model.Document, now time.Time) {
	if len(doc.DailyProgress) > MaxDailyEntries {
		sort.SliceStable(doc.DailyProgress, func(i, j int) bool {
			return doc.DailyProgress[i].Date > doc.DailyProgress[j].Date
		})
		doc.DailyProgress = doc.DailyProgress[:MaxDailyEntries]
	}

	oneYearAgo := now.AddDate(-1, 0, 0)
	kept := doc.Calendar[:0]
	for _, ev := range doc.Calendar {
		day := ev.Day()
		if !day.IsZero() && day.After(oneYearAgo) {
			kept = append(kept, ev)
		}
	}
	doc.Calendar = kept
}

// optimizeDocument drops unnamed subjects and subtopics and keeps the
// progress history sorted newest first.
func optimizeDocument(doc *model.Document) {
	subjects := doc.Subjects[:0]
	for _, sub := range doc.Subjects {
		if strings.TrimSpace(sub.Name) == "" {
			continue
		}
		topics := sub.Subtopics[:0]
		for _, st := range sub.Subtopics {
			if strings.TrimSpace(st.Name) != "" {
				topics = append(topics, st)
			}
		}
		sub.Subtopics = topics
		subjects = append(subjects, sub)
	}
	doc.Subjects = subjects

	sort.SliceStable(doc.DailyProgress, func(i, j int) bool {
		return doc.DailyProgress[i].Date > doc.DailyProgress[j].Date
	})
}

// highestID scans every owned collection for the largest assigned id.
func highestID(doc *model.Document) int64 {
	max := int64(0)
	bump := func(id model.ID) {
		if int64(id) > max {
			max = int64(id)
		}
	}
	for _, p := range doc.DailyProgress {
		bump(p.ID)
	}
	for _, sub := range doc.Subjects {
		bump(sub.ID)
		for _, st := range sub.Subtopics {
			bump(st.ID)
		}
	}
	for _, ev := range doc.Calendar {
		bump(ev.ID)
	}
	return max
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}
