package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// ProgressInput carries the fields a caller may set on a progress entry.
type ProgressInput struct {
	Date           string
	HoursStudied   float64
	Subject        string
	Type           model.StudyType
	Remarks        string
	CurrentAffairs bool
}

// ProgressPatch is a partial update; nil fields are left unchanged.
type ProgressPatch struct {
	Date           *string
	HoursStudied   *float64
	Subject        *string
	Type           *model.StudyType
	Remarks        *string
	CurrentAffairs *bool
}

// AddProgress upserts by date: an existing entry for the same calendar day
// absorbs the new fields instead of duplicating, keeping one entry per day.
func (s *Store) AddProgress(ctx context.Context, in ProgressInput) (model.ProgressEntry, error) {
	var saved model.ProgressEntry
	err := s.mutate(ctx, func(doc *model.Document) error {
		now := time.Now()
		for i := range doc.DailyProgress {
			if doc.DailyProgress[i].Date == in.Date {
				e := &doc.DailyProgress[i]
				e.HoursStudied = in.HoursStudied
				e.Subject = in.Subject
				e.Type = in.Type
				e.Remarks = in.Remarks
				e.CurrentAffairs = in.CurrentAffairs
				e.LastUpdated = now
				saved = *e
				recordAnalytics(doc, saved)
				return nil
			}
		}

		saved = model.ProgressEntry{
			ID:             s.allocID(),
			Date:           in.Date,
			HoursStudied:   in.HoursStudied,
			Subject:        in.Subject,
			Type:           in.Type,
			Remarks:        in.Remarks,
			CurrentAffairs: in.CurrentAffairs,
			Timestamp:      now,
			LastUpdated:    now,
		}
		doc.DailyProgress = append(doc.DailyProgress, saved)
		recordAnalytics(doc, saved)
		return nil
	})
	return saved, err
}

// UpdateProgress shallow-merges the patch into the entry with the given id.
func (s *Store) UpdateProgress(ctx context.Context, id model.ID, patch ProgressPatch) (model.ProgressEntry, error) {
	var saved model.ProgressEntry
	err := s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.DailyProgress {
			if doc.DailyProgress[i].ID != id {
				continue
			}
			e := &doc.DailyProgress[i]
			if patch.Date != nil {
				e.Date = *patch.Date
			}
			if patch.HoursStudied != nil {
				e.HoursStudied = *patch.HoursStudied
			}
			if patch.Subject != nil {
				e.Subject = *patch.Subject
			}
			if patch.Type != nil {
				e.Type = *patch.Type
			}
			if patch.Remarks != nil {
				e.Remarks = *patch.Remarks
			}
			if patch.CurrentAffairs != nil {
				e.CurrentAffairs = *patch.CurrentAffairs
			}
			e.LastUpdated = time.Now()
			saved = *e
			recordAnalytics(doc, saved)
			return nil
		}
		return fmt.Errorf("%w: progress entry %s", ErrNotFound, id)
	})
	return saved, err
}

// DeleteProgress removes the entry with the given id.
func (s *Store) DeleteProgress(ctx context.Context, id model.ID) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.DailyProgress {
			if doc.DailyProgress[i].ID == id {
				doc.DailyProgress = append(doc.DailyProgress[:i], doc.DailyProgress[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: progress entry %s", ErrNotFound, id)
	})
}

// ListProgress returns all entries sorted newest first. A limit of 0 means
// no limit.
func (s *Store) ListProgress(ctx context.Context, limit int) []model.ProgressEntry {
	doc := s.Document(ctx)
	entries := doc.DailyProgress
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// recordAnalytics refreshes the advisory derived cache on progress writes:
// the per-subject learning curve and the hour-of-day study pattern.
func recordAnalytics(doc *model.Document, entry model.ProgressEntry) {
	if entry.Subject != "" {
		doc.Analytics.LearningCurves[entry.Subject] = append(
			doc.Analytics.LearningCurves[entry.Subject],
			model.LearningPoint{Date: entry.Date, Hours: entry.HoursStudied, Type: string(entry.Type)},
		)
	}
	hour := fmt.Sprintf("%d", time.Now().Hour())
	doc.Analytics.StudyPatterns[hour] += entry.HoursStudied
}
