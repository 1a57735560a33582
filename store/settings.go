package store

import (
	"context"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// SettingsPatch is a partial settings update; nil fields are unchanged.
type SettingsPatch struct {
	DarkMode *bool
}

// Settings returns the stored settings.
func (s *Store) Settings(ctx context.Context) model.Settings {
	return s.Document(ctx).Settings
}

// UpdateSettings shallow-merges the patch into the stored settings.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	var saved model.Settings
	err := s.mutate(ctx, func(doc *model.Document) error {
		if patch.DarkMode != nil {
			doc.Settings.DarkMode = *patch.DarkMode
		}
		saved = doc.Settings
		return nil
	})
	return saved, err
}

// ExamDate returns the stored exam timestamp string.
func (s *Store) ExamDate(ctx context.Context) string {
	return s.Document(ctx).ExamDate
}

// SetExamDate replaces the exam timestamp.
func (s *Store) SetExamDate(ctx context.Context, examDate string) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		doc.ExamDate = examDate
		return nil
	})
}

// MarkBackup records when the document was last backed up.
func (s *Store) MarkBackup(ctx context.Context, at time.Time) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		doc.Settings.LastBackup = at
		return nil
	})
}
