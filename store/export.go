package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// Export serializes the full document, pretty-printed for download.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	doc := s.Document(ctx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &StorageError{Op: "encode", Err: err}
	}
	return data, nil
}

// ExportFilename stamps the backup filename with the current date.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("sage_backup_%s.json", now.Format(model.DateOnly))
}

// Import validates a backup payload and, only if valid, atomically
// replaces the entire document. Invalid payloads leave existing state
// untouched.
func (s *Store) Import(ctx context.Context, raw []byte) error {
	var probe struct {
		ExamDate      string          `json:"examDate"`
		DailyProgress json.RawMessage `json:"dailyProgress"`
		Subjects      json.RawMessage `json:"subjects"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if probe.ExamDate == "" || !isJSONArray(probe.DailyProgress) || !isJSONArray(probe.Subjects) {
		return fmt.Errorf("%w: missing examDate, dailyProgress or subjects", ErrInvalidImport)
	}

	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	doc.ApplyDefaults()

	err := s.mutate(ctx, func(current *model.Document) error {
		*current = doc
		return nil
	})
	if err != nil {
		return err
	}

	// Imported ids may exceed anything allocated so far.
	s.mu.Lock()
	if next := highestID(&doc) + 1; next > s.nextID {
		s.nextID = next
	}
	s.mu.Unlock()
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
