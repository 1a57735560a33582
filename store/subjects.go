package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// SubjectPatch is a partial subject update; nil fields are unchanged.
type SubjectPatch struct {
	Name        *string
	Description *string
}

// SubtopicPatch is a partial subtopic update; nil fields are unchanged.
type SubtopicPatch struct {
	Name        *string
	Description *string
}

// AddSubject creates a subject, failing with a CapacityError at the cap.
func (s *Store) AddSubject(ctx context.Context, name, description string) (model.Subject, error) {
	var created model.Subject
	err := s.mutate(ctx, func(doc *model.Document) error {
		if len(doc.Subjects) >= MaxSubjects {
			return &CapacityError{Entity: "subjects", Limit: MaxSubjects}
		}
		now := time.Now()
		created = model.Subject{
			ID:          s.allocID(),
			Name:        name,
			Description: description,
			Subtopics:   []model.Subtopic{},
			CreatedAt:   now,
			LastUpdated: now,
		}
		doc.Subjects = append(doc.Subjects, created)
		return nil
	})
	return created, err
}

// UpdateSubject shallow-merges the patch into the subject.
func (s *Store) UpdateSubject(ctx context.Context, id model.ID, patch SubjectPatch) (model.Subject, error) {
	var saved model.Subject
	err := s.mutate(ctx, func(doc *model.Document) error {
		sub := findSubject(doc, id)
		if sub == nil {
			return fmt.Errorf("%w: subject %s", ErrNotFound, id)
		}
		if patch.Name != nil {
			sub.Name = *patch.Name
		}
		if patch.Description != nil {
			sub.Description = *patch.Description
		}
		sub.LastUpdated = time.Now()
		saved = *sub
		return nil
	})
	return saved, err
}

// DeleteSubject removes the subject, its subtopics (owned exclusively) and
// any milestone keyed to it.
func (s *Store) DeleteSubject(ctx context.Context, id model.ID) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		for i := range doc.Subjects {
			if doc.Subjects[i].ID == id {
				doc.Subjects = append(doc.Subjects[:i], doc.Subjects[i+1:]...)
				delete(doc.Milestones, id.String())
				return nil
			}
		}
		return fmt.Errorf("%w: subject %s", ErrNotFound, id)
	})
}

// Subjects returns all subjects.
func (s *Store) Subjects(ctx context.Context) []model.Subject {
	return s.Document(ctx).Subjects
}

// Subject returns one subject by id.
func (s *Store) Subject(ctx context.Context, id model.ID) (model.Subject, error) {
	doc := s.Document(ctx)
	if sub := findSubject(&doc, id); sub != nil {
		return *sub, nil
	}
	return model.Subject{}, fmt.Errorf("%w: subject %s", ErrNotFound, id)
}

// AddSubtopic creates a subtopic under the subject with all nine
// completion units initialized to incomplete.
func (s *Store) AddSubtopic(ctx context.Context, subjectID model.ID, name, description string) (model.Subtopic, error) {
	var created model.Subtopic
	err := s.mutate(ctx, func(doc *model.Document) error {
		sub := findSubject(doc, subjectID)
		if sub == nil {
			return fmt.Errorf("%w: subject %s", ErrNotFound, subjectID)
		}
		if len(sub.Subtopics) >= MaxSubtopicsPerSubject {
			return &CapacityError{Entity: "subtopics per subject", Limit: MaxSubtopicsPerSubject}
		}
		now := time.Now()
		created = model.Subtopic{
			ID:          s.allocID(),
			Name:        name,
			Description: description,
			TestSeries:  make([]bool, model.TestSeriesSlots),
			CreatedAt:   now,
			LastUpdated: now,
		}
		sub.Subtopics = append(sub.Subtopics, created)
		sub.LastUpdated = now
		return nil
	})
	return created, err
}

// UpdateSubtopic shallow-merges the patch into the subtopic, wherever it
// lives.
func (s *Store) UpdateSubtopic(ctx context.Context, subtopicID model.ID, patch SubtopicPatch) (model.Subtopic, error) {
	var saved model.Subtopic
	err := s.mutate(ctx, func(doc *model.Document) error {
		st, _ := findSubtopic(doc, subtopicID)
		if st == nil {
			return fmt.Errorf("%w: subtopic %s", ErrNotFound, subtopicID)
		}
		if patch.Name != nil {
			st.Name = *patch.Name
		}
		if patch.Description != nil {
			st.Description = *patch.Description
		}
		st.LastUpdated = time.Now()
		saved = *st
		return nil
	})
	return saved, err
}

// DeleteSubtopic removes the subtopic from whichever subject owns it.
func (s *Store) DeleteSubtopic(ctx context.Context, subtopicID model.ID) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		for si := range doc.Subjects {
			topics := doc.Subjects[si].Subtopics
			for ti := range topics {
				if topics[ti].ID == subtopicID {
					doc.Subjects[si].Subtopics = append(topics[:ti], topics[ti+1:]...)
					doc.Subjects[si].LastUpdated = time.Now()
					return nil
				}
			}
		}
		return fmt.Errorf("%w: subtopic %s", ErrNotFound, subtopicID)
	})
}

// UpdateSubtopicTask toggles one completion unit. For the test series the
// slot index must be in [0,4). A subtopic id that resolves to nothing is
// logged as a warning and ignored, matching the original task toggle.
func (s *Store) UpdateSubtopicTask(ctx context.Context, subtopicID model.ID, task string, completed bool, testIndex int) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		st, sub := findSubtopic(doc, subtopicID)
		if st == nil {
			log.Printf("Subtopic with ID %s not found", subtopicID)
			return errNoChange
		}
		switch task {
		case model.TaskTestSeries:
			if testIndex < 0 || testIndex >= model.TestSeriesSlots {
				return fmt.Errorf("test index %d out of range [0,%d)", testIndex, model.TestSeriesSlots)
			}
			st.TestSeries[testIndex] = completed
		case model.TaskLecture:
			st.Lecture = completed
		case model.TaskTheory:
			st.Theory = completed
		case model.TaskNotes:
			st.Notes = completed
		case model.TaskPYQ:
			st.PYQ = completed
		case model.TaskWorkbook:
			st.Workbook = completed
		default:
			return fmt.Errorf("unknown task %q", task)
		}
		st.LastUpdated = time.Now()
		sub.LastUpdated = st.LastUpdated
		return nil
	})
}

func findSubject(doc *model.Document, id model.ID) *model.Subject {
	for i := range doc.Subjects {
		if doc.Subjects[i].ID == id {
			return &doc.Subjects[i]
		}
	}
	return nil
}

func findSubtopic(doc *model.Document, id model.ID) (*model.Subtopic, *model.Subject) {
	for si := range doc.Subjects {
		sub := &doc.Subjects[si]
		for ti := range sub.Subtopics {
			if sub.Subtopics[ti].ID == id {
				return &sub.Subtopics[ti], sub
			}
		}
	}
	return nil, nil
}
