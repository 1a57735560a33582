package store

import (
	"context"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// TargetsPatch replaces whichever goal pairs are provided.
type TargetsPatch struct {
	Weekly  *model.TargetPair
	Monthly *model.TargetPair
}

// Targets returns the current goal thresholds.
func (s *Store) Targets(ctx context.Context) model.Targets {
	return s.Document(ctx).Targets
}

// SetTargets shallow-merges the patch into the stored targets.
func (s *Store) SetTargets(ctx context.Context, patch TargetsPatch) (model.Targets, error) {
	var saved model.Targets
	err := s.mutate(ctx, func(doc *model.Document) error {
		if patch.Weekly != nil {
			doc.Targets.Weekly = *patch.Weekly
		}
		if patch.Monthly != nil {
			doc.Targets.Monthly = *patch.Monthly
		}
		saved = doc.Targets
		return nil
	})
	return saved, err
}

// Milestones returns the milestone map keyed by subject id.
func (s *Store) Milestones(ctx context.Context) map[string]model.Milestone {
	return s.Document(ctx).Milestones
}

// SetMilestone stores the milestone for a subject, overwriting any
// existing one (map semantics: at most one milestone per subject).
func (s *Store) SetMilestone(ctx context.Context, subjectID model.ID, m model.Milestone) (model.Milestone, error) {
	var saved model.Milestone
	err := s.mutate(ctx, func(doc *model.Document) error {
		now := time.Now()
		key := subjectID.String()
		if existing, ok := doc.Milestones[key]; ok {
			m.CreatedAt = existing.CreatedAt
		} else {
			m.CreatedAt = now
		}
		m.LastUpdated = now
		doc.Milestones[key] = m
		saved = m
		return nil
	})
	return saved, err
}

// DeleteMilestone removes a subject's milestone if one exists.
func (s *Store) DeleteMilestone(ctx context.Context, subjectID model.ID) error {
	return s.mutate(ctx, func(doc *model.Document) error {
		if _, ok := doc.Milestones[subjectID.String()]; !ok {
			return errNoChange
		}
		delete(doc.Milestones, subjectID.String())
		return nil
	})
}
