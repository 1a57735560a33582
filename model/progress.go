package model

import "time"

// StudyType categorizes how a study session was spent.
type StudyType string

const (
	StudyTheory    StudyType = "theory"
	StudyLecture   StudyType = "lecture"
	StudyNumerical StudyType = "numerical"
	StudyNotes     StudyType = "notes"
	StudyRevision  StudyType = "revision"
	StudyOther     StudyType = "other"
)

// ProgressEntry is one day's logged study. The document keeps at most one
// entry per calendar day; writes for an existing date merge into it.
type ProgressEntry struct {
	ID             ID        `json:"id"`
	Date           string    `json:"date"`
	HoursStudied   float64   `json:"hoursStudied"`
	Subject        string    `json:"subject"`
	Type           StudyType `json:"type"`
	Remarks        string    `json:"remarks,omitempty"`
	CurrentAffairs bool      `json:"currentAffairs"`
	Timestamp      time.Time `json:"timestamp"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Day parses the entry's calendar day. The zero time is returned for
// malformed dates; callers skip those entries.
func (p ProgressEntry) Day() time.Time {
	t, err := time.Parse(DateOnly, p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
