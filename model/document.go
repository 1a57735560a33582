package model

import "time"

// DateOnly is the calendar-day layout used throughout the persisted document.
const DateOnly = "2006-01-02"

// DataVersion is the current document schema version.
const DataVersion = "2.0"

// DefaultExamDate matches the exam the original tracker was built for.
const DefaultExamDate = "2026-02-05T09:00:00"

// Document is the single persisted JSON object holding all tracker state.
type Document struct {
	ExamDate      string               `json:"examDate"`
	DailyProgress []ProgressEntry      `json:"dailyProgress"`
	Subjects      []Subject            `json:"subjects"`
	Calendar      []CalendarEvent      `json:"calendar"`
	Targets       Targets              `json:"targets"`
	Milestones    map[string]Milestone `json:"milestones"`
	Analytics     Analytics            `json:"analytics"`
	Settings      Settings             `json:"settings"`
}

// Targets holds the current weekly and monthly goal thresholds. No history
// is kept; setting targets overwrites the previous values.
type Targets struct {
	Weekly  TargetPair `json:"weekly"`
	Monthly TargetPair `json:"monthly"`
}

// TargetPair is a goal threshold of studied hours and active days.
type TargetPair struct {
	Hours float64 `json:"hours"`
	Days  int     `json:"days"`
}

// Milestone is a subject-scoped goal. The document keeps at most one
// milestone per subject, keyed by the subject id.
type Milestone struct {
	Title          string    `json:"title"`
	TargetDate     string    `json:"targetDate"`
	TargetProgress int       `json:"targetProgress"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Analytics is an advisory derived cache updated on progress writes. It is
// never read back to make decisions.
type Analytics struct {
	LearningCurves    map[string][]LearningPoint `json:"learningCurves"`
	EfficiencyMetrics map[string]float64         `json:"efficiencyMetrics"`
	StudyPatterns     map[string]float64         `json:"studyPatterns"`
	ExamReadiness     map[string]float64         `json:"examReadiness"`
}

// LearningPoint is one sample on a subject's learning curve.
type LearningPoint struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Type  string  `json:"type"`
}

// Settings holds user preferences and document metadata.
type Settings struct {
	DarkMode    bool      `json:"darkMode"`
	CreatedAt   time.Time `json:"createdAt"`
	DataVersion string    `json:"dataVersion"`
	LastBackup  time.Time `json:"lastBackup,omitzero"`
}

// NewDocument returns a document populated with defaults.
func NewDocument(now time.Time) Document {
	doc := Document{
		ExamDate: DefaultExamDate,
		Settings: Settings{
			CreatedAt:   now,
			DataVersion: DataVersion,
		},
	}
	doc.ApplyDefaults()
	return doc
}

// ApplyDefaults fills nil collections so read sites never have to guard
// against missing nested fields.
func (d *Document) ApplyDefaults() {
	if d.DailyProgress == nil {
		d.DailyProgress = []ProgressEntry{}
	}
	if d.Subjects == nil {
		d.Subjects = []Subject{}
	}
	for i := range d.Subjects {
		d.Subjects[i].applyDefaults()
	}
	if d.Calendar == nil {
		d.Calendar = []CalendarEvent{}
	}
	if d.Milestones == nil {
		d.Milestones = map[string]Milestone{}
	}
	d.Analytics.applyDefaults()
	if d.ExamDate == "" {
		d.ExamDate = DefaultExamDate
	}
	if d.Settings.DataVersion == "" {
		d.Settings.DataVersion = DataVersion
	}
}

func (a *Analytics) applyDefaults() {
	if a.LearningCurves == nil {
		a.LearningCurves = map[string][]LearningPoint{}
	}
	if a.EfficiencyMetrics == nil {
		a.EfficiencyMetrics = map[string]float64{}
	}
	if a.StudyPatterns == nil {
		a.StudyPatterns = map[string]float64{}
	}
	if a.ExamReadiness == nil {
		a.ExamReadiness = map[string]float64{}
	}
}
