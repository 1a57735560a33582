package model

import "time"

// TestSeriesSlots is the fixed number of test-series attempts tracked per
// subtopic. Together with the five boolean tasks it makes nine completable
// units per subtopic.
const TestSeriesSlots = 4

// CompletableUnits is the denominator of every subtopic progress fraction.
const CompletableUnits = 9

// Task names accepted by the subtopic task toggle.
const (
	TaskLecture    = "lecture"
	TaskTheory     = "theory"
	TaskNotes      = "notes"
	TaskPYQ        = "pyq"
	TaskWorkbook   = "workbook"
	TaskTestSeries = "testSeries"
)

// Subject is a top-level study area. It owns its subtopics exclusively;
// deleting a subject deletes them all.
type Subject struct {
	ID          ID         `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Subtopics   []Subtopic `json:"subtopics"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

func (s *Subject) applyDefaults() {
	if s.Subtopics == nil {
		s.Subtopics = []Subtopic{}
	}
	for i := range s.Subtopics {
		s.Subtopics[i].applyDefaults()
	}
}

// Subtopic is a unit of study tracked through nine completion flags:
// five booleans plus a fixed four-slot test-series array.
type Subtopic struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Lecture     bool      `json:"lecture"`
	Theory      bool      `json:"theory"`
	Notes       bool      `json:"notes"`
	TestSeries  []bool    `json:"testSeries"`
	PYQ         bool      `json:"pyq"`
	Workbook    bool      `json:"workbook"`
	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (st *Subtopic) applyDefaults() {
	if len(st.TestSeries) != TestSeriesSlots {
		fixed := make([]bool, TestSeriesSlots)
		copy(fixed, st.TestSeries)
		st.TestSeries = fixed
	}
}

// CompletedUnits counts the true flags among the nine completable units.
func (st Subtopic) CompletedUnits() int {
	n := 0
	for _, done := range []bool{st.Lecture, st.Theory, st.Notes, st.PYQ, st.Workbook} {
		if done {
			n++
		}
	}
	for _, done := range st.TestSeries {
		if done {
			n++
		}
	}
	return n
}

// Progress is the completed fraction of this subtopic, in [0,1].
func (st Subtopic) Progress() float64 {
	return float64(st.CompletedUnits()) / float64(CompletableUnits)
}
