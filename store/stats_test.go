package store

import (
	"testing"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

func entriesOn(dates ...string) []model.ProgressEntry {
	var out []model.ProgressEntry
	for i, d := range dates {
		out = append(out, model.ProgressEntry{ID: model.ID(i + 1), Date: d, HoursStudied: 2})
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("counts consecutive days through today", func(t *testing.T) {
		entries := entriesOn("2025-03-08", "2025-03-09", "2025-03-10")
		if got := currentStreakAt(entries, now); got != 3 {
			t.Errorf("streak = %d, want 3", got)
		}
	})

	t.Run("today unlogged starts from yesterday", func(t *testing.T) {
		entries := entriesOn("2025-03-07", "2025-03-08", "2025-03-09")
		if got := currentStreakAt(entries, now); got != 3 {
			t.Errorf("streak = %d, want 3", got)
		}
	})

	t.Run("gap before yesterday breaks the streak", func(t *testing.T) {
		entries := entriesOn("2025-03-06", "2025-03-07")
		if got := currentStreakAt(entries, now); got != 0 {
			t.Errorf("streak = %d, want 0", got)
		}
	})

	t.Run("zero-hour days do not count", func(t *testing.T) {
		entries := entriesOn("2025-03-09", "2025-03-10")
		entries[1].HoursStudied = 0
		if got := currentStreakAt(entries, now); got != 1 {
			t.Errorf("streak = %d, want 1", got)
		}
	})

	t.Run("no entries", func(t *testing.T) {
		if got := currentStreakAt(nil, now); got != 0 {
			t.Errorf("streak = %d, want 0", got)
		}
	})
}

func TestBestStreak(t *testing.T) {
	entries := entriesOn(
		"2025-03-01", "2025-03-02", "2025-03-03",
		"2025-03-05", "2025-03-06", "2025-03-07", "2025-03-08",
	)
	if got := bestStreak(entries); got != 4 {
		t.Errorf("best streak = %d, want 4", got)
	}

	// Duplicate days count once.
	entries = append(entries, model.ProgressEntry{ID: 99, Date: "2025-03-05", HoursStudied: 1})
	if got := bestStreak(entries); got != 4 {
		t.Errorf("best streak with duplicate day = %d, want 4", got)
	}

	if got := bestStreak(nil); got != 0 {
		t.Errorf("best streak of nothing = %d, want 0", got)
	}
}

func TestTotalHoursPeriods(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []model.ProgressEntry{
		{ID: 1, Date: "2025-03-10", HoursStudied: 2},  // today
		{ID: 2, Date: "2025-03-05", HoursStudied: 3},  // within rolling week
		{ID: 3, Date: "2025-03-01", HoursStudied: 4},  // this month, outside week
		{ID: 4, Date: "2025-02-27", HoursStudied: 5},  // last month, this year
		{ID: 5, Date: "2024-12-31", HoursStudied: 10}, // last year
	}

	cases := []struct {
		period string
		want   float64
	}{
		{"week", 5},
		{"month", 9},
		{"year", 14},
		{"", 24},
	}
	for _, tc := range cases {
		if got := totalHoursAt(entries, tc.period, now); got != tc.want {
			t.Errorf("totalHours(%q) = %v, want %v", tc.period, got, tc.want)
		}
	}
}

func TestPeriodStats(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	entries := []model.ProgressEntry{
		{ID: 1, Date: "2025-03-10", HoursStudied: 2},
		{ID: 2, Date: "2025-03-08", HoursStudied: 0}, // logged but zero hours
		{ID: 3, Date: "2025-03-05", HoursStudied: 3},
	}

	stats := periodStatsSince(entries, weekStart(now))
	if stats.Hours != 5 {
		t.Errorf("week hours = %v, want 5", stats.Hours)
	}
	if stats.Days != 2 {
		t.Errorf("week active days = %d, want 2 (zero-hour day excluded)", stats.Days)
	}
}

func TestOverallProgress(t *testing.T) {
	full := model.Subtopic{
		Lecture: true, Theory: true, Notes: true, PYQ: true, Workbook: true,
		TestSeries: []bool{true, true, true, true},
	}
	empty := model.Subtopic{TestSeries: make([]bool, model.TestSeriesSlots)}

	t.Run("mean of subject percentages", func(t *testing.T) {
		subjects := []model.Subject{
			{ID: 1, Name: "A", Subtopics: []model.Subtopic{full}},  // 100%
			{ID: 2, Name: "B", Subtopics: []model.Subtopic{empty}}, // 0%
		}
		if got := overallProgress(subjects); got != 50 {
			t.Errorf("overall = %d, want 50", got)
		}
	})

	t.Run("subjects without subtopics are excluded", func(t *testing.T) {
		subjects := []model.Subject{
			{ID: 1, Name: "A", Subtopics: []model.Subtopic{full}},
			{ID: 2, Name: "Bare"},
		}
		if got := overallProgress(subjects); got != 100 {
			t.Errorf("overall = %d, want 100", got)
		}
	})

	t.Run("no measurable subjects", func(t *testing.T) {
		if got := overallProgress([]model.Subject{{ID: 1, Name: "Bare"}}); got != 0 {
			t.Errorf("overall = %d, want 0", got)
		}
	})
}

func TestSubjectProgressRounding(t *testing.T) {
	one := model.Subtopic{Lecture: true, TestSeries: make([]bool, model.TestSeriesSlots)}
	sub := model.Subject{Subtopics: []model.Subtopic{one}}
	// 1/9 = 11.1% rounds to 11.
	if got := SubjectProgress(sub); got != 11 {
		t.Errorf("progress = %d, want 11", got)
	}
}
