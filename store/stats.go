package store

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sahilchouksey/sage-api/model"
)

// PeriodStats is the studied-hours and active-days attainment for a
// target window.
type PeriodStats struct {
	Hours float64 `json:"hours"`
	Days  int     `json:"days"`
}

// CurrentStreak counts consecutive calendar days with logged hours,
// walking backward from today. A missing entry for today does not break an
// in-progress streak; counting then starts from yesterday.
func (s *Store) CurrentStreak(ctx context.Context) int {
	return currentStreakAt(s.Document(ctx).DailyProgress, time.Now())
}

// BestStreak is the longest consecutive-day run ever logged.
func (s *Store) BestStreak(ctx context.Context) int {
	return bestStreak(s.Document(ctx).DailyProgress)
}

// TotalHours sums studied hours for the period: "week" is the rolling
// seven days, "month" starts at the 1st, "year" at January 1st, anything
// else is the all-time sum.
func (s *Store) TotalHours(ctx context.Context, period string) float64 {
	return totalHoursAt(s.Document(ctx).DailyProgress, period, time.Now())
}

// OverallProgress is the mean of per-subject progress percentages, rounded
// to the nearest integer. Subjects without subtopics are excluded; no such
// subjects means zero.
func (s *Store) OverallProgress(ctx context.Context) int {
	return overallProgress(s.Document(ctx).Subjects)
}

// WeeklyStats reports hours and active days over the rolling seven days.
func (s *Store) WeeklyStats(ctx context.Context) PeriodStats {
	return periodStatsSince(s.Document(ctx).DailyProgress, weekStart(time.Now()))
}

// MonthlyStats reports hours and active days since the 1st of the month.
func (s *Store) MonthlyStats(ctx context.Context) PeriodStats {
	return periodStatsSince(s.Document(ctx).DailyProgress, monthStart(time.Now()))
}

// SubjectProgress is a subject's completion percentage: the mean of its
// subtopics' nine-unit fractions, rounded.
func SubjectProgress(sub model.Subject) int {
	if len(sub.Subtopics) == 0 {
		return 0
	}
	total := 0.0
	for _, st := range sub.Subtopics {
		total += st.Progress()
	}
	return int(math.Round(total / float64(len(sub.Subtopics)) * 100))
}

func overallProgress(subjects []model.Subject) int {
	total := 0.0
	counted := 0
	for _, sub := range subjects {
		if len(sub.Subtopics) == 0 {
			continue
		}
		subjectTotal := 0.0
		for _, st := range sub.Subtopics {
			subjectTotal += st.Progress()
		}
		total += subjectTotal / float64(len(sub.Subtopics))
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(math.Round(total / float64(counted) * 100))
}

func currentStreakAt(entries []model.ProgressEntry, now time.Time) int {
	logged := loggedDays(entries)
	if len(logged) == 0 {
		return 0
	}

	start := dayOf(now)
	if !logged[start.Format(model.DateOnly)] {
		start = start.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i < 365; i++ {
		day := start.AddDate(0, 0, -i).Format(model.DateOnly)
		if !logged[day] {
			break
		}
		streak++
	}
	return streak
}

func bestStreak(entries []model.ProgressEntry) int {
	var days []time.Time
	seen := map[string]bool{}
	for _, e := range entries {
		if e.HoursStudied <= 0 || seen[e.Date] {
			continue
		}
		day := e.Day()
		if day.IsZero() {
			continue
		}
		seen[e.Date] = true
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			if run > best {
				best = run
			}
			run = 1
		}
	}
	if run > best {
		best = run
	}
	return best
}

func totalHoursAt(entries []model.ProgressEntry, period string, now time.Time) float64 {
	var start time.Time
	switch period {
	case "week":
		start = weekStart(now)
	case "month":
		start = monthStart(now)
	case "year":
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		total := 0.0
		for _, e := range entries {
			total += e.HoursStudied
		}
		return total
	}

	total := 0.0
	for _, e := range entries {
		day := e.Day()
		if !day.IsZero() && !day.Before(start) {
			total += e.HoursStudied
		}
	}
	return total
}

func periodStatsSince(entries []model.ProgressEntry, start time.Time) PeriodStats {
	var stats PeriodStats
	for _, e := range entries {
		day := e.Day()
		if day.IsZero() || day.Before(start) {
			continue
		}
		stats.Hours += e.HoursStudied
		if e.HoursStudied > 0 {
			stats.Days++
		}
	}
	return stats
}

// loggedDays is the set of calendar days with studied hours above zero.
func loggedDays(entries []model.ProgressEntry) map[string]bool {
	days := map[string]bool{}
	for _, e := range entries {
		if e.HoursStudied > 0 && !e.Day().IsZero() {
			days[e.Date] = true
		}
	}
	return days
}

// dayOf normalizes a wall-clock instant to its calendar day at UTC
// midnight, the same normalization entry dates parse to.
func dayOf(t time.Time) time.Time {
	day, _ := time.Parse(model.DateOnly, t.Format(model.DateOnly))
	return day
}

func weekStart(now time.Time) time.Time {
	return dayOf(now).AddDate(0, 0, -6)
}

func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
