package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/charts"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
)

// StatisticsHandler serves derived statistics and rendered charts
type StatisticsHandler struct {
	store *store.Store
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(st *store.Store) *StatisticsHandler {
	return &StatisticsHandler{store: st}
}

// GetOverview handles GET /api/v1/statistics
func (h *StatisticsHandler) GetOverview(c *fiber.Ctx) error {
	ctx := c.Context()

	subjects := h.store.Subjects(ctx)
	perSubject := make([]fiber.Map, 0, len(subjects))
	for _, sub := range subjects {
		perSubject = append(perSubject, fiber.Map{
			"id":       sub.ID,
			"name":     sub.Name,
			"progress": store.SubjectProgress(sub),
		})
	}

	return response.Success(c, fiber.Map{
		"current_streak":   h.store.CurrentStreak(ctx),
		"best_streak":      h.store.BestStreak(ctx),
		"total_hours":      h.store.TotalHours(ctx, ""),
		"week_hours":       h.store.TotalHours(ctx, "week"),
		"month_hours":      h.store.TotalHours(ctx, "month"),
		"year_hours":       h.store.TotalHours(ctx, "year"),
		"overall_progress": h.store.OverallProgress(ctx),
		"subjects":         perSubject,
	})
}

// GetWeeklyChart handles GET /api/v1/statistics/charts/weekly
//
// Renders the last seven days of studied hours as an SVG bar chart.
func (h *StatisticsHandler) GetWeeklyChart(c *fiber.Ctx) error {
	entries := h.store.ListProgress(c.Context(), 0)
	byDate := map[string]float64{}
	for _, e := range entries {
		byDate[e.Date] += e.HoursStudied
	}

	var points []charts.Point
	today := time.Now()
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(model.DateOnly)
		points = append(points, charts.Point{
			Label: day.Format("Mon"),
			Value: byDate[key],
		})
	}

	svg := charts.BarChart(points, charts.Options{
		Title:      "Hours Studied (Last 7 Days)",
		YAxisLabel: "Hours",
		ShowGrid:   true,
	})
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

// GetSubjectChart handles GET /api/v1/statistics/charts/subjects
//
// Renders per-subject completion percentages as an SVG bar chart.
func (h *StatisticsHandler) GetSubjectChart(c *fiber.Ctx) error {
	subjects := h.store.Subjects(c.Context())

	var points []charts.Point
	for _, sub := range subjects {
		points = append(points, charts.Point{
			Label: sub.Name,
			Value: float64(store.SubjectProgress(sub)),
		})
	}

	svg := charts.BarChart(points, charts.Options{
		Title:      "Subject Progress",
		YAxisLabel: "Percent Complete",
		ShowGrid:   true,
	})
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

// GetTrendChart handles GET /api/v1/statistics/charts/trend
//
// Renders daily studied hours over the last 30 days as an SVG line chart.
func (h *StatisticsHandler) GetTrendChart(c *fiber.Ctx) error {
	entries := h.store.ListProgress(c.Context(), 0)
	byDate := map[string]float64{}
	for _, e := range entries {
		byDate[e.Date] += e.HoursStudied
	}

	var points []charts.Point
	today := time.Now()
	for i := 29; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := day.Format(model.DateOnly)
		label := ""
		if i%7 == 0 {
			label = day.Format("Jan 2")
		}
		points = append(points, charts.Point{Label: label, Value: byDate[key]})
	}

	svg := charts.LineChart(points, charts.Options{
		Title:      "Study Trend (Last 30 Days)",
		YAxisLabel: "Hours",
		ShowGrid:   true,
	})
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}

// GetMonthlyReport handles GET /api/v1/statistics/report
//
// An optional ?month=YYYY-MM selects the month; it defaults to the
// current one.
func (h *StatisticsHandler) GetMonthlyReport(c *fiber.Ctx) error {
	month := c.Query("month", time.Now().Format("2006-01"))
	if _, err := time.Parse("2006-01", month); err != nil {
		return response.BadRequest(c, "month must be YYYY-MM")
	}

	entries := h.store.ListProgress(c.Context(), 0)

	totalHours := 0.0
	activeDays := 0
	bySubject := map[string]float64{}
	byType := map[string]float64{}
	for _, e := range entries {
		if len(e.Date) < 7 || e.Date[:7] != month {
			continue
		}
		totalHours += e.HoursStudied
		if e.HoursStudied > 0 {
			activeDays++
		}
		if e.Subject != "" {
			bySubject[e.Subject] += e.HoursStudied
		}
		if e.Type != "" {
			byType[string(e.Type)] += e.HoursStudied
		}
	}

	avg := 0.0
	if activeDays > 0 {
		avg = totalHours / float64(activeDays)
	}

	return response.Success(c, fiber.Map{
		"month":            month,
		"total_hours":      totalHours,
		"active_days":      activeDays,
		"avg_hours":        avg,
		"hours_by_subject": sortedHours(bySubject),
		"hours_by_type":    sortedHours(byType),
	})
}

type hoursRow struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

func sortedHours(m map[string]float64) []hoursRow {
	rows := make([]hoursRow, 0, len(m))
	for name, hours := range m {
		rows = append(rows, hoursRow{Name: name, Hours: hours})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Hours != rows[j].Hours {
			return rows[i].Hours > rows[j].Hours
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// GetLearningCurve handles GET /api/v1/statistics/learning-curve/:subject
func (h *StatisticsHandler) GetLearningCurve(c *fiber.Ctx) error {
	subject := c.Params("subject")
	if subject == "" {
		return response.BadRequest(c, "Missing subject name")
	}

	doc := h.store.Document(c.Context())
	curve := doc.Analytics.LearningCurves[subject]
	if curve == nil {
		return response.NotFound(c, fmt.Sprintf("No learning curve recorded for %s", subject))
	}

	var points []charts.Point
	for _, p := range curve {
		points = append(points, charts.Point{Label: p.Date, Value: p.Hours})
	}
	svg := charts.LineChart(points, charts.Options{
		Title:      fmt.Sprintf("Learning Curve: %s", subject),
		YAxisLabel: "Hours",
		ShowGrid:   true,
	})
	c.Set(fiber.HeaderContentType, "image/svg+xml")
	return c.SendString(svg)
}
