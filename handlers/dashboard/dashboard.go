package dashboard

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// DashboardHandler serves the landing page's aggregated numbers
type DashboardHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{
		store:     st,
		validator: validation.NewValidator(),
	}
}

// SetExamDateRequest represents the request body for moving the exam date
type SetExamDateRequest struct {
	ExamDate string `json:"examDate" validate:"required,min=10,max=32"`
}

// GetOverview handles GET /api/v1/dashboard
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	ctx := c.Context()
	examDate := h.store.ExamDate(ctx)
	today := time.Now().Format(model.DateOnly)

	return response.Success(c, fiber.Map{
		"exam_date":        examDate,
		"days_until_exam":  daysUntil(examDate, time.Now()),
		"current_streak":   h.store.CurrentStreak(ctx),
		"best_streak":      h.store.BestStreak(ctx),
		"total_hours":      h.store.TotalHours(ctx, ""),
		"week_hours":       h.store.TotalHours(ctx, "week"),
		"overall_progress": h.store.OverallProgress(ctx),
		"today_events":     h.store.EventsOn(ctx, today),
		"recent_progress":  h.store.ListProgress(ctx, 7),
	})
}

// SetExamDate handles PUT /api/v1/dashboard/exam-date
func (h *DashboardHandler) SetExamDate(c *fiber.Ctx) error {
	var req SetExamDateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !validExamDate(req.ExamDate) {
		return response.BadRequest(c, "examDate must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS")
	}

	if err := h.store.SetExamDate(c.Context(), req.ExamDate); err != nil {
		return response.InternalServerError(c, "Failed to save exam date")
	}

	return response.SuccessWithMessage(c, "Exam date updated", fiber.Map{
		"exam_date":       req.ExamDate,
		"days_until_exam": daysUntil(req.ExamDate, time.Now()),
	})
}

func validExamDate(s string) bool {
	if _, err := time.Parse(model.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02T15:04:05", s)
	return err == nil
}

// daysUntil counts whole days remaining before the exam timestamp,
// never below zero. Unparseable dates report zero.
func daysUntil(examDate string, now time.Time) int {
	exam, err := time.Parse("2006-01-02T15:04:05", examDate)
	if err != nil {
		if exam, err = time.Parse(model.DateOnly, examDate); err != nil {
			return 0
		}
	}
	days := int(math.Ceil(exam.Sub(now).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
