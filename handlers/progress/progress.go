package progress

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// ProgressHandler handles daily study log requests
type ProgressHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(st *store.Store) *ProgressHandler {
	return &ProgressHandler{
		store:     st,
		validator: validation.NewValidator(),
	}
}

// CreateProgressRequest represents the request body for logging a day
type CreateProgressRequest struct {
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	HoursStudied   float64 `json:"hoursStudied" validate:"gte=0,lte=24"`
	Subject        string  `json:"subject" validate:"omitempty,max=255"`
	Type           string  `json:"type" validate:"omitempty,oneof=theory lecture numerical notes revision other"`
	Remarks        string  `json:"remarks" validate:"omitempty,max=2000"`
	CurrentAffairs bool    `json:"currentAffairs"`
}

// UpdateProgressRequest represents the request body for a partial update
type UpdateProgressRequest struct {
	Date           *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	HoursStudied   *float64 `json:"hoursStudied" validate:"omitempty,gte=0,lte=24"`
	Subject        *string  `json:"subject" validate:"omitempty,max=255"`
	Type           *string  `json:"type" validate:"omitempty,oneof=theory lecture numerical notes revision other"`
	Remarks        *string  `json:"remarks" validate:"omitempty,max=2000"`
	CurrentAffairs *bool    `json:"currentAffairs"`
}

// ListProgress handles GET /api/v1/progress
func (h *ProgressHandler) ListProgress(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	entries := h.store.ListProgress(c.Context(), 0)
	total := int64(len(entries))
	pagination := response.CalculatePagination(page, limit, total)

	offset := (pagination.CurrentPage - 1) * pagination.PerPage
	if offset > len(entries) {
		offset = len(entries)
	}
	end := offset + pagination.PerPage
	if end > len(entries) {
		end = len(entries)
	}

	return response.Paginated(c, entries[offset:end], pagination)
}

// CreateProgress handles POST /api/v1/progress
//
// Logging a date that already has an entry merges into it; the history
// keeps one entry per calendar day.
func (h *ProgressHandler) CreateProgress(c *fiber.Ctx) error {
	var req CreateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	entry, err := h.store.AddProgress(c.Context(), store.ProgressInput{
		Date:           req.Date,
		HoursStudied:   req.HoursStudied,
		Subject:        req.Subject,
		Type:           model.StudyType(req.Type),
		Remarks:        req.Remarks,
		CurrentAffairs: req.CurrentAffairs,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to save progress: "+err.Error())
	}

	return response.Created(c, entry)
}

// UpdateProgress handles PUT /api/v1/progress/:id
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid progress entry ID")
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := store.ProgressPatch{
		Date:           req.Date,
		HoursStudied:   req.HoursStudied,
		Subject:        req.Subject,
		Remarks:        req.Remarks,
		CurrentAffairs: req.CurrentAffairs,
	}
	if req.Type != nil {
		t := model.StudyType(*req.Type)
		patch.Type = &t
	}

	entry, err := h.store.UpdateProgress(c.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Progress entry not found")
		}
		return response.InternalServerError(c, "Failed to update progress")
	}

	return response.Success(c, entry)
}

// DeleteProgress handles DELETE /api/v1/progress/:id
func (h *ProgressHandler) DeleteProgress(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid progress entry ID")
	}

	if err := h.store.DeleteProgress(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Progress entry not found")
		}
		return response.InternalServerError(c, "Failed to delete progress")
	}

	return response.SuccessWithMessage(c, "Progress entry deleted", nil)
}

// GetStats handles GET /api/v1/progress/stats
func (h *ProgressHandler) GetStats(c *fiber.Ctx) error {
	ctx := c.Context()
	return response.Success(c, fiber.Map{
		"current_streak":   h.store.CurrentStreak(ctx),
		"best_streak":      h.store.BestStreak(ctx),
		"total_hours":      h.store.TotalHours(ctx, ""),
		"week_hours":       h.store.TotalHours(ctx, "week"),
		"month_hours":      h.store.TotalHours(ctx, "month"),
		"year_hours":       h.store.TotalHours(ctx, "year"),
		"overall_progress": h.store.OverallProgress(ctx),
	})
}
