package targets

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
)

// SetMilestoneRequest represents the request body for setting a
// subject's milestone
type SetMilestoneRequest struct {
	Title          string `json:"title" validate:"required,min=1,max=255"`
	TargetDate     string `json:"targetDate" validate:"required,datetime=2006-01-02"`
	TargetProgress int    `json:"targetProgress" validate:"gte=0,lte=100"`
	Description    string `json:"description" validate:"omitempty,max=1000"`
}

// ListMilestones handles GET /api/v1/milestones
func (h *TargetsHandler) ListMilestones(c *fiber.Ctx) error {
	return response.Success(c, h.store.Milestones(c.Context()))
}

// SetMilestone handles PUT /api/v1/subjects/:id/milestone
//
// Each subject carries at most one milestone; setting again replaces it
// while keeping the original creation time.
func (h *TargetsHandler) SetMilestone(c *fiber.Ctx) error {
	subjectID, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req SetMilestoneRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// The milestone key must point at a real subject.
	if _, err := h.store.Subject(c.Context(), subjectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	saved, err := h.store.SetMilestone(c.Context(), subjectID, model.Milestone{
		Title:          req.Title,
		TargetDate:     req.TargetDate,
		TargetProgress: req.TargetProgress,
		Description:    req.Description,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to save milestone")
	}

	return response.Success(c, saved)
}

// DeleteMilestone handles DELETE /api/v1/subjects/:id/milestone
func (h *TargetsHandler) DeleteMilestone(c *fiber.Ctx) error {
	subjectID, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	if err := h.store.DeleteMilestone(c.Context(), subjectID); err != nil {
		return response.InternalServerError(c, "Failed to delete milestone")
	}

	return response.SuccessWithMessage(c, "Milestone deleted", nil)
}
