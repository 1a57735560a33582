package subject

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
)

// CreateSubtopicRequest represents the request body for creating a subtopic
type CreateSubtopicRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSubtopicRequest represents the request body for updating a subtopic
type UpdateSubtopicRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateTaskRequest toggles one of a subtopic's nine completion units
type UpdateTaskRequest struct {
	Task      string `json:"task" validate:"required,oneof=lecture theory notes pyq workbook testSeries"`
	Completed bool   `json:"completed"`
	TestIndex int    `json:"testIndex" validate:"gte=0,lt=4"`
}

// CreateSubtopic handles POST /api/v1/subjects/:id/subtopics
func (h *SubjectHandler) CreateSubtopic(c *fiber.Ctx) error {
	subjectID, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req CreateSubtopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	st, err := h.store.AddSubtopic(c.Context(), subjectID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		var capErr *store.CapacityError
		if errors.As(err, &capErr) {
			return response.CapacityExceeded(c, capErr.Error())
		}
		return response.InternalServerError(c, "Failed to create subtopic")
	}

	return response.Created(c, st)
}

// UpdateSubtopic handles PUT /api/v1/subtopics/:id
func (h *SubjectHandler) UpdateSubtopic(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	var req UpdateSubtopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	st, err := h.store.UpdateSubtopic(c.Context(), id, store.SubtopicPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subtopic not found")
		}
		return response.InternalServerError(c, "Failed to update subtopic")
	}

	return response.Success(c, st)
}

// DeleteSubtopic handles DELETE /api/v1/subtopics/:id
func (h *SubjectHandler) DeleteSubtopic(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	if err := h.store.DeleteSubtopic(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subtopic not found")
		}
		return response.InternalServerError(c, "Failed to delete subtopic")
	}

	return response.SuccessWithMessage(c, "Subtopic deleted", nil)
}

// UpdateTask handles PATCH /api/v1/subtopics/:id/task
func (h *SubjectHandler) UpdateTask(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subtopic ID")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	err = h.store.UpdateSubtopicTask(c.Context(), id, req.Task, req.Completed, req.TestIndex)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.SuccessWithMessage(c, "Task updated", nil)
}
