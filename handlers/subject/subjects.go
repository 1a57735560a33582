package subject

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// SubjectHandler handles subject-related requests
type SubjectHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(st *store.Store) *SubjectHandler {
	return &SubjectHandler{
		store:     st,
		validator: validation.NewValidator(),
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSubjectRequest represents the request body for updating a subject
type UpdateSubjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// subjectView decorates a subject with its derived completion percentage
type subjectView struct {
	model.Subject
	Progress int `json:"progress"`
}

func newSubjectView(sub model.Subject) subjectView {
	return subjectView{Subject: sub, Progress: store.SubjectProgress(sub)}
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	subjects := h.store.Subjects(c.Context())

	views := make([]subjectView, 0, len(subjects))
	for _, sub := range subjects {
		views = append(views, newSubjectView(sub))
	}

	return response.Success(c, fiber.Map{
		"subjects":         views,
		"overall_progress": h.store.OverallProgress(c.Context()),
	})
}

// GetSubject handles GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	sub, err := h.store.Subject(c.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	return response.Success(c, newSubjectView(sub))
}

// CreateSubject handles POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	sub, err := h.store.AddSubject(c.Context(), req.Name, req.Description)
	if err != nil {
		var capErr *store.CapacityError
		if errors.As(err, &capErr) {
			return response.CapacityExceeded(c, capErr.Error())
		}
		return response.InternalServerError(c, "Failed to create subject")
	}

	return response.Created(c, newSubjectView(sub))
}

// UpdateSubject handles PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	sub, err := h.store.UpdateSubject(c.Context(), id, store.SubjectPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to update subject")
	}

	return response.Success(c, newSubjectView(sub))
}

// DeleteSubject handles DELETE /api/v1/subjects/:id
//
// Subtopics and the subject's milestone go with it.
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	if err := h.store.DeleteSubject(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to delete subject")
	}

	return response.SuccessWithMessage(c, "Subject deleted", nil)
}
