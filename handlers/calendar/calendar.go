package calendar

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// CalendarHandler handles calendar event requests
type CalendarHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(st *store.Store) *CalendarHandler {
	return &CalendarHandler{
		store:     st,
		validator: validation.NewValidator(),
	}
}

// CreateEventRequest represents the request body for creating an event
type CreateEventRequest struct {
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string `json:"time" validate:"omitempty,datetime=15:04"`
	Type             string `json:"type" validate:"required,oneof=study revision test break"`
	Subject          string `json:"subject" validate:"omitempty,max=255"`
	Topic            string `json:"topic" validate:"required,min=1,max=255"`
	Description      string `json:"description" validate:"omitempty,max=2000"`
	SpacedRepetition bool   `json:"spacedRepetition"`
}

// ListEvents handles GET /api/v1/calendar
//
// An optional ?date=YYYY-MM-DD filters to one day.
func (h *CalendarHandler) ListEvents(c *fiber.Ctx) error {
	if date := c.Query("date"); date != "" {
		return response.Success(c, h.store.EventsOn(c.Context(), date))
	}
	return response.Success(c, h.store.Events(c.Context()))
}

// CreateEvent handles POST /api/v1/calendar
//
// Events flagged for spaced repetition also schedule four review events;
// the response carries everything created, the original first.
func (h *CalendarHandler) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	created, err := h.store.AddEvent(c.Context(), store.EventInput{
		Date:             req.Date,
		Time:             req.Time,
		Type:             model.EventType(req.Type),
		Subject:          req.Subject,
		Topic:            req.Topic,
		Description:      req.Description,
		SpacedRepetition: req.SpacedRepetition,
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, created)
}

// DeleteEvent handles DELETE /api/v1/calendar/:id
func (h *CalendarHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := model.ParseID(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.store.DeleteEvent(c.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to delete event")
	}

	return response.SuccessWithMessage(c, "Event deleted", nil)
}
