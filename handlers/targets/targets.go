package targets

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/model"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// TargetsHandler handles weekly/monthly goal requests
type TargetsHandler struct {
	store     *store.Store
	validator *validation.Validator
}

// NewTargetsHandler creates a new targets handler
func NewTargetsHandler(st *store.Store) *TargetsHandler {
	return &TargetsHandler{
		store:     st,
		validator: validation.NewValidator(),
	}
}

// TargetPairRequest is one goal threshold
type TargetPairRequest struct {
	Hours float64 `json:"hours" validate:"gte=0,lte=744"`
	Days  int     `json:"days" validate:"gte=0,lte=31"`
}

// SetTargetsRequest replaces whichever goal pairs are provided
type SetTargetsRequest struct {
	Weekly  *TargetPairRequest `json:"weekly"`
	Monthly *TargetPairRequest `json:"monthly"`
}

// GetTargets handles GET /api/v1/targets
func (h *TargetsHandler) GetTargets(c *fiber.Ctx) error {
	return response.Success(c, h.store.Targets(c.Context()))
}

// SetTargets handles PUT /api/v1/targets
//
// Previous thresholds are overwritten; no history is kept.
func (h *TargetsHandler) SetTargets(c *fiber.Ctx) error {
	var req SetTargetsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	patch := store.TargetsPatch{}
	if req.Weekly != nil {
		patch.Weekly = &model.TargetPair{Hours: req.Weekly.Hours, Days: req.Weekly.Days}
	}
	if req.Monthly != nil {
		patch.Monthly = &model.TargetPair{Hours: req.Monthly.Hours, Days: req.Monthly.Days}
	}

	targets, err := h.store.SetTargets(c.Context(), patch)
	if err != nil {
		return response.InternalServerError(c, "Failed to save targets")
	}

	return response.Success(c, targets)
}

// GetTargetStats handles GET /api/v1/targets/stats
//
// Reports attainment against the current thresholds: hours and active
// days this rolling week and this calendar month.
func (h *TargetsHandler) GetTargetStats(c *fiber.Ctx) error {
	ctx := c.Context()
	targets := h.store.Targets(ctx)
	weekly := h.store.WeeklyStats(ctx)
	monthly := h.store.MonthlyStats(ctx)

	return response.Success(c, fiber.Map{
		"weekly": fiber.Map{
			"target": targets.Weekly,
			"actual": weekly,
		},
		"monthly": fiber.Map{
			"target": targets.Monthly,
			"actual": monthly,
		},
	})
}
