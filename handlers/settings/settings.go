package settings

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/services/backup"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// SettingsHandler handles preferences, backup and data-management requests
type SettingsHandler struct {
	store     *store.Store
	validator *validation.Validator
	backup    *backup.Service
	startedAt time.Time
}

// NewSettingsHandler creates a new settings handler. The backup service
// may be nil when no backup target is configured.
func NewSettingsHandler(st *store.Store, bk *backup.Service) *SettingsHandler {
	return &SettingsHandler{
		store:     st,
		validator: validation.NewValidator(),
		backup:    bk,
		startedAt: time.Now(),
	}
}

// UpdateSettingsRequest represents the request body for updating settings
type UpdateSettingsRequest struct {
	DarkMode *bool `json:"darkMode"`
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	return response.Success(c, h.store.Settings(c.Context()))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	saved, err := h.store.UpdateSettings(c.Context(), store.SettingsPatch{
		DarkMode: req.DarkMode,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to save settings")
	}

	return response.Success(c, saved)
}

// ExportData handles GET /api/v1/settings/export
//
// Streams the full document as a dated JSON download.
func (h *SettingsHandler) ExportData(c *fiber.Ctx) error {
	data, err := h.store.Export(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to export data")
	}

	filename := store.ExportFilename(time.Now())
	c.Set(fiber.HeaderContentType, "application/json")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}

// ImportData handles POST /api/v1/settings/import
//
// A valid payload atomically replaces everything; an invalid one leaves
// existing data untouched.
func (h *SettingsHandler) ImportData(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return response.BadRequest(c, "Missing backup payload")
	}

	if err := h.store.Import(c.Context(), body); err != nil {
		return response.BadRequest(c, "Invalid backup file: "+err.Error())
	}

	return response.SuccessWithMessage(c, "Data imported", nil)
}

// ClearAllData handles POST /api/v1/settings/clear
func (h *SettingsHandler) ClearAllData(c *fiber.Ctx) error {
	if err := h.store.Reset(c.Context()); err != nil {
		return response.InternalServerError(c, "Failed to clear data")
	}
	return response.SuccessWithMessage(c, "All data cleared", nil)
}

// OptimizeData handles POST /api/v1/settings/optimize
//
// Trims excess history, drops year-old calendar events and prunes
// unnamed subjects and subtopics.
func (h *SettingsHandler) OptimizeData(c *fiber.Ctx) error {
	if err := h.store.CleanupNow(c.Context()); err != nil {
		return response.InternalServerError(c, "Failed to optimize data")
	}
	return response.SuccessWithMessage(c, "Data optimized", nil)
}

// BackupNow handles POST /api/v1/settings/backup
func (h *SettingsHandler) BackupNow(c *fiber.Ctx) error {
	if h.backup == nil {
		return response.BadRequest(c, "No backup target configured")
	}

	key, err := h.backup.Run(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Backup failed: "+err.Error())
	}

	return response.SuccessWithMessage(c, "Backup uploaded", fiber.Map{"key": key})
}

// GetSystemInfo handles GET /api/v1/settings/system
func (h *SettingsHandler) GetSystemInfo(c *fiber.Ctx) error {
	ctx := c.Context()
	doc := h.store.Document(ctx)

	subtopics := 0
	for _, sub := range doc.Subjects {
		subtopics += len(sub.Subtopics)
	}

	return response.Success(c, fiber.Map{
		"data_version":     doc.Settings.DataVersion,
		"created_at":       doc.Settings.CreatedAt,
		"last_backup":      doc.Settings.LastBackup,
		"progress_entries": len(doc.DailyProgress),
		"subjects":         len(doc.Subjects),
		"subtopics":        subtopics,
		"calendar_events":  len(doc.Calendar),
		"milestones":       len(doc.Milestones),
		"uptime":           time.Since(h.startedAt).Round(time.Second).String(),
		"go_version":       runtime.Version(),
	})
}
