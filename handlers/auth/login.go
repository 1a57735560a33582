package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/auth"
	"github.com/sahilchouksey/sage-api/utils/response"
	"github.com/sahilchouksey/sage-api/utils/validation"
)

// AuthHandler handles the single-account login flow
type AuthHandler struct {
	store        *store.Store
	validator    *validation.Validator
	jwtManager   *auth.JWTManager
	username     string
	password     string
	passwordHash string
}

// Config carries the configured credential pair. When PasswordHash is
// set it takes precedence over the plaintext password.
type Config struct {
	Username     string
	Password     string
	PasswordHash string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(st *store.Store, jwtManager *auth.JWTManager, cfg Config) *AuthHandler {
	return &AuthHandler{
		store:        st,
		validator:    validation.NewValidator(),
		jwtManager:   jwtManager,
		username:     cfg.Username,
		password:     cfg.Password,
		passwordHash: cfg.PasswordHash,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Username != h.username || h.verifyPassword(req.Password) != nil {
		return response.Unauthorized(c, "Invalid credentials")
	}

	session, err := h.store.StartSession(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to start session")
	}

	token, _, err := h.jwtManager.GenerateToken(req.Username)
	if err != nil {
		return response.InternalServerError(c, "Failed to issue token")
	}

	return response.Success(c, fiber.Map{
		"token":      token,
		"expires_at": session.ExpiresAt,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.store.ClearSession(c.Context()); err != nil {
		return response.InternalServerError(c, "Failed to clear session")
	}
	return response.SuccessWithMessage(c, "Logged out", nil)
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, err := h.store.CheckSession(c.Context())
	if err != nil {
		switch err {
		case store.ErrNoSession:
			return response.Unauthorized(c, "No active session")
		case store.ErrSessionExpired:
			return response.Unauthorized(c, "Session has expired")
		default:
			return response.InternalServerError(c, "Failed to check session")
		}
	}

	return response.Success(c, fiber.Map{
		"authenticated": session.Authenticated,
		"started_at":    session.Timestamp,
		"expires_at":    session.ExpiresAt,
	})
}

func (h *AuthHandler) verifyPassword(provided string) error {
	if h.passwordHash != "" {
		return auth.VerifyPassword(h.passwordHash, provided)
	}
	return auth.VerifyPlaintext(h.password, provided)
}
