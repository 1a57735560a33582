package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/sage-api/store"
	"github.com/sahilchouksey/sage-api/utils/auth"
	"github.com/sahilchouksey/sage-api/utils/response"
)

// AuthMiddleware handles JWT authentication backed by the stored session
// record. A token is only good while the session record it was issued
// alongside is still live; checking also slides the session forward when
// it is close to expiry.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	store      *store.Store
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, st *store.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		store:      st,
	}
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get token from Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		tokenString := parts[1]

		// Validate token
		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			if err == auth.ErrExpiredToken {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Invalid token")
		}

		// Validate the stored session; this also refreshes it when close
		// to expiry.
		session, err := m.store.CheckSession(c.Context())
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

		// Store auth info in context
		c.Locals("username", claims.Username)
		c.Locals("claims", claims)
		c.Locals("session", session)
		c.Locals("token_jti", claims.ID)

		return c.Next()
	}
}

// GetUsername extracts the authenticated username from context
func GetUsername(c *fiber.Ctx) (string, bool) {
	username := c.Locals("username")
	if username == nil {
		return "", false
	}
	u, ok := username.(string)
	return u, ok
}

// GetClaims extracts full claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims := c.Locals("claims")
	if claims == nil {
		return nil, false
	}
	claimsData, ok := claims.(*auth.Claims)
	return claimsData, ok
}

// GetTokenJTI extracts the token JTI from context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti := c.Locals("token_jti")
	if jti == nil {
		return "", false
	}
	j, ok := jti.(string)
	return j, ok
}
