package middleware

import (
	"net/http"
	"strings"

	"farmradar/config"
	"farmradar/internal/domain/entity"
	"farmradar/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Echo context keys set by Authenticate.
const (
	ctxKeyUserID = "userID"
	ctxKeyRole   = "role"
)

// AuthMiddleware validates access tokens and enforces role checks on
// protected routes.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	cfg      *config.Config
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(tokenSvc service.TokenService, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, cfg: cfg}
}

// Authenticate verifies the bearer token and stores the caller's
// identity on the echo context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return unauthorized(c, "Invalid token format, must be Bearer token")
		}

		token, err := m.tokenSvc.ValidateToken(tokenString, m.cfg.SecretKey.Access)
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		userID, role, err := identityFromClaims(token.Claims)
		if err != nil {
			return unauthorized(c, err.Error())
		}

		c.Set(ctxKeyUserID, userID)
		c.Set(ctxKeyRole, role)

		return next(c)
	}
}

// RequireRole rejects callers whose authenticated role differs from the
// required one. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxKeyRole).(entity.Role)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if role != requiredRole {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require '" + string(requiredRole) + "' role"})
			}

			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID set by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ctxKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetRole extracts the authenticated role set by Authenticate.
func GetRole(c echo.Context) (entity.Role, bool) {
	role, ok := c.Get(ctxKeyRole).(entity.Role)

	return role, ok
}

func identityFromClaims(claims jwt.Claims) (uuid.UUID, entity.Role, error) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errors.New("Failed to parse token claims")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return uuid.Nil, "", errors.New("User ID missing from token")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, "", errors.New("Invalid user ID format in token")
	}

	role, _ := mapClaims["role"].(string)

	return userID, entity.Role(role), nil
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": message})
}
