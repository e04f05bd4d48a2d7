package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/tokens"
)

type AuthMiddleware struct {
	Codec *tokens.Codec
}

func NewAuthMiddleware(codec *tokens.Codec) *AuthMiddleware {
	return &AuthMiddleware{Codec: codec}
}

// RequireAuth accepts only access-type bearer tokens and puts the caller's
// user id into the echo context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := m.Codec.Parse(token, tokens.TypeAccess)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

func callerID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get("user_id").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return id, nil
}
