package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ActorHeader carries the operator identity for audit attribution
const ActorHeader = "X-Actor"

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// ActorKey is the echo context key for the request actor
const ActorKey contextKey = "actor"

// RequireActor rejects requests without an X-Actor header. Every mutating
// operation is attributed to a named operator in the audit trail.
func RequireActor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := strings.TrimSpace(c.Request().Header.Get(ActorHeader))
			if actor == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"type":   "https://kasku.app/errors/unauthorized",
					"title":  "Unauthorized",
					"status": http.StatusUnauthorized,
					"detail": "X-Actor header is required",
				})
			}
			c.Set(string(ActorKey), actor)
			return next(c)
		}
	}
}

// GetActor returns the actor set by RequireActor, or empty string
func GetActor(c echo.Context) string {
	if actor, ok := c.Get(string(ActorKey)).(string); ok {
		return actor
	}
	return ""
}
