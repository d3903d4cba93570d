package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minforum/minforum/internal/session"
)

// contextKeyUserID is the Echo context key holding the authenticated user's
// id. Other packages read it via GetUserID.
const contextKeyUserID = "auth_user_id"

// RequireAuth returns middleware that resolves the caller's session cookie
// and injects the authenticated user id into the request context. Requests
// without a valid authenticated session get a 401 JSON response.
func RequireAuth(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return unauthenticated(c)
			}

			sess, err := sessions.Load(c.Request().Context(), token)
			if err != nil {
				return unauthenticated(c)
			}

			userID, ok := sess.UserID()
			if !ok {
				// Stale cookie with no live session behind it.
				clearSessionCookie(c)
				return unauthenticated(c)
			}

			c.Set(contextKeyUserID, userID)
			return next(c)
		}
	}
}

// unauthenticated answers a request that lacks a valid session.
func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error":   "unauthorized",
		"message": "authentication required",
	})
}

// GetUserID retrieves the authenticated user's id from the Echo context.
// Returns empty string if the request is not authenticated (middleware not
// applied).
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
