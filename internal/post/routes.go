package post

import (
	"github.com/labstack/echo/v4"

	"github.com/minforum/minforum/internal/auth"
	"github.com/minforum/minforum/internal/session"
)

// RegisterRoutes sets up the post endpoints. Reading is public; publishing
// requires an authenticated session.
func RegisterRoutes(e *echo.Echo, h *Handler, sessions *session.Store) {
	e.GET("/api/posts", h.List)
	e.GET("/api/posts/:display_id", h.Get)
	e.POST("/api/posts", h.Create, auth.RequireAuth(sessions))
}
