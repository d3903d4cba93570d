package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the auth endpoints on the given Echo instance.
// All of them are public -- RequireAuth is exported separately for route
// groups that need an authenticated caller.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/register", h.Register)
	e.POST("/api/login", h.Login)
	e.POST("/api/logout", h.Logout)
	e.GET("/api/hello", h.Hello)
}
