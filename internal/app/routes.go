package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minforum/minforum/internal/auth"
	"github.com/minforum/minforum/internal/post"
	"github.com/minforum/minforum/internal/session"
)

// RegisterRoutes constructs every feature's repository, service, and handler
// and registers all routes. This is the only place wiring happens.
func (a *App) RegisterRoutes() {
	sessions := session.NewStore(a.Redis, a.Config.Auth.SessionTTL)

	// Auth: registration, login, logout, greeting.
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, auth.Limits{
		UsernameMax: a.Config.Auth.UsernameMaxLen,
		PasswordMax: a.Config.Auth.PasswordMaxLen,
	})
	auth.RegisterRoutes(a.Echo, auth.NewHandler(authService, sessions))

	// Posts: public feed, session-guarded publishing.
	postRepo := post.NewRepository(a.DB)
	post.RegisterRoutes(a.Echo, post.NewHandler(post.NewService(postRepo)), sessions)

	// Liveness probe.
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
