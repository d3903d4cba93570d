package post

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/minforum/minforum/internal/apperror"
	"github.com/minforum/minforum/internal/auth"
)

// Handler handles HTTP requests for posts. Thin by design: bind, call the
// service, serialize.
type Handler struct {
	service Service
}

// NewHandler creates a new post handler with the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create publishes a new post for the authenticated caller (POST /api/posts).
func (h *Handler) Create(c echo.Context) error {
	var input CreateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	authorID := auth.GetUserID(c)
	if authorID == "" {
		return apperror.NewUnauthorized("authentication required")
	}

	p, err := h.service.Create(c.Request().Context(), authorID, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, p)
}

// Get returns one post by display id (GET /api/posts/:display_id).
func (h *Handler) Get(c echo.Context) error {
	p, err := h.service.GetByDisplayID(c.Request().Context(), c.Param("display_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// List returns the newest posts (GET /api/posts?limit=N).
func (h *Handler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	posts, err := h.service.List(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	return c.JSON(http.StatusOK, posts)
}
