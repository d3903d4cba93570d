package auth

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minforum/minforum/internal/apperror"
	"github.com/minforum/minforum/internal/session"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "minforum_session"

// Handler handles HTTP requests for authentication (register, login,
// logout). Handlers are thin: they bind the request, resolve the caller's
// session, call the service, and serialize the AuthResult. The envelope's
// Code doubles as the HTTP status. Password hashes never serialize -- the
// User struct excludes the field from JSON.
type Handler struct {
	service  AuthService
	sessions *session.Store
}

// NewHandler creates a new auth handler with the given dependencies.
func NewHandler(service AuthService, sessions *session.Store) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Register processes a registration request (POST /api/register).
func (h *Handler) Register(c echo.Context) error {
	var input RegisterInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	sess, err := h.callerSession(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, sessionFailure(err))
	}

	result := h.service.Register(c.Request().Context(), input, sess)
	if result.Success {
		setSessionCookie(c, sess.Token())
	}
	return c.JSON(result.Code, result)
}

// Login processes a login request (POST /api/login).
func (h *Handler) Login(c echo.Context) error {
	var input LoginInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	sess, err := h.callerSession(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, sessionFailure(err))
	}

	result := h.service.Login(c.Request().Context(), input, sess)
	if result.Success {
		setSessionCookie(c, sess.Token())
	}
	return c.JSON(result.Code, result)
}

// Logout destroys the session and clears the cookie (POST /api/logout).
// The response body is the bare boolean outcome: true when a session record
// was destroyed, false otherwise.
func (h *Handler) Logout(c echo.Context) error {
	clearSessionCookie(c)

	token := getSessionToken(c)
	if token == "" {
		return c.JSON(http.StatusOK, false)
	}

	sess, err := h.sessions.Load(c.Request().Context(), token)
	if err != nil {
		return c.JSON(http.StatusOK, false)
	}

	return c.JSON(http.StatusOK, h.service.Logout(c.Request().Context(), sess))
}

// Hello is a trivial authenticated greeting (GET /api/hello), mostly useful
// for checking whether the session cookie round-trips.
func (h *Handler) Hello(c echo.Context) error {
	greeting := "Hello guest"
	if token := getSessionToken(c); token != "" {
		if sess, err := h.sessions.Load(c.Request().Context(), token); err == nil {
			if id, ok := sess.UserID(); ok {
				greeting = fmt.Sprintf("Hello %s", id)
			}
		}
	}
	return c.String(http.StatusOK, greeting)
}

// callerSession resolves the session bound to the caller's cookie token, or
// creates a fresh one when the caller arrives without a cookie.
func (h *Handler) callerSession(c echo.Context) (*session.Session, error) {
	token := getSessionToken(c)
	if token == "" {
		var err error
		token, err = session.NewToken()
		if err != nil {
			return nil, err
		}
	}
	return h.sessions.Load(c.Request().Context(), token)
}

// sessionFailure is the 500 envelope for a session layer that cannot even
// be loaded. Mirrors the service's internal-failure contract so the caller
// always receives a well-formed result.
func sessionFailure(err error) AuthResult {
	return AuthResult{
		Code:    500,
		Success: false,
		Message: fmt.Sprintf("Internal server error %s", err.Error()),
	}
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure if behind TLS, and SameSite=Lax.
func setSessionCookie(c echo.Context, token string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   30 * 24 * 60 * 60, // 30 days in seconds
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
