// Package api exposes the authentication flows over HTTP using Echo.
//
// Routes:
//
//	POST /signup             — submit signup data, triggers activation email
//	POST /account-activation — present an activation token, creates the account
//	POST /signin             — credential check, returns a session token pair
//	GET  /healthz            — liveness
//	GET  /ready              — readiness (database, Redis)
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/redshot/mern-auth-server/account"
	"github.com/redshot/mern-auth-server/domain"
	"github.com/redshot/mern-auth-server/flow"
	"github.com/redshot/mern-auth-server/health"
	"github.com/redshot/mern-auth-server/session"
)

type Handler struct {
	signupManager     *flow.SignupManager
	activationManager *flow.ActivationManager
	loginManager      *flow.LoginManager
	sessionManager    *session.Manager
	healthManager     *health.Manager
}

func NewHandler(signup *flow.SignupManager, activation *flow.ActivationManager, login *flow.LoginManager, sm *session.Manager) *Handler {
	return &Handler{
		signupManager:     signup,
		activationManager: activation,
		loginManager:      login,
		sessionManager:    sm,
	}
}

// SetHealthManager mounts health endpoints when RegisterRoutes is called.
func (h *Handler) SetHealthManager(hm *health.Manager) {
	h.healthManager = hm
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/signup", h.HandleSignup)
	g.POST("/account-activation", h.HandleActivation)
	g.POST("/signin", h.HandleSignin)

	if h.healthManager != nil {
		g.GET("/healthz", h.HandleHealthz)
		g.GET("/ready", h.HandleReady)
	}
}

func (h *Handler) HandleSignup(c echo.Context) error {
	var body account.SignupRequest
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.Name == "" || body.Password == "" || !strings.Contains(body.Email, "@") {
		return h.Error(c, http.StatusBadRequest, "Name, email and password are required", nil)
	}

	if err := h.signupManager.Submit(c.Request().Context(), body); err != nil {
		if rle, ok := flow.AsRateLimitError(err); ok {
			c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(rle.RetryAfter.Seconds()), 10))
			return h.Error(c, http.StatusTooManyRequests, "Too many signup attempts", nil)
		}
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyRegistered):
			return h.Error(c, http.StatusConflict, "Email is already registered", nil)
		case errors.Is(err, domain.ErrStorageUnavailable):
			return h.Error(c, http.StatusServiceUnavailable, "Temporary failure, try again later", nil)
		default:
			return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Email has been sent to " + body.Email + ". Follow the instruction to activate your account",
	})
}

func (h *Handler) HandleActivation(c echo.Context) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}
	if body.Token == "" {
		return h.Error(c, http.StatusBadRequest, "Token is required", nil)
	}

	acct, err := h.activationManager.Activate(c.Request().Context(), body.Token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return h.Error(c, http.StatusUnauthorized, "Link expired. Signup again", nil)
		case errors.Is(err, domain.ErrInvalidToken):
			return h.Error(c, http.StatusUnauthorized, "Invalid activation link", nil)
		case errors.Is(err, domain.ErrAlreadyActivated):
			return h.Error(c, http.StatusConflict, "Account is already activated. Please signin", nil)
		case errors.Is(err, domain.ErrStorageUnavailable):
			return h.Error(c, http.StatusServiceUnavailable, "Temporary failure, try again later", nil)
		default:
			return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Signup success. Please signin",
		"user":    acct,
	})
}

func (h *Handler) HandleSignin(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return h.Error(c, http.StatusBadRequest, "Invalid request body", err)
	}

	acct, err := h.loginManager.Authenticate(c.Request().Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return h.Error(c, http.StatusUnauthorized, "Email or password is incorrect", nil)
		case errors.Is(err, domain.ErrStorageUnavailable):
			return h.Error(c, http.StatusServiceUnavailable, "Temporary failure, try again later", nil)
		default:
			return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
		}
	}

	sess, err := h.sessionManager.Create(acct.ID)
	if err != nil {
		return h.Error(c, http.StatusInternalServerError, "Internal server error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token":         sess.Token,
		"refresh_token": sess.RefreshToken,
		"user":          acct,
	})
}

func (h *Handler) HandleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, h.healthManager.Live())
}

func (h *Handler) HandleReady(c echo.Context) error {
	report := h.healthManager.Ready(c.Request().Context())
	status := http.StatusOK
	if report.Status != health.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}

// Helper for consistent error responses.
func (h *Handler) Error(c echo.Context, code int, message string, err error) error {
	resp := map[string]any{
		"status": message,
		"code":   code,
	}
	if err != nil {
		resp["error"] = err.Error()
	}
	return c.JSON(code, resp)
}
