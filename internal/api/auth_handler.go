package api

import (
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	metrics     *metrics.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, m *metrics.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token with the session record.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 503 {object} gin.H "Store not configured"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) || errors.Is(err, service.ErrCredentialsRequired) {
			h.metrics.CounterLogins.WithLabelValues("rejected").Inc()
			abortWithError(c, http.StatusUnauthorized, service.ErrAuthenticationFailed.Error())
			return
		}
		h.metrics.CounterLogins.WithLabelValues("error").Inc()
		respondError(c, err)
		return
	}

	h.metrics.CounterLogins.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, LoginResponse{
		Token: session.Token,
		User:  session,
	})
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless; the client discards its token. Always succeeds.
// @Tags Auth
// @Success 204 "Logged out"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.LoginSession
// @Security BearerAuth
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, err := getSessionFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get session from token")
		return
	}
	c.JSON(http.StatusOK, session)
}

// CreateUser godoc
// @Summary Create a login (admin only)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username already exists)"
// @Security BearerAuth
// @Router /users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), req.Username, req.Password, req.Role, req.MemberID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRole) || errors.Is(err, service.ErrCredentialsRequired) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}
