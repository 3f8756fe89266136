package auth

import (
	"context"
	"errors"

	"devlink/cmd/server/handlers/handlerutil"
	"devlink/cmd/server/handlers/httperr"
	"devlink/internal/logger"
	"devlink/internal/services/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// AuthService defines the interface for auth service
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error)
	Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error)
	CurrentUser(ctx context.Context, userID bson.ObjectID) (*auth.User, error)
}

// Handlers contains the auth HTTP handlers
type Handlers struct {
	authService AuthService
	validator   *validator.Validate
}

// NewHandlers creates new auth handlers
func NewHandlers(authService AuthService, validator *validator.Validate) *Handlers {
	return &Handlers{
		authService: authService,
		validator:   validator,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Register request"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /users [post]
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Register"); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicate) {
			logger.L().Info("duplicate registration attempt", "handler", "Register", "email", req.Email)
			return httperr.Conflict(auth.ErrDuplicate)
		}
		logger.L().Error("register service failed", "handler", "Register", "email", req.Email, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// Login handles user authentication
// @Summary Authenticate a user and issue a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login request"
// @Success 200 {object} auth.TokenResponse
// @Failure 400 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 429 {object} httperr.E
// @Router /auth [post]
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Login"); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		// Unknown email and wrong password answer identically.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.L().Info("failed login attempt", "handler", "Login", "email", req.Email, "remote", c.IP())
			return httperr.NotFound(auth.ErrInvalidCredentials)
		}
		logger.L().Error("login service failed", "handler", "Login", "email", req.Email, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// Current returns the authenticated user, password hash excluded.
// @Summary Get the authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} auth.User
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /auth [get]
func (h *Handlers) Current(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Context(), userID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Current", userID, auth.ErrUserNotFound)
	}

	return c.JSON(user)
}
