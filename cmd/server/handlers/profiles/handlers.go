package profiles

import (
	"context"
	"errors"

	"devlink/cmd/server/handlers/handlerutil"
	"devlink/cmd/server/handlers/httperr"
	"devlink/internal/clients/github"
	"devlink/internal/logger"
	"devlink/internal/services/profiles"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for profiles service
type Service interface {
	Me(ctx context.Context, userID bson.ObjectID) (*profiles.ProfileResponse, error)
	Upsert(ctx context.Context, userID bson.ObjectID, req profiles.UpsertProfileRequest) (*profiles.ProfileResponse, error)
	List(ctx context.Context) ([]*profiles.ProfileResponse, error)
	ByUser(ctx context.Context, userID bson.ObjectID) (*profiles.ProfileResponse, error)
	AddExperience(ctx context.Context, userID bson.ObjectID, req profiles.AddExperienceRequest) (*profiles.ProfileResponse, error)
	RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*profiles.ProfileResponse, error)
	AddEducation(ctx context.Context, userID bson.ObjectID, req profiles.AddEducationRequest) (*profiles.ProfileResponse, error)
	RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*profiles.ProfileResponse, error)
	DeleteAccount(ctx context.Context, userID bson.ObjectID) error
}

// GithubClient fetches a user's public repositories.
type GithubClient interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
}

// Handlers contains the profiles HTTP handlers
type Handlers struct {
	service   Service
	github    GithubClient
	validator *validator.Validate
}

// NewHandlers creates new profiles handlers
func NewHandlers(service Service, githubClient GithubClient, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		github:    githubClient,
		validator: validator,
	}
}

// Me returns the caller's own profile
// @Summary Get the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} profiles.ProfileResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /profile/me [get]
func (h *Handlers) Me(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.Me(c.Context(), userID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Me", userID, profiles.ErrProfileNotFound)
	}

	return c.JSON(resp)
}

// Upsert creates or updates the caller's profile
// @Summary Create or update the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body profiles.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /profile [post]
func (h *Handlers) Upsert(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req profiles.UpsertProfileRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Upsert"); err != nil {
		return err
	}

	resp, err := h.service.Upsert(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Upsert", userID)
	}

	return c.JSON(resp)
}

// List returns every profile with its owner summary
// @Summary List all profiles
// @Tags profiles
// @Accept json
// @Produce json
// @Success 200 {array} profiles.ProfileResponse
// @Failure 500 {object} httperr.E
// @Router /profile [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	resp, err := h.service.List(c.Context())
	if err != nil {
		logger.L().Error("list profiles failed", "handler", "List", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(resp)
}

// ByUser returns the profile owned by the given user
// @Summary Get a profile by user id
// @Tags profiles
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 404 {object} httperr.E
// @Router /profile/user/{user_id} [get]
func (h *Handlers) ByUser(c *fiber.Ctx) error {
	ownerID, err := handlerutil.ExtractObjectID(c, "user_id", "ByUser", profiles.ErrProfileNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.ByUser(c.Context(), ownerID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "ByUser", ownerID, profiles.ErrProfileNotFound)
	}

	return c.JSON(resp)
}

// AddExperience prepends a work-history entry to the caller's profile
// @Summary Add an experience entry
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body profiles.AddExperienceRequest true "Experience entry"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /profile/experience [put]
func (h *Handlers) AddExperience(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req profiles.AddExperienceRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "AddExperience"); err != nil {
		return err
	}

	resp, err := h.service.AddExperience(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "AddExperience", userID, profiles.ErrProfileNotFound)
	}

	return c.JSON(resp)
}

// RemoveExperience removes one work-history entry by id
// @Summary Remove an experience entry
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Param exp_id path string true "Experience entry ID"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /profile/experience/{exp_id} [delete]
func (h *Handlers) RemoveExperience(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	expID, err := handlerutil.ExtractEntryID(c, "exp_id", "RemoveExperience", profiles.ErrEntryNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.RemoveExperience(c.Context(), userID, expID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "RemoveExperience", userID,
			profiles.ErrProfileNotFound, profiles.ErrEntryNotFound)
	}

	return c.JSON(resp)
}

// AddEducation prepends an education entry to the caller's profile
// @Summary Add an education entry
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body profiles.AddEducationRequest true "Education entry"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /profile/education [put]
func (h *Handlers) AddEducation(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req profiles.AddEducationRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "AddEducation"); err != nil {
		return err
	}

	resp, err := h.service.AddEducation(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "AddEducation", userID, profiles.ErrProfileNotFound)
	}

	return c.JSON(resp)
}

// RemoveEducation removes one education entry by id
// @Summary Remove an education entry
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Param edu_id path string true "Education entry ID"
// @Success 200 {object} profiles.ProfileResponse
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /profile/education/{edu_id} [delete]
func (h *Handlers) RemoveEducation(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	eduID, err := handlerutil.ExtractEntryID(c, "edu_id", "RemoveEducation", profiles.ErrEntryNotFound)
	if err != nil {
		return err
	}

	resp, err := h.service.RemoveEducation(c.Context(), userID, eduID)
	if err != nil {
		return handlerutil.HandleServiceError(err, "RemoveEducation", userID,
			profiles.ErrProfileNotFound, profiles.ErrEntryNotFound)
	}

	return c.JSON(resp)
}

// DeleteAccount removes the caller's posts, profile and user
// @Summary Delete the caller's account
// @Tags profiles
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]string
// @Failure 401 {object} httperr.E
// @Failure 500 {object} httperr.E
// @Router /profile [delete]
func (h *Handlers) DeleteAccount(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Context(), userID); err != nil {
		logger.L().Error("delete account failed", "handler", "DeleteAccount", "userID", userID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(map[string]string{"message": "User deleted"})
}

// GithubRepos proxies the user's five earliest public repositories
// @Summary List a user's GitHub repositories
// @Tags profiles
// @Accept json
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} github.Repo
// @Failure 404 {object} httperr.E
// @Router /profile/github/{username} [get]
func (h *Handlers) GithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return httperr.NotFound(github.ErrNoGithubProfile)
	}

	repos, err := h.github.Repos(c.Context(), username)
	if err != nil {
		if errors.Is(err, github.ErrNoGithubProfile) {
			return httperr.NotFound(github.ErrNoGithubProfile)
		}
		logger.L().Error("github proxy failed", "handler", "GithubRepos", "username", username, "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(repos)
}
