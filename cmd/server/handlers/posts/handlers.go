package posts

import (
	"context"
	"errors"

	"devlink/cmd/server/handlers/handlerutil"
	"devlink/cmd/server/handlers/httperr"
	"devlink/internal/logger"
	"devlink/internal/services/posts"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service defines the interface for posts service
type Service interface {
	Create(ctx context.Context, userID bson.ObjectID, req posts.CreatePostRequest) (*posts.PostResponse, error)
	List(ctx context.Context) ([]*posts.Post, error)
	ByID(ctx context.Context, postID bson.ObjectID) (*posts.Post, error)
	Delete(ctx context.Context, userID, postID bson.ObjectID) error
	Like(ctx context.Context, userID, postID bson.ObjectID) (*posts.Post, error)
	Unlike(ctx context.Context, userID, postID bson.ObjectID) (*posts.Post, error)
	AddComment(ctx context.Context, userID, postID bson.ObjectID, req posts.AddCommentRequest) (*posts.Post, error)
	RemoveComment(ctx context.Context, userID, postID bson.ObjectID, commentID string) (*posts.Post, error)
}

// Handlers contains the posts HTTP handlers
type Handlers struct {
	service   Service
	validator *validator.Validate
}

// NewHandlers creates new posts handlers
func NewHandlers(service Service, validator *validator.Validate) *Handlers {
	return &Handlers{
		service:   service,
		validator: validator,
	}
}

// Create handles post creation
// @Summary Create a new post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body posts.CreatePostRequest true "Create post request"
// @Success 200 {object} posts.PostResponse
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Router /posts [post]
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	var req posts.CreatePostRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Create"); err != nil {
		return err
	}

	resp, err := h.service.Create(c.Context(), userID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Create", userID)
	}

	return c.JSON(resp)
}

// List returns every post, newest first
// @Summary List all posts
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {array} posts.Post
// @Failure 401 {object} httperr.E
// @Router /posts [get]
func (h *Handlers) List(c *fiber.Ctx) error {
	all, err := h.service.List(c.Context())
	if err != nil {
		logger.L().Error("list posts failed", "handler", "List", "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(all)
}

// Get returns a single post by id
// @Summary Get a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Success 200 {object} posts.Post
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /posts/{id} [get]
func (h *Handlers) Get(c *fiber.Ctx) error {
	postID, err := handlerutil.ExtractObjectID(c, "id", "Get", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.service.ByID(c.Context(), postID)
	if err != nil {
		if errors.Is(err, posts.ErrPostNotFound) {
			return httperr.NotFound(posts.ErrPostNotFound)
		}
		logger.L().Error("get post failed", "handler", "Get", "postID", postID.Hex(), "error", err)
		return httperr.Fail(httperr.ErrInternal)
	}

	return c.JSON(post)
}

// Delete removes a post; only its author may do so
// @Summary Delete a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /posts/{id} [delete]
func (h *Handlers) Delete(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := handlerutil.ExtractObjectID(c, "id", "Delete", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), userID, postID); err != nil {
		if errors.Is(err, posts.ErrNotOwner) {
			logger.L().Info("post delete denied", "handler", "Delete", "userID", userID.Hex(), "postID", postID.Hex())
			return httperr.Fail(httperr.ErrForbidden)
		}
		return handlerutil.HandleServiceError(err, "Delete", userID, posts.ErrPostNotFound)
	}

	return c.JSON(map[string]string{"message": "Post removed"})
}

// Like endorses a post on behalf of the caller
// @Summary Like a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Success 200 {array} posts.Like
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /posts/like/{id} [put]
func (h *Handlers) Like(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := handlerutil.ExtractObjectID(c, "id", "Like", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.service.Like(c.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, posts.ErrAlreadyLiked) {
			return httperr.Conflict(posts.ErrAlreadyLiked)
		}
		return handlerutil.HandleServiceError(err, "Like", userID, posts.ErrPostNotFound)
	}

	// Only the likes sequence goes back to the caller.
	return c.JSON(post.Likes)
}

// Unlike withdraws the caller's like
// @Summary Unlike a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Success 200 {array} posts.Like
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Failure 409 {object} httperr.E
// @Router /posts/unlike/{id} [put]
func (h *Handlers) Unlike(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := handlerutil.ExtractObjectID(c, "id", "Unlike", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	post, err := h.service.Unlike(c.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, posts.ErrNotLiked) {
			return httperr.Conflict(posts.ErrNotLiked)
		}
		return handlerutil.HandleServiceError(err, "Unlike", userID, posts.ErrPostNotFound)
	}

	return c.JSON(post.Likes)
}

// Comment appends a comment to a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Param request body posts.AddCommentRequest true "Comment request"
// @Success 200 {array} posts.Comment
// @Failure 400 {object} httperr.E
// @Failure 401 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /posts/comment/{id} [post]
func (h *Handlers) Comment(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := handlerutil.ExtractObjectID(c, "id", "Comment", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	var req posts.AddCommentRequest
	if err := handlerutil.ParseAndValidateBody(c, &req, h.validator, "Comment"); err != nil {
		return err
	}

	post, err := h.service.AddComment(c.Context(), userID, postID, req)
	if err != nil {
		return handlerutil.HandleServiceError(err, "Comment", userID, posts.ErrPostNotFound)
	}

	// The caller only needs the refreshed comments sequence.
	return c.JSON(post.Comments)
}

// Uncomment removes a comment; only its author may do so
// @Summary Remove a comment from a post
// @Tags posts
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Post ID"
// @Param comment_id path string true "Comment ID"
// @Success 200 {array} posts.Comment
// @Failure 401 {object} httperr.E
// @Failure 403 {object} httperr.E
// @Failure 404 {object} httperr.E
// @Router /posts/comment/{id}/{comment_id} [delete]
func (h *Handlers) Uncomment(c *fiber.Ctx) error {
	userID, err := handlerutil.GetUserID(c)
	if err != nil {
		return err
	}

	postID, err := handlerutil.ExtractObjectID(c, "id", "Uncomment", posts.ErrPostNotFound)
	if err != nil {
		return err
	}

	commentID, err := handlerutil.ExtractEntryID(c, "comment_id", "Uncomment", posts.ErrCommentNotFound)
	if err != nil {
		return err
	}

	post, err := h.service.RemoveComment(c.Context(), userID, postID, commentID)
	if err != nil {
		if errors.Is(err, posts.ErrNotOwner) {
			logger.L().Info("comment delete denied", "handler", "Uncomment", "userID", userID.Hex(), "postID", postID.Hex())
			return httperr.Fail(httperr.ErrForbidden)
		}
		return handlerutil.HandleServiceError(err, "Uncomment", userID,
			posts.ErrPostNotFound, posts.ErrCommentNotFound)
	}

	return c.JSON(post.Comments)
}
