package posts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"devlink/internal/utils/sanitize"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles posts business logic
type Service struct {
	repo  Repository
	users UsersRepo
	bus   Bus
	log   *slog.Logger
}

// NewService creates a new posts service
func NewService(repo Repository, users UsersRepo, bus Bus, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		bus:   bus,
		log:   log,
	}
}

// CreatePostRequest represents a post creation request
type CreatePostRequest struct {
	Text string `json:"text" validate:"required" example:"Shipped v2 today"`
}

// AddCommentRequest represents a comment creation request
type AddCommentRequest struct {
	Text string `json:"text" validate:"required" example:"Great writeup!"`
}

// PostResponse represents a single post response
type PostResponse struct {
	Post *Post `json:"post"`
}

// Create creates a new post, snapshotting the author's current name and avatar.
func (s *Service) Create(ctx context.Context, userID bson.ObjectID, req CreatePostRequest) (*PostResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error(ErrCreatePost.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrCreatePost
	}

	post := &Post{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Text:      sanitize.Clean(req.Text),
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []Like{},
		Comments:  []Comment{},
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.Error(ErrCreatePost.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrCreatePost
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "created",
		Post: post,
	})

	return &PostResponse{Post: post}, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error(ErrListPosts.Error(), "error", err)
		return nil, ErrListPosts
	}
	return all, nil
}

// ByID returns a single post by id
func (s *Service) ByID(ctx context.Context, postID bson.ObjectID) (*Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		s.log.Error(ErrListPosts.Error(), "error", err, "post_id", postID.Hex())
		return nil, ErrListPosts
	}
	return post, nil
}

// Delete removes a post. Only the author may delete it; a missing post wins
// over the ownership check.
func (s *Service) Delete(ctx context.Context, userID, postID bson.ObjectID) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		s.log.Error(ErrDeletePost.Error(), "error", err, "post_id", postID.Hex())
		return ErrDeletePost
	}
	if post.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		s.log.Error(ErrDeletePost.Error(), "error", err, "post_id", postID.Hex())
		return ErrDeletePost
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "deleted",
		Post: post,
	})
	return nil
}

// Like endorses a post on behalf of userID. Liking the same post twice fails.
func (s *Service) Like(ctx context.Context, userID, postID bson.ObjectID) (*Post, error) {
	post, err := s.repo.AddLike(ctx, postID, userID)
	if err != nil {
		return nil, s.mutationError(err, postID, "like")
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "liked",
		Post: post,
	})
	return post, nil
}

// Unlike withdraws userID's like. Unliking a post the user never liked fails.
func (s *Service) Unlike(ctx context.Context, userID, postID bson.ObjectID) (*Post, error) {
	post, err := s.repo.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, s.mutationError(err, postID, "unlike")
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "unliked",
		Post: post,
	})
	return post, nil
}

// AddComment appends a comment to the post, snapshotting the author.
func (s *Service) AddComment(ctx context.Context, userID, postID bson.ObjectID, req AddCommentRequest) (*Post, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error(ErrMutatePost.Error(), "op", "comment", "error", err, "user_id", userID.Hex())
		return nil, ErrMutatePost
	}

	comment := Comment{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Text:      sanitize.Clean(req.Text),
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now(),
	}

	post, err := s.repo.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, s.mutationError(err, postID, "comment")
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "commented",
		Post: post,
	})
	return post, nil
}

// RemoveComment removes a comment from a post. Only the comment's author may
// remove it; a missing comment wins over the ownership check.
func (s *Service) RemoveComment(ctx context.Context, userID, postID bson.ObjectID, commentID string) (*Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, s.mutationError(err, postID, "uncomment")
	}

	comment, found := findComment(post, commentID)
	if !found {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != userID {
		return nil, ErrNotOwner
	}

	post, err = s.repo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return nil, s.mutationError(err, postID, "uncomment")
	}

	s.bus.Broadcast(ctx, PostEvent{
		Type: "uncommented",
		Post: post,
	})
	return post, nil
}

// mutationError maps repository failures from conditional post writes.
func (s *Service) mutationError(err error, postID bson.ObjectID, op string) error {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return ErrPostNotFound
	case errors.Is(err, ErrCommentNotFound):
		return ErrCommentNotFound
	case errors.Is(err, ErrAlreadyLiked):
		return ErrAlreadyLiked
	case errors.Is(err, ErrNotLiked):
		return ErrNotLiked
	default:
		s.log.Error(ErrMutatePost.Error(), "op", op, "error", err, "post_id", postID.Hex())
		return ErrMutatePost
	}
}

func findComment(post *Post, commentID string) (Comment, bool) {
	for _, c := range post.Comments {
		if c.ID == commentID {
			return c, true
		}
	}
	return Comment{}, false
}
