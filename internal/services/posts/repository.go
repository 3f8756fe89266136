package posts

import (
	"context"

	"devlink/internal/services/auth"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for posts repository operations.
// Like, comment and delete writes are single-document conditional updates;
// implementations must not read-modify-write.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, postID bson.ObjectID) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, postID bson.ObjectID) error
	DeleteByAuthor(ctx context.Context, authorID bson.ObjectID) error

	// AddLike appends a like only if userID has not liked the post yet.
	// Returns ErrAlreadyLiked or ErrPostNotFound on a failed condition.
	AddLike(ctx context.Context, postID, userID bson.ObjectID) (*Post, error)
	// RemoveLike removes userID's like only if it exists. Returns
	// ErrNotLiked or ErrPostNotFound on a failed condition.
	RemoveLike(ctx context.Context, postID, userID bson.ObjectID) (*Post, error)

	AddComment(ctx context.Context, postID bson.ObjectID, c Comment) (*Post, error)
	// RemoveComment removes the comment only if it exists on the post.
	// Returns ErrCommentNotFound or ErrPostNotFound on a failed condition.
	RemoveComment(ctx context.Context, postID bson.ObjectID, commentID string) (*Post, error)
}

// UsersRepo is the slice of the users store the posts service needs to
// snapshot author name and avatar.
type UsersRepo interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error)
}

// Bus defines the interface for event broadcasting
type Bus interface {
	Broadcast(ctx context.Context, ev PostEvent)
}
