package profiles

import (
	"context"

	"devlink/internal/services/auth"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Repository defines the interface for profile repository operations.
// Embedded-sequence writes are single conditional document updates; the
// implementation must never read-modify-write the aggregate.
type Repository interface {
	FindByUser(ctx context.Context, userID bson.ObjectID) (*Profile, error)
	FindAll(ctx context.Context) ([]*Profile, error)
	Upsert(ctx context.Context, userID bson.ObjectID, patch Patch) (*Profile, error)
	AddExperience(ctx context.Context, userID bson.ObjectID, exp Experience) (*Profile, error)
	RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*Profile, error)
	AddEducation(ctx context.Context, userID bson.ObjectID, edu Education) (*Profile, error)
	RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*Profile, error)
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}

// UsersRepo is the slice of the users repository the profiles service needs:
// owner resolution for responses and the final step of the account cascade.
type UsersRepo interface {
	FindByID(ctx context.Context, id bson.ObjectID) (*auth.User, error)
	FindManyByID(ctx context.Context, ids []bson.ObjectID) ([]*auth.User, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

// PostsRepo is the slice of the posts repository the account cascade needs.
type PostsRepo interface {
	DeleteByAuthor(ctx context.Context, authorID bson.ObjectID) error
}
