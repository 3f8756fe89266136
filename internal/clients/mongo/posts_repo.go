package mongo

import (
	"context"
	"errors"
	"fmt"

	"devlink/internal/logger"
	"devlink/internal/services/posts"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostsRepo implements the posts.Repository interface for MongoDB.
// Like and comment writes are conditional single-document updates; the
// condition failing is disambiguated with a follow-up existence check.
type PostsRepo struct {
	collection *mongo.Collection
}

// NewPostsRepo creates a new posts repository
func NewPostsRepo(parentCtx context.Context, db *mongo.Database) (*PostsRepo, error) {
	collection := db.Collection("posts")

	indexes := []mongo.IndexModel{
		// Feed ordering, newest first
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
		// Author lookups for the account-deletion cascade
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	for _, indexModel := range indexes {
		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", "posts")
			} else {
				logger.L().Error("failed to create index", "collection", "posts", "error", err)
				return nil, fmt.Errorf("failed to create posts collection index: %w", err)
			}
		}
	}

	return &PostsRepo{
		collection: collection,
	}, nil
}

// Create creates a new post in the database
func (r *PostsRepo) Create(ctx context.Context, post *posts.Post) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// FindByID returns a single post by id
func (r *PostsRepo) FindByID(ctx context.Context, postID bson.ObjectID) (*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var p posts.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}).Decode(&p)
	if err != nil {
		return nil, translatePostNotFound(err)
	}

	return &p, nil
}

// List returns every post, newest first
func (r *PostsRepo) List(ctx context.Context) ([]*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var all []*posts.Post
	if err := cursor.All(ctx, &all); err != nil {
		return nil, err
	}

	return all, nil
}

// Delete removes a post by id
func (r *PostsRepo) Delete(ctx context.Context, postID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return posts.ErrPostNotFound
	}

	return nil
}

// DeleteByAuthor removes every post written by authorID. Deleting zero
// posts is not an error; the author may simply never have posted.
func (r *PostsRepo) DeleteByAuthor(ctx context.Context, authorID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"user": authorID})
	return err
}

// AddLike appends a like only when userID is absent from the likes sequence.
func (r *PostsRepo) AddLike(ctx context.Context, postID, userID bson.ObjectID) (*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":        postID,
		"likes.user": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{
			"likes": bson.M{
				"$each":     bson.A{posts.Like{User: userID}},
				"$position": 0,
			},
		},
	}

	p, err := r.findOneAndUpdate(ctx, filter, update)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: the post is gone or the user already liked it.
	if _, findErr := r.FindByID(ctx, postID); findErr != nil {
		return nil, findErr
	}
	return nil, posts.ErrAlreadyLiked
}

// RemoveLike removes userID's like only when it is present.
func (r *PostsRepo) RemoveLike(ctx context.Context, postID, userID bson.ObjectID) (*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":        postID,
		"likes.user": userID,
	}
	update := bson.M{
		"$pull": bson.M{"likes": bson.M{"user": userID}},
	}

	p, err := r.findOneAndUpdate(ctx, filter, update)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if _, findErr := r.FindByID(ctx, postID); findErr != nil {
		return nil, findErr
	}
	return nil, posts.ErrNotLiked
}

// AddComment prepends the comment to the post's comments sequence.
func (r *PostsRepo) AddComment(ctx context.Context, postID bson.ObjectID, c posts.Comment) (*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{
			"comments": bson.M{
				"$each":     bson.A{c},
				"$position": 0,
			},
		},
	}

	p, err := r.findOneAndUpdate(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		return nil, translatePostNotFound(err)
	}

	return p, nil
}

// RemoveComment removes one comment by id only when it is present.
func (r *PostsRepo) RemoveComment(ctx context.Context, postID bson.ObjectID, commentID string) (*posts.Post, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"_id":          postID,
		"comments._id": commentID,
	}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
	}

	p, err := r.findOneAndUpdate(ctx, filter, update)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if _, findErr := r.FindByID(ctx, postID); findErr != nil {
		return nil, findErr
	}
	return nil, posts.ErrCommentNotFound
}

func (r *PostsRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*posts.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p posts.Post
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// translatePostNotFound maps the driver ErrNoDocuments to the domain-level ErrPostNotFound.
func translatePostNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return posts.ErrPostNotFound
	}
	return err
}
