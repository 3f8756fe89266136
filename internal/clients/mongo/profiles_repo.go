package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devlink/internal/logger"
	"devlink/internal/services/profiles"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ProfilesRepo implements the profiles.Repository interface for MongoDB.
// Every write is a single conditional document update so concurrent
// mutations of the same profile cannot lose embedded entries.
type ProfilesRepo struct {
	collection *mongo.Collection
}

// NewProfilesRepo creates a new profiles repository
func NewProfilesRepo(parentCtx context.Context, db *mongo.Database) (*ProfilesRepo, error) {
	collection := db.Collection("profiles")

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(parentCtx, OpTimeout)
	defer cancel()

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.L().Debug("index already exists, continuing", "collection", "profiles")
		} else {
			logger.L().Error("failed to create index", "collection", "profiles", "error", err)
			return nil, fmt.Errorf("failed to create profiles collection index: %w", err)
		}
	}

	return &ProfilesRepo{
		collection: collection,
	}, nil
}

// FindByUser returns the profile owned by userID
func (r *ProfilesRepo) FindByUser(ctx context.Context, userID bson.ObjectID) (*profiles.Profile, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	var p profiles.Profile
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err != nil {
		return nil, translateProfileNotFound(err)
	}

	return &p, nil
}

// FindAll returns every profile
func (r *ProfilesRepo) FindAll(ctx context.Context) ([]*profiles.Profile, error) {
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

	var all []*profiles.Profile
	if err := cursor.All(ctx, &all); err != nil {
		return nil, err
	}

	return all, nil
}

// Upsert creates the profile on first write and merges the patch afterwards.
// Only fields present in the patch are written; the embedded sequences are
// initialized empty on insert and never touched here.
func (r *ProfilesRepo) Upsert(ctx context.Context, userID bson.ObjectID, patch profiles.Patch) (*profiles.Profile, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	set := patchToSet(patch)
	set["updated_at"] = time.Now()

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"experience": []profiles.Experience{},
			"education":  []profiles.Education{},
			"created_at": time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var p profiles.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&p)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// AddExperience prepends the entry to the profile's experience sequence
func (r *ProfilesRepo) AddExperience(ctx context.Context, userID bson.ObjectID, exp profiles.Experience) (*profiles.Profile, error) {
	return r.pushEntry(ctx, userID, "experience", exp)
}

// RemoveExperience removes one experience entry by id
func (r *ProfilesRepo) RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*profiles.Profile, error) {
	return r.pullEntry(ctx, userID, "experience", expID)
}

// AddEducation prepends the entry to the profile's education sequence
func (r *ProfilesRepo) AddEducation(ctx context.Context, userID bson.ObjectID, edu profiles.Education) (*profiles.Profile, error) {
	return r.pushEntry(ctx, userID, "education", edu)
}

// RemoveEducation removes one education entry by id
func (r *ProfilesRepo) RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*profiles.Profile, error) {
	return r.pullEntry(ctx, userID, "education", eduID)
}

// DeleteByUser removes the profile owned by userID
func (r *ProfilesRepo) DeleteByUser(ctx context.Context, userID bson.ObjectID) error {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return profiles.ErrProfileNotFound
	}

	return nil
}

// pushEntry prepends an embedded entry in one conditional update.
func (r *ProfilesRepo) pushEntry(ctx context.Context, userID bson.ObjectID, field string, entry any) (*profiles.Profile, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	update := bson.M{
		"$push": bson.M{
			field: bson.M{
				"$each":     bson.A{entry},
				"$position": 0,
			},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p profiles.Profile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&p)
	if err != nil {
		return nil, translateProfileNotFound(err)
	}

	return &p, nil
}

// pullEntry removes an embedded entry by id in one conditional update.
// The filter requires the entry to be present, so a no-match outcome is
// disambiguated with a follow-up existence check.
func (r *ProfilesRepo) pullEntry(ctx context.Context, userID bson.ObjectID, field string, entryID string) (*profiles.Profile, error) {
	ctx, cancel := repoCtx(ctx)
	defer cancel()

	filter := bson.M{
		"user_id":      userID,
		field + "._id": entryID,
	}
	update := bson.M{
		"$pull": bson.M{field: bson.M{"_id": entryID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p profiles.Profile
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: either the profile is gone or the entry id is.
	if _, findErr := r.FindByUser(ctx, userID); findErr != nil {
		return nil, findErr
	}
	return nil, profiles.ErrEntryNotFound
}

// patchToSet turns the sparse patch into a $set document.
func patchToSet(patch profiles.Patch) bson.M {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Skills != nil {
		set["skills"] = *patch.Skills
	}
	if patch.Company != nil {
		set["company"] = *patch.Company
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.GithubUsername != nil {
		set["github_username"] = *patch.GithubUsername
	}
	if patch.Social != nil {
		set["social"] = *patch.Social
	}
	return set
}

// translateProfileNotFound maps the driver ErrNoDocuments to the domain-level ErrProfileNotFound.
func translateProfileNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return profiles.ErrProfileNotFound
	}
	return err
}
