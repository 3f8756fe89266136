package profiles

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"devlink/internal/services/auth"
	"devlink/internal/utils/sanitize"

	"github.com/oklog/ulid/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Service handles profile business logic
type Service struct {
	repo  Repository
	users UsersRepo
	posts PostsRepo
	log   *slog.Logger
}

// NewService creates a new profiles service
func NewService(repo Repository, users UsersRepo, posts PostsRepo, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		posts: posts,
		log:   log,
	}
}

// UpsertProfileRequest represents a create-or-update profile request.
// Skills is a comma-separated list ("js,go"). Empty optional fields are
// left untouched in an existing profile.
type UpsertProfileRequest struct {
	Status         string `json:"status" validate:"required" example:"Developer"`
	Skills         string `json:"skills" validate:"required" example:"js,go"`
	Company        string `json:"company" example:"Acme"`
	Website        string `json:"website" validate:"omitempty,url" example:"https://alice.dev"`
	Location       string `json:"location" example:"Berlin"`
	Bio            string `json:"bio" example:"Polyglot backend developer"`
	GithubUsername string `json:"github_username" example:"alice"`
	Youtube        string `json:"youtube" validate:"omitempty,url"`
	Twitter        string `json:"twitter" validate:"omitempty,url"`
	Facebook       string `json:"facebook" validate:"omitempty,url"`
	Linkedin       string `json:"linkedin" validate:"omitempty,url"`
	Instagram      string `json:"instagram" validate:"omitempty,url"`
}

// AddExperienceRequest represents a new work-history entry
type AddExperienceRequest struct {
	Title       string `json:"title" validate:"required" example:"Senior Developer"`
	Company     string `json:"company" validate:"required" example:"Acme"`
	Location    string `json:"location" example:"Berlin"`
	From        string `json:"from" validate:"required" example:"2020-01-01"`
	To          string `json:"to" example:"2023-06-30"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// AddEducationRequest represents a new education entry
type AddEducationRequest struct {
	School       string `json:"school" validate:"required" example:"MIT"`
	Degree       string `json:"degree" validate:"required" example:"BSc"`
	FieldOfStudy string `json:"field_of_study" validate:"required" example:"Computer Science"`
	From         string `json:"from" validate:"required" example:"2014-09-01"`
	To           string `json:"to" example:"2018-06-30"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Me returns the caller's own profile
func (s *Service) Me(ctx context.Context, userID bson.ObjectID) (*ProfileResponse, error) {
	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.log.Error(ErrListProfiles.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListProfiles
	}
	return s.withOwner(ctx, profile), nil
}

// Upsert creates the caller's profile on first call, updates it afterwards.
// Only fields present in the request change; stored values survive omission.
func (s *Service) Upsert(ctx context.Context, userID bson.ObjectID, req UpsertProfileRequest) (*ProfileResponse, error) {
	patch := buildPatch(req)

	profile, err := s.repo.Upsert(ctx, userID, patch)
	if err != nil {
		s.log.Error(ErrUpsertProfile.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrUpsertProfile
	}
	return s.withOwner(ctx, profile), nil
}

// List returns every profile with its owner summary
func (s *Service) List(ctx context.Context) ([]*ProfileResponse, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error(ErrListProfiles.Error(), "error", err)
		return nil, ErrListProfiles
	}

	owners, err := s.resolveOwners(ctx, all)
	if err != nil {
		s.log.Error(ErrListProfiles.Error(), "error", err)
		return nil, ErrListProfiles
	}

	out := make([]*ProfileResponse, 0, len(all))
	for _, p := range all {
		out = append(out, &ProfileResponse{Profile: p, Owner: owners[p.UserID]})
	}
	return out, nil
}

// ByUser returns the profile owned by the given user id
func (s *Service) ByUser(ctx context.Context, userID bson.ObjectID) (*ProfileResponse, error) {
	profile, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		s.log.Error(ErrListProfiles.Error(), "error", err, "user_id", userID.Hex())
		return nil, ErrListProfiles
	}
	return s.withOwner(ctx, profile), nil
}

// AddExperience prepends a work-history entry to the caller's profile
func (s *Service) AddExperience(ctx context.Context, userID bson.ObjectID, req AddExperienceRequest) (*ProfileResponse, error) {
	exp := Experience{
		ID:          ulid.Make().String(),
		Title:       sanitize.Clean(req.Title),
		Company:     sanitize.Clean(req.Company),
		Location:    sanitize.Clean(req.Location),
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: sanitize.Clean(req.Description),
	}

	profile, err := s.repo.AddExperience(ctx, userID, exp)
	if err != nil {
		return nil, s.mutationError(err, userID, "add experience")
	}
	return s.withOwner(ctx, profile), nil
}

// RemoveExperience removes exactly one work-history entry by id
func (s *Service) RemoveExperience(ctx context.Context, userID bson.ObjectID, expID string) (*ProfileResponse, error) {
	profile, err := s.repo.RemoveExperience(ctx, userID, expID)
	if err != nil {
		return nil, s.mutationError(err, userID, "remove experience")
	}
	return s.withOwner(ctx, profile), nil
}

// AddEducation prepends an education entry to the caller's profile
func (s *Service) AddEducation(ctx context.Context, userID bson.ObjectID, req AddEducationRequest) (*ProfileResponse, error) {
	edu := Education{
		ID:           ulid.Make().String(),
		School:       sanitize.Clean(req.School),
		Degree:       sanitize.Clean(req.Degree),
		FieldOfStudy: sanitize.Clean(req.FieldOfStudy),
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  sanitize.Clean(req.Description),
	}

	profile, err := s.repo.AddEducation(ctx, userID, edu)
	if err != nil {
		return nil, s.mutationError(err, userID, "add education")
	}
	return s.withOwner(ctx, profile), nil
}

// RemoveEducation removes exactly one education entry by id
func (s *Service) RemoveEducation(ctx context.Context, userID bson.ObjectID, eduID string) (*ProfileResponse, error) {
	profile, err := s.repo.RemoveEducation(ctx, userID, eduID)
	if err != nil {
		return nil, s.mutationError(err, userID, "remove education")
	}
	return s.withOwner(ctx, profile), nil
}

// DeleteAccount cascades: the user's posts, then the profile, then the user.
// A mid-cascade failure stops the cascade; no rollback.
func (s *Service) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	if err := s.posts.DeleteByAuthor(ctx, userID); err != nil {
		s.log.Error("cascade: failed to delete posts", "error", err, "user_id", userID.Hex())
		return ErrDeleteAccount
	}
	if err := s.repo.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, ErrProfileNotFound) {
		s.log.Error("cascade: failed to delete profile", "error", err, "user_id", userID.Hex())
		return ErrDeleteAccount
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error("cascade: failed to delete user", "error", err, "user_id", userID.Hex())
		return ErrDeleteAccount
	}
	return nil
}

// mutationError maps repository failures from embedded-sequence writes.
func (s *Service) mutationError(err error, userID bson.ObjectID, op string) error {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return ErrProfileNotFound
	case errors.Is(err, ErrEntryNotFound):
		return ErrEntryNotFound
	default:
		s.log.Error(ErrMutateProfile.Error(), "op", op, "error", err, "user_id", userID.Hex())
		return ErrMutateProfile
	}
}

// withOwner attaches the owner summary; responses degrade gracefully when
// the owning user cannot be resolved.
func (s *Service) withOwner(ctx context.Context, profile *Profile) *ProfileResponse {
	resp := &ProfileResponse{Profile: profile}
	user, err := s.users.FindByID(ctx, profile.UserID)
	if err != nil {
		s.log.Warn("profile owner lookup failed", "user_id", profile.UserID.Hex(), "error", err)
		return resp
	}
	resp.Owner = ownerOf(user)
	return resp
}

// resolveOwners bulk-fetches owners for a profile listing in one query.
func (s *Service) resolveOwners(ctx context.Context, all []*Profile) (map[bson.ObjectID]*Owner, error) {
	ids := make([]bson.ObjectID, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.UserID)
	}

	users, err := s.users.FindManyByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	owners := make(map[bson.ObjectID]*Owner, len(users))
	for _, u := range users {
		owners[u.ID] = ownerOf(u)
	}
	return owners, nil
}

func ownerOf(u *auth.User) *Owner {
	return &Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// buildPatch translates the request into a sparse patch: only fields the
// caller actually supplied make it into the stored document.
func buildPatch(req UpsertProfileRequest) Patch {
	patch := Patch{}

	status := sanitize.Clean(req.Status)
	patch.Status = &status

	skills := splitSkills(req.Skills)
	patch.Skills = &skills

	if req.Company != "" {
		v := sanitize.Clean(req.Company)
		patch.Company = &v
	}
	if req.Website != "" {
		v := req.Website
		patch.Website = &v
	}
	if req.Location != "" {
		v := sanitize.Clean(req.Location)
		patch.Location = &v
	}
	if req.Bio != "" {
		v := sanitize.Clean(req.Bio)
		patch.Bio = &v
	}
	if req.GithubUsername != "" {
		v := strings.TrimSpace(req.GithubUsername)
		patch.GithubUsername = &v
	}

	social := Social{
		Youtube:   req.Youtube,
		Twitter:   req.Twitter,
		Facebook:  req.Facebook,
		Linkedin:  req.Linkedin,
		Instagram: req.Instagram,
	}
	if social != (Social{}) {
		patch.Social = &social
	}

	return patch
}

// splitSkills turns "js, go ,sql" into ["js","go","sql"].
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
