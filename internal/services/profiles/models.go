package profiles

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Social holds a profile's social-network links. Every field is optional.
type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

// Experience is an embedded work-history entry. The ID is a ULID unique
// within the parent profile.
type Experience struct {
	ID          string `bson:"_id" json:"id" example:"01HZXW9V7NXEJB7T2Q5K3F8RGD"`
	Title       string `bson:"title" json:"title" example:"Senior Developer"`
	Company     string `bson:"company" json:"company" example:"Acme"`
	Location    string `bson:"location,omitempty" json:"location,omitempty" example:"Berlin"`
	From        string `bson:"from" json:"from" example:"2020-01-01"`
	To          string `bson:"to,omitempty" json:"to,omitempty" example:"2023-06-30"`
	Current     bool   `bson:"current" json:"current"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Education is an embedded education entry, same identifier scheme as Experience.
type Education struct {
	ID           string `bson:"_id" json:"id" example:"01HZXW9V7NXEJB7T2Q5K3F8RGE"`
	School       string `bson:"school" json:"school" example:"MIT"`
	Degree       string `bson:"degree" json:"degree" example:"BSc"`
	FieldOfStudy string `bson:"field_of_study" json:"field_of_study" example:"Computer Science"`
	From         string `bson:"from" json:"from" example:"2014-09-01"`
	To           string `bson:"to,omitempty" json:"to,omitempty" example:"2018-06-30"`
	Current      bool   `bson:"current" json:"current"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
}

// Profile is the one-per-user developer profile aggregate.
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	UserID         bson.ObjectID `bson:"user_id" json:"user_id" example:"683cdb8aa96ad71e8e075bd0"`
	Status         string        `bson:"status" json:"status" example:"Developer"`
	Skills         []string      `bson:"skills" json:"skills" example:"js,go"`
	Company        string        `bson:"company,omitempty" json:"company,omitempty"`
	Website        string        `bson:"website,omitempty" json:"website,omitempty"`
	Location       string        `bson:"location,omitempty" json:"location,omitempty"`
	Bio            string        `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string        `bson:"github_username,omitempty" json:"github_username,omitempty"`
	Social         Social        `bson:"social,omitempty" json:"social,omitempty"`
	Experience     []Experience  `bson:"experience" json:"experience"`
	Education      []Education   `bson:"education" json:"education"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

// Patch lists the profile fields a create-or-update call may touch.
// Nil pointers are left untouched in the stored document (sparse merge).
type Patch struct {
	Status         *string
	Skills         *[]string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	GithubUsername *string
	Social         *Social
}

// Owner is the denormalized user summary attached to profile responses,
// mirroring what the stored user looks like at read time.
type Owner struct {
	ID     bson.ObjectID `json:"id"`
	Name   string        `json:"name"`
	Avatar string        `json:"avatar"`
}

// ProfileResponse pairs a profile with its owner summary.
type ProfileResponse struct {
	Profile *Profile `json:"profile"`
	Owner   *Owner   `json:"owner,omitempty"`
}
