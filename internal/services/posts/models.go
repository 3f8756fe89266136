package posts

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Like records that a user endorsed a post. A user appears at most once
// in a post's likes sequence.
type Like struct {
	User bson.ObjectID `bson:"user" json:"user" example:"683cdb8aa96ad71e8e075bd0"`
}

// Comment is a reply embedded in a post. Name and Avatar are snapshots of
// the author at the time of writing.
type Comment struct {
	ID        string        `bson:"_id" json:"id" example:"01JWGXBC8ZWX2V9PM1R9QD4T7S"`
	UserID    bson.ObjectID `bson:"user" json:"user" example:"683cdb8aa96ad71e8e075bd0"`
	Text      string        `bson:"text" json:"text" validate:"required" example:"Great writeup!"`
	Name      string        `bson:"name" json:"name" example:"Alice"`
	Avatar    string        `bson:"avatar" json:"avatar" example:"https://www.gravatar.com/avatar/abc?s=200&r=pg&d=mm"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// Post is a feed entry. UserID is the author; Name and Avatar are
// author snapshots taken at creation and never updated afterwards.
type Post struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id,omitempty" example:"683cdb8aa96ad71e8e075bd1"`
	UserID    bson.ObjectID `bson:"user" json:"user" example:"683cdb8aa96ad71e8e075bd0"`
	Text      string        `bson:"text" json:"text" validate:"required" example:"Shipped v2 today"`
	Name      string        `bson:"name" json:"name" example:"Alice"`
	Avatar    string        `bson:"avatar" json:"avatar" example:"https://www.gravatar.com/avatar/abc?s=200&r=pg&d=mm"`
	Likes     []Like        `bson:"likes" json:"likes"`
	Comments  []Comment     `bson:"comments" json:"comments"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at" example:"2025-06-01T23:00:26.005703677Z"`
}

// PostEvent represents an event that occurred on a post
type PostEvent struct {
	Type string `json:"type"` // "created", "deleted", "liked", "unliked", "commented", "uncommented"
	Post *Post  `json:"post"`
}
