// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialLinks holds the optional links a user can show on their profile page.
type SocialLinks struct {
	GitHub   string `bson:"github,omitempty" json:"github,omitempty"`
	Twitter  string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Website  string `bson:"website,omitempty" json:"website,omitempty"`
	LinkedIn string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
}

// User is a DevBook profile document.
//
// NOTE:
//   - Username is unique across all profiles; uniqueness is enforced by a
//     unique index on username_ci (lowercase, diacritics-stripped).
//   - Snippets carry denormalized copies of FullName/Username/AvatarURL;
//     profile edits propagate them via the user store's UpdateProfile batch.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"fullName"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"` // lowercase, diacritics-stripped
	Email      *string            `bson:"email,omitempty" json:"email,omitempty"`
	EmailCI    *string            `bson:"email_ci,omitempty" json:"-"`
	AuthMethod string             `bson:"auth_method,omitempty" json:"authMethod,omitempty"` // password | google
	GoogleID   string             `bson:"google_id,omitempty" json:"-"`

	PasswordHash *string `bson:"password_hash,omitempty" json:"-"`

	AvatarURL string      `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Bio       string      `bson:"bio,omitempty" json:"bio,omitempty"`
	Links     SocialLinks `bson:"links,omitempty" json:"links"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// UserStats are derived counts shown on a profile page. They are computed at
// read time from the snippets collection and the interaction ledgers, never
// stored on the user document.
type UserStats struct {
	SnippetCount int64 `json:"snippetCount"`
	StarredCount int64 `json:"starredCount"`
	SavedCount   int64 `json:"savedCount"`
}
