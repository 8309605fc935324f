// internal/domain/models/snippet.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snippet is a shared code snippet document.
//
// AuthorName/AuthorUsername/AuthorAvatar are denormalized copies of the
// creator's profile fields, written at snippet creation and rewritten in bulk
// when the creator edits their profile. StarCount/SaveCount are maintained by
// the interaction store with conditional atomic updates, so they stay
// non-negative and equal to the number of ledger entries referencing the
// snippet.
type Snippet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Code        string             `bson:"code" json:"code"`
	Language    string             `bson:"language,omitempty" json:"language,omitempty"`
	Tags        []string           `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatorID      primitive.ObjectID `bson:"creator_id" json:"creatorId"`
	AuthorName     string             `bson:"author_name" json:"authorName"`
	AuthorUsername string             `bson:"author_username" json:"authorUsername"`
	AuthorAvatar   string             `bson:"author_avatar,omitempty" json:"authorAvatar,omitempty"`

	IsPublic  bool  `bson:"is_public" json:"isPublic"`
	StarCount int64 `bson:"star_count" json:"starCount"`
	SaveCount int64 `bson:"save_count" json:"saveCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`

	// Viewer annotations. nil means "not evaluated" (e.g. anonymous viewer),
	// which is distinct from false. Never persisted.
	IsStarred *bool `bson:"-" json:"isStarred,omitempty"`
	IsSaved   *bool `bson:"-" json:"isSaved,omitempty"`
}
