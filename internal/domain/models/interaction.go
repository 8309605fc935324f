// internal/domain/models/interaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionEntry is a ledger document recording that a user starred or
// saved a snippet. Entries live in the starred_snippets and saved_snippets
// collections, one entry per (user, snippet, relation); presence of the entry
// is the relation. Entries are owned by the acting user and are not cleaned
// up when the snippet is deleted — hydration tolerates the orphans.
type InteractionEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	SnippetID primitive.ObjectID `bson:"snippet_id" json:"snippetId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"` // relation timestamp
}
