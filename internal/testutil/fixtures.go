package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test profile with the given name and username.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, username string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		Username:   username,
		UsernameCI: text.Fold(username),
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateSnippet creates a public test snippet owned by the given user,
// copying the author fields the way the snippet store does.
func (f *Fixtures) CreateSnippet(ctx context.Context, owner models.User, title string) models.Snippet {
	f.t.Helper()
	return f.createSnippet(ctx, owner, title, true, time.Now().UTC())
}

// CreatePrivateSnippet creates a private test snippet.
func (f *Fixtures) CreatePrivateSnippet(ctx context.Context, owner models.User, title string) models.Snippet {
	f.t.Helper()
	return f.createSnippet(ctx, owner, title, false, time.Now().UTC())
}

// CreateSnippetAt creates a public test snippet with an explicit creation
// time, for tests that depend on list ordering.
func (f *Fixtures) CreateSnippetAt(ctx context.Context, owner models.User, title string, createdAt time.Time) models.Snippet {
	f.t.Helper()
	return f.createSnippet(ctx, owner, title, true, createdAt)
}

func (f *Fixtures) createSnippet(ctx context.Context, owner models.User, title string, public bool, createdAt time.Time) models.Snippet {
	f.t.Helper()

	sn := models.Snippet{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Code:           "package main\n\nfunc main() {}\n",
		Language:       "go",
		CreatorID:      owner.ID,
		AuthorName:     owner.FullName,
		AuthorUsername: owner.Username,
		AuthorAvatar:   owner.AvatarURL,
		IsPublic:       public,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if _, err := f.db.Collection("snippets").InsertOne(ctx, sn); err != nil {
		f.t.Fatalf("failed to create test snippet: %v", err)
	}
	return sn
}

// AddLedgerEntry inserts an interaction ledger entry with an explicit
// relation timestamp, bypassing the store. Used to set up ordering tests.
func (f *Fixtures) AddLedgerEntry(ctx context.Context, coll string, userID, snippetID primitive.ObjectID, at time.Time) {
	f.t.Helper()

	entry := models.InteractionEntry{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		SnippetID: snippetID,
		CreatedAt: at,
	}
	if _, err := f.db.Collection(coll).InsertOne(ctx, entry); err != nil {
		f.t.Fatalf("failed to create ledger entry: %v", err)
	}
}

// SnippetCounts reads the persisted counters for a snippet.
func (f *Fixtures) SnippetCounts(ctx context.Context, id primitive.ObjectID) (star, save int64) {
	f.t.Helper()

	var sn models.Snippet
	if err := f.db.Collection("snippets").FindOne(ctx, bson.M{"_id": id}).Decode(&sn); err != nil {
		f.t.Fatalf("failed to read snippet counters: %v", err)
	}
	return sn.StarCount, sn.SaveCount
}
