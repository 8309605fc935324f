// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. CreateMany is idempotent for identical index
specs, so re-running on every boot is safe. Errors are aggregated so any
problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureSnippets(ctx, db); err != nil {
		problems = append(problems, "snippets: "+err.Error())
	}
	if err := ensureLedger(ctx, db, "starred_snippets"); err != nil {
		problems = append(problems, "starred_snippets: "+err.Error())
	}
	if err := ensureLedger(ctx, db, "saved_snippets"); err != nil {
		problems = append(problems, "saved_snippets: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("uniq_username_ci").SetUnique(true),
		},
		{
			// Sparse: Google-only accounts may lack an email.
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("uniq_email_ci").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetName("google_id").SetSparse(true),
		},
	})
	return err
}

func ensureSnippets(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("snippets").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// listByOwner: all of a creator's snippets, newest first.
			Keys:    bson.D{{Key: "creator_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("creator_created"),
		},
		{
			// listPublic: the public feed, newest first.
			Keys:    bson.D{{Key: "is_public", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("public_created"),
		},
	})
	return err
}

// ensureLedger covers both interaction ledgers; they share a shape.
func ensureLedger(ctx context.Context, db *mongo.Database, coll string) error {
	_, err := db.Collection(coll).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// One entry per (user, snippet); presence of the entry is the relation.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "snippet_id", Value: 1}},
			Options: options.Index().SetName("uniq_user_snippet").SetUnique(true),
		},
		{
			// Ledger walk ordered by relation time, newest first.
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
	})
	return err
}
