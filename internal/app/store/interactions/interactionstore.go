package interactionstore

import (
	"context"
	"errors"
	"time"

	"github.com/hustler3848/devbook/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ledger collection names. One document per (user, snippet, relation);
// presence of the document is the relation.
const (
	CollStarred = "starred_snippets"
	CollSaved   = "saved_snippets"
)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

var (
	// ErrMissingUser is returned when an operation is called with a zero user id.
	ErrMissingUser = errors.New("user id is required")
	// ErrMissingSnippet is returned when an operation is called with a zero snippet id.
	ErrMissingSnippet = errors.New("snippet id is required")
)

// Star records that the user starred the snippet and bumps star_count.
// Repeating the call refreshes the relation timestamp but leaves the counter
// alone: the increment only fires when the upsert actually inserted an
// entry, so the ledger and the counter cannot drift apart.
func (s *Store) Star(ctx context.Context, userID, snippetID primitive.ObjectID) error {
	return s.relate(ctx, CollStarred, "star_count", userID, snippetID)
}

// Save records that the user saved the snippet and bumps save_count.
func (s *Store) Save(ctx context.Context, userID, snippetID primitive.ObjectID) error {
	return s.relate(ctx, CollSaved, "save_count", userID, snippetID)
}

// Unstar deletes the ledger entry and decrements star_count. The decrement
// is guarded twice: it only runs when an entry was actually deleted, and the
// counter update itself requires the current value to be positive, so
// concurrent un-relates cannot drive the counter negative.
func (s *Store) Unstar(ctx context.Context, userID, snippetID primitive.ObjectID) error {
	return s.unrelate(ctx, CollStarred, "star_count", userID, snippetID)
}

// Unsave deletes the ledger entry and decrements save_count.
func (s *Store) Unsave(ctx context.Context, userID, snippetID primitive.ObjectID) error {
	return s.unrelate(ctx, CollSaved, "save_count", userID, snippetID)
}

func (s *Store) relate(ctx context.Context, coll, counter string, userID, snippetID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrMissingUser
	}
	if snippetID.IsZero() {
		return ErrMissingSnippet
	}

	return txn.WithBatch(ctx, s.db.Client(), nil, func(ctx context.Context) error {
		res, err := s.db.Collection(coll).UpdateOne(ctx,
			bson.M{"user_id": userID, "snippet_id": snippetID},
			bson.M{"$set": bson.M{"created_at": time.Now().UTC()}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
		if res.UpsertedCount == 0 {
			// Entry already present: timestamp refreshed, counter untouched.
			return nil
		}
		_, err = s.db.Collection("snippets").UpdateOne(ctx,
			bson.M{"_id": snippetID},
			bson.M{"$inc": bson.M{counter: 1}},
		)
		return err
	})
}

func (s *Store) unrelate(ctx context.Context, coll, counter string, userID, snippetID primitive.ObjectID) error {
	if userID.IsZero() {
		return ErrMissingUser
	}
	if snippetID.IsZero() {
		return ErrMissingSnippet
	}

	return txn.WithBatch(ctx, s.db.Client(), nil, func(ctx context.Context) error {
		res, err := s.db.Collection(coll).DeleteOne(ctx,
			bson.M{"user_id": userID, "snippet_id": snippetID})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return nil
		}
		// Conditional decrement: the $gt guard keeps the counter >= 0 even
		// if it was already out of sync.
		_, err = s.db.Collection("snippets").UpdateOne(ctx,
			bson.M{"_id": snippetID, counter: bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{counter: -1}},
		)
		return err
	})
}

// Status holds the snippet-id sets of a user's ledgers, used to bulk-annotate
// a snippet list without per-snippet queries.
type Status struct {
	Starred map[primitive.ObjectID]struct{}
	Saved   map[primitive.ObjectID]struct{}
}

// IsStarred reports whether the snippet id is in the starred set.
func (st Status) IsStarred(id primitive.ObjectID) bool {
	_, ok := st.Starred[id]
	return ok
}

// IsSaved reports whether the snippet id is in the saved set.
func (st Status) IsSaved(id primitive.ObjectID) bool {
	_, ok := st.Saved[id]
	return ok
}

// GetInteractionStatus reads both ledgers fully and returns the two id sets.
func (s *Store) GetInteractionStatus(ctx context.Context, userID primitive.ObjectID) (Status, error) {
	if userID.IsZero() {
		return Status{}, ErrMissingUser
	}

	starred, err := s.idSet(ctx, CollStarred, userID)
	if err != nil {
		return Status{}, err
	}
	saved, err := s.idSet(ctx, CollSaved, userID)
	if err != nil {
		return Status{}, err
	}
	return Status{Starred: starred, Saved: saved}, nil
}

func (s *Store) idSet(ctx context.Context, coll string, userID primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	cur, err := s.db.Collection(coll).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"snippet_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	set := make(map[primitive.ObjectID]struct{})
	for cur.Next(ctx) {
		var row struct {
			SnippetID primitive.ObjectID `bson:"snippet_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		set[row.SnippetID] = struct{}{}
	}
	return set, cur.Err()
}
