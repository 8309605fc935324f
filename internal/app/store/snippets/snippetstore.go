package snippetstore

import (
	"context"
	"errors"
	"time"

	"github.com/hustler3848/devbook/internal/app/system/htmlsanitize"
	"github.com/hustler3848/devbook/internal/app/system/normalize"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("snippets")}
}

var (
	// ErrMissingOwner is returned when Add is called without an owner id.
	ErrMissingOwner = errors.New("snippet owner id is required")
	// ErrMissingID is returned when an operation is called with a zero snippet id.
	ErrMissingID = errors.New("snippet id is required")

	errMissingTitle = errors.New("snippet title is required")
	errMissingCode  = errors.New("snippet code is required")
)

// AddInput holds the caller-supplied fields for a new snippet.
type AddInput struct {
	Title       string
	Description string
	Code        string
	Language    string
	Tags        []string
	IsPublic    bool
}

// Add reads the owner's profile to populate the denormalized author fields
// and inserts the snippet with zeroed counters and fresh timestamps.
func (s *Store) Add(ctx context.Context, ownerID primitive.ObjectID, in AddInput) (models.Snippet, error) {
	if ownerID.IsZero() {
		return models.Snippet{}, ErrMissingOwner
	}

	title := htmlsanitize.StripTags(in.Title)
	if title == "" {
		return models.Snippet{}, errMissingTitle
	}
	if in.Code == "" {
		return models.Snippet{}, errMissingCode
	}

	var owner models.User
	if err := s.db.Collection("users").FindOne(ctx, bson.M{"_id": ownerID}).Decode(&owner); err != nil {
		return models.Snippet{}, err
	}

	now := time.Now().UTC()
	sn := models.Snippet{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: htmlsanitize.Sanitize(in.Description),
		Code:        in.Code,
		Language:    normalize.Tag(in.Language),
		Tags:        normalize.Tags(in.Tags),

		CreatorID:      ownerID,
		AuthorName:     owner.FullName,
		AuthorUsername: owner.Username,
		AuthorAvatar:   owner.AvatarURL,

		IsPublic:  in.IsPublic,
		StarCount: 0,
		SaveCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, sn); err != nil {
		return models.Snippet{}, err
	}
	return sn, nil
}

// UpdatePatch holds the mutable snippet fields. Nil fields are left unchanged.
type UpdatePatch struct {
	Title       *string
	Description *string
	Code        *string
	Language    *string
	Tags        []string
	IsPublic    *bool
}

// Update applies a partial update and refreshes updated_at.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p UpdatePatch) error {
	if id.IsZero() {
		return ErrMissingID
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		title := htmlsanitize.StripTags(*p.Title)
		if title == "" {
			return errMissingTitle
		}
		set["title"] = title
	}
	if p.Description != nil {
		set["description"] = htmlsanitize.Sanitize(*p.Description)
	}
	if p.Code != nil {
		if *p.Code == "" {
			return errMissingCode
		}
		set["code"] = *p.Code
	}
	if p.Language != nil {
		set["language"] = normalize.Tag(*p.Language)
	}
	if p.Tags != nil {
		set["tags"] = normalize.Tags(p.Tags)
	}
	if p.IsPublic != nil {
		set["is_public"] = *p.IsPublic
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the snippet unconditionally. Ledger entries referencing the
// snippet are not cleaned up; hydration drops them on read.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return ErrMissingID
	}
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetByID loads a snippet by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Snippet, error) {
	var sn models.Snippet
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sn); err != nil {
		return nil, err
	}
	return &sn, nil
}

// ListByOwner returns all of a user's snippets, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Snippet, error) {
	return s.list(ctx, bson.M{"creator_id": ownerID})
}

// ListPublicByOwner returns a user's public snippets, newest first. Used for
// profile pages viewed by others.
func (s *Store) ListPublicByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Snippet, error) {
	return s.list(ctx, bson.M{"creator_id": ownerID, "is_public": true})
}

// ListPublic returns the public feed, newest first.
func (s *Store) ListPublic(ctx context.Context) ([]models.Snippet, error) {
	return s.list(ctx, bson.M{"is_public": true})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Snippet, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Snippet
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
