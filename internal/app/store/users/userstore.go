package userstore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/hustler3848/devbook/internal/app/system/htmlsanitize"
	"github.com/hustler3848/devbook/internal/app/system/normalize"
	"github.com/hustler3848/devbook/internal/app/system/txn"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	db *mongo.Database
	c  *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{db: db, c: db.Collection("users")}
}

var (
	// ErrUsernameTaken is returned when a username already belongs to a different user.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotOwner is returned when a caller tries to update a profile that is not their own.
	ErrNotOwner = errors.New("profile can only be updated by its owner")

	errMissingName = errors.New("full name is required")
	errBadUsername = errors.New("username must be 3-30 characters of a-z, 0-9, _")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks up a user by case-insensitive username.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username_ci": normalize.UsernameCI(username)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByGoogleID looks up a federated account by its Google subject id.
func (s *Store) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"google_id": googleID}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Identity describes an account as reported by the identity provider.
type Identity struct {
	FullName  string
	Email     string
	AvatarURL string
	GoogleID  string  // set for federated sign-in
	Password  *string // bcrypt hash, set for password sign-up
}

// EnsureProfile implements create-if-absent: if a profile already exists for
// the identity (matched by Google id, then email) it is returned untouched;
// otherwise a new profile is written with a derived pseudo-unique username
// and empty bio/social links. The returned bool is true when a profile was
// created.
func (s *Store) EnsureProfile(ctx context.Context, ident Identity) (models.User, bool, error) {
	if ident.GoogleID != "" {
		if u, err := s.GetByGoogleID(ctx, ident.GoogleID); err == nil {
			return *u, false, nil
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, false, err
		}
	}
	if ident.Email != "" {
		u, err := s.GetByEmail(ctx, ident.Email)
		switch {
		case err == nil:
			// Profile exists for this email. Attach the Google id if this is
			// the first federated sign-in for a password account.
			if ident.GoogleID != "" && u.GoogleID == "" {
				_, err = s.c.UpdateOne(ctx, bson.M{"_id": u.ID},
					bson.M{"$set": bson.M{"google_id": ident.GoogleID, "updated_at": time.Now().UTC()}})
				if err != nil {
					return models.User{}, false, err
				}
				u.GoogleID = ident.GoogleID
			}
			return *u, false, nil
		case !errors.Is(err, mongo.ErrNoDocuments):
			return models.User{}, false, err
		}
	}

	u, err := s.create(ctx, ident)
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

// create inserts a new profile, deriving the username from the display name
// plus a random suffix. The unique index on username_ci backs the uniqueness
// invariant; on a collision a fresh suffix is tried.
func (s *Store) create(ctx context.Context, ident Identity) (models.User, error) {
	name := normalize.Name(ident.FullName)
	if name == "" {
		return models.User{}, errMissingName
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  name,
		AvatarURL: ident.AvatarURL,
		GoogleID:  ident.GoogleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ident.Email != "" {
		email := normalize.Email(ident.Email)
		u.Email = &email
		u.EmailCI = &email
	}
	switch {
	case ident.GoogleID != "":
		u.AuthMethod = "google"
	case ident.Password != nil:
		u.AuthMethod = "password"
		u.PasswordHash = ident.Password
	}

	base := normalize.Username(name)
	if base == "" {
		base = "dev"
	}

	for attempt := 0; attempt < 5; attempt++ {
		username, err := withRandomSuffix(base)
		if err != nil {
			return models.User{}, err
		}
		u.Username = username
		u.UsernameCI = text.Fold(username)

		_, err = s.c.InsertOne(ctx, u)
		if err == nil {
			return u, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.User{}, err
		}
		// Could be the email index as well; only the username is retryable.
		if u.EmailCI != nil {
			if _, lookErr := s.GetByEmail(ctx, *u.EmailCI); lookErr == nil {
				return models.User{}, ErrDuplicateEmail
			}
		}
	}
	return models.User{}, ErrUsernameTaken
}

// UsernameExistsForOther checks if a username already belongs to a user other
// than the given ID.
func (s *Store) UsernameExistsForOther(ctx context.Context, username string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"username_ci": normalize.UsernameCI(username),
		"_id":         bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// ProfilePatch holds the profile fields a user may edit. Nil fields are left
// unchanged.
type ProfilePatch struct {
	FullName  *string
	Username  *string
	Bio       *string
	AvatarURL *string
	Links     *models.SocialLinks
}

// UpdateProfile applies the patch to the target profile and, in the same
// batch, rewrites the denormalized author fields (name, username, avatar) on
// every snippet the user owns. Only the owner may update their profile.
//
// The identity-provider side (session display fields) is updated by the
// caller after this commits; that step is not part of the batch.
func (s *Store) UpdateProfile(ctx context.Context, actingID, targetID primitive.ObjectID, p ProfilePatch) (*models.User, error) {
	if actingID != targetID {
		return nil, ErrNotOwner
	}

	current, err := s.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	name := current.FullName
	username := current.Username
	avatar := current.AvatarURL

	if p.FullName != nil {
		name = normalize.Name(*p.FullName)
		if name == "" {
			return nil, errMissingName
		}
		set["full_name"] = name
	}
	if p.Username != nil {
		username = normalize.Username(*p.Username)
		if len(username) < 3 || len(username) > 30 {
			return nil, errBadUsername
		}
		// Uniqueness check first; a no-op re-save of the caller's own
		// username passes because the owner is excluded.
		taken, err := s.UsernameExistsForOther(ctx, username, targetID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		set["username"] = username
		set["username_ci"] = text.Fold(username)
	}
	if p.Bio != nil {
		set["bio"] = htmlsanitize.Sanitize(*p.Bio)
	}
	if p.AvatarURL != nil {
		avatar = *p.AvatarURL
		set["avatar_url"] = avatar
	}
	if p.Links != nil {
		set["links"] = *p.Links
	}

	err = txn.WithBatch(ctx, s.db.Client(), nil, func(ctx context.Context) error {
		if _, err := s.c.UpdateOne(ctx, bson.M{"_id": targetID}, bson.M{"$set": set}); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrUsernameTaken
			}
			return err
		}
		_, err := s.db.Collection("snippets").UpdateMany(ctx,
			bson.M{"creator_id": targetID},
			bson.M{"$set": bson.M{
				"author_name":     name,
				"author_username": username,
				"author_avatar":   avatar,
			}})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, targetID)
}

// Stats computes the derived profile counters from the snippets collection
// and both interaction ledgers.
func (s *Store) Stats(ctx context.Context, userID primitive.ObjectID) (models.UserStats, error) {
	var st models.UserStats
	var err error

	if st.SnippetCount, err = s.db.Collection("snippets").CountDocuments(ctx, bson.M{"creator_id": userID}); err != nil {
		return st, err
	}
	if st.StarredCount, err = s.db.Collection("starred_snippets").CountDocuments(ctx, bson.M{"user_id": userID}); err != nil {
		return st, err
	}
	if st.SavedCount, err = s.db.Collection("saved_snippets").CountDocuments(ctx, bson.M{"user_id": userID}); err != nil {
		return st, err
	}
	return st, nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}})
	return err
}

func withRandomSuffix(base string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", base, n.Int64()), nil
}
