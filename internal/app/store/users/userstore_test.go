package userstore_test

import (
	"errors"
	"strings"
	"testing"

	userstore "github.com/hustler3848/devbook/internal/app/store/users"
	"github.com/hustler3848/devbook/internal/domain/models"
	"github.com/hustler3848/devbook/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureProfile_CreatesWhenAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, created, err := store.EnsureProfile(ctx, userstore.Identity{
		FullName:  "Alice Doe",
		Email:     "alice@example.com",
		AvatarURL: "https://example.com/a.png",
		GoogleID:  "google-sub-1",
	})
	if err != nil {
		t.Fatalf("EnsureProfile failed: %v", err)
	}
	if !created {
		t.Error("expected a profile to be created")
	}
	if u.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if !strings.HasPrefix(u.Username, "alicedoe") {
		t.Errorf("Username = %q, want derived from display name", u.Username)
	}
	if u.Bio != "" {
		t.Errorf("Bio = %q, want empty on a fresh profile", u.Bio)
	}
	if u.AuthMethod != "google" {
		t.Errorf("AuthMethod = %q, want google", u.AuthMethod)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestEnsureProfile_NoOpWhenPresent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ident := userstore.Identity{FullName: "Alice Doe", Email: "alice@example.com", GoogleID: "google-sub-1"}

	first, created, err := store.EnsureProfile(ctx, ident)
	if err != nil || !created {
		t.Fatalf("first EnsureProfile: created=%v err=%v", created, err)
	}

	second, created, err := store.EnsureProfile(ctx, ident)
	if err != nil {
		t.Fatalf("second EnsureProfile failed: %v", err)
	}
	if created {
		t.Error("second call should be a no-op")
	}
	if second.ID != first.ID {
		t.Error("second call should return the existing profile")
	}
	if second.Username != first.Username {
		t.Errorf("username changed across calls: %q -> %q", first.Username, second.Username)
	}
}

func TestEnsureProfile_MissingName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, _, err := store.EnsureProfile(ctx, userstore.Identity{Email: "anon@example.com"})
	if err == nil {
		t.Fatal("expected error for missing display name")
	}
}

func TestUpdateProfile_RejectsOtherCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	target := f.CreateUser(ctx, "Alice Doe", "alice123")
	attacker := primitive.NewObjectID()

	bio := "hacked"
	_, err := store.UpdateProfile(ctx, attacker, target.ID, userstore.ProfilePatch{Bio: &bio})
	if !errors.Is(err, userstore.ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
}

func TestUpdateProfile_UsernameConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	f.CreateUser(ctx, "Bob Roe", "bob456")

	taken := "bob456"
	_, err := store.UpdateProfile(ctx, alice.ID, alice.ID, userstore.ProfilePatch{Username: &taken})
	if !errors.Is(err, userstore.ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestUpdateProfile_OwnUsernameNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")

	// Re-saving the caller's own current username is not a conflict.
	same := "alice123"
	updated, err := store.UpdateProfile(ctx, alice.ID, alice.ID, userstore.ProfilePatch{Username: &same})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Username != "alice123" {
		t.Errorf("Username = %q, want alice123", updated.Username)
	}
}

func TestUpdateProfile_PropagatesAuthorFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	s1 := f.CreateSnippet(ctx, alice, "first")
	s2 := f.CreatePrivateSnippet(ctx, alice, "second")
	other := f.CreateSnippet(ctx, bob, "not alices")

	newName := "Alice Q. Doe"
	newUsername := "alice_q"
	_, err := store.UpdateProfile(ctx, alice.ID, alice.ID, userstore.ProfilePatch{
		FullName: &newName,
		Username: &newUsername,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	var got models.Snippet
	for _, id := range []interface{}{s1.ID, s2.ID} {
		if err := db.Collection("snippets").FindOne(ctx, bson.M{"_id": id}).Decode(&got); err != nil {
			t.Fatalf("read snippet: %v", err)
		}
		if got.AuthorName != newName || got.AuthorUsername != newUsername {
			t.Errorf("snippet %s author = %q/%q, want %q/%q",
				got.Title, got.AuthorName, got.AuthorUsername, newName, newUsername)
		}
	}

	// Another user's snippets are untouched.
	if err := db.Collection("snippets").FindOne(ctx, bson.M{"_id": other.ID}).Decode(&got); err != nil {
		t.Fatalf("read snippet: %v", err)
	}
	if got.AuthorUsername != "bob456" {
		t.Errorf("bob's snippet author = %q, want bob456", got.AuthorUsername)
	}
}

func TestStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	f.CreateSnippet(ctx, alice, "one")
	f.CreateSnippet(ctx, alice, "two")
	target := f.CreateSnippet(ctx, bob, "bobs")

	f.AddLedgerEntry(ctx, "starred_snippets", alice.ID, target.ID, target.CreatedAt)

	st, err := store.Stats(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if st.SnippetCount != 2 {
		t.Errorf("SnippetCount = %d, want 2", st.SnippetCount)
	}
	if st.StarredCount != 1 {
		t.Errorf("StarredCount = %d, want 1", st.StarredCount)
	}
	if st.SavedCount != 0 {
		t.Errorf("SavedCount = %d, want 0", st.SavedCount)
	}
}
