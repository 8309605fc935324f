package interactionstore_test

import (
	"errors"
	"testing"

	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	"github.com/hustler3848/devbook/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStarUnstar_NetState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "starrable")

	if err := store.Star(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	star, _ := f.SnippetCounts(ctx, sn.ID)
	if star != 1 {
		t.Errorf("star_count = %d after star, want 1", star)
	}

	if err := store.Unstar(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Unstar failed: %v", err)
	}
	star, _ = f.SnippetCounts(ctx, sn.ID)
	if star != 0 {
		t.Errorf("star_count = %d after unstar, want 0", star)
	}

	n, err := db.Collection(interactionstore.CollStarred).CountDocuments(ctx, bson.M{"user_id": alice.ID})
	if err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if n != 0 {
		t.Errorf("ledger entries = %d after unstar, want 0", n)
	}
}

func TestStar_RepeatIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	sn := f.CreateSnippet(ctx, alice, "starrable")

	for i := 0; i < 3; i++ {
		if err := store.Star(ctx, alice.ID, sn.ID); err != nil {
			t.Fatalf("Star #%d failed: %v", i+1, err)
		}
	}

	star, _ := f.SnippetCounts(ctx, sn.ID)
	if star != 1 {
		t.Errorf("star_count = %d after repeated stars, want 1", star)
	}
	n, err := db.Collection(interactionstore.CollStarred).CountDocuments(ctx, bson.M{"user_id": alice.ID, "snippet_id": sn.ID})
	if err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if n != 1 {
		t.Errorf("ledger entries = %d, want 1", n)
	}
}

func TestUnstar_NeverNegative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	sn := f.CreateSnippet(ctx, alice, "starrable")

	// Unstar without a prior star: no entry to delete, counter untouched.
	if err := store.Unstar(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Unstar failed: %v", err)
	}
	star, _ := f.SnippetCounts(ctx, sn.ID)
	if star != 0 {
		t.Errorf("star_count = %d, want 0", star)
	}

	// Star, then unstar twice: the second delete matches nothing.
	if err := store.Star(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.Unstar(ctx, alice.ID, sn.ID); err != nil {
			t.Fatalf("Unstar #%d failed: %v", i+1, err)
		}
	}
	star, _ = f.SnippetCounts(ctx, sn.ID)
	if star != 0 {
		t.Errorf("star_count = %d after double unstar, want 0", star)
	}
}

func TestSaveUnsave_IndependentOfStar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	sn := f.CreateSnippet(ctx, alice, "both")

	if err := store.Star(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if err := store.Save(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	star, save := f.SnippetCounts(ctx, sn.ID)
	if star != 1 || save != 1 {
		t.Errorf("counters = %d/%d, want 1/1", star, save)
	}

	if err := store.Unsave(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Unsave failed: %v", err)
	}
	star, save = f.SnippetCounts(ctx, sn.ID)
	if star != 1 || save != 0 {
		t.Errorf("counters = %d/%d after unsave, want 1/0", star, save)
	}
}

func TestStar_ValidatesIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Star(ctx, primitive.NilObjectID, primitive.NewObjectID()); !errors.Is(err, interactionstore.ErrMissingUser) {
		t.Errorf("err = %v, want ErrMissingUser", err)
	}
	if err := store.Star(ctx, primitive.NewObjectID(), primitive.NilObjectID); !errors.Is(err, interactionstore.ErrMissingSnippet) {
		t.Errorf("err = %v, want ErrMissingSnippet", err)
	}
}

func TestGetInteractionStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := interactionstore.New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	s1 := f.CreateSnippet(ctx, bob, "starred one")
	s2 := f.CreateSnippet(ctx, bob, "saved one")
	s3 := f.CreateSnippet(ctx, bob, "untouched")

	if err := store.Star(ctx, alice.ID, s1.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if err := store.Save(ctx, alice.ID, s2.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// Bob's activity must not bleed into Alice's status.
	if err := store.Star(ctx, bob.ID, s3.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}

	st, err := store.GetInteractionStatus(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetInteractionStatus failed: %v", err)
	}
	if !st.IsStarred(s1.ID) || st.IsSaved(s1.ID) {
		t.Errorf("s1 status = starred:%v saved:%v, want starred only", st.IsStarred(s1.ID), st.IsSaved(s1.ID))
	}
	if st.IsStarred(s2.ID) || !st.IsSaved(s2.ID) {
		t.Errorf("s2 status = starred:%v saved:%v, want saved only", st.IsStarred(s2.ID), st.IsSaved(s2.ID))
	}
	if st.IsStarred(s3.ID) || st.IsSaved(s3.ID) {
		t.Error("s3 should carry no status for alice")
	}
}
