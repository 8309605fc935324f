package interactions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	interactionsfeature "github.com/hustler3848/devbook/internal/app/features/interactions"
	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	snippetstore "github.com/hustler3848/devbook/internal/app/store/snippets"
	sysauth "github.com/hustler3848/devbook/internal/app/system/auth"
	"github.com/hustler3848/devbook/internal/domain/models"
	"github.com/hustler3848/devbook/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*interactionsfeature.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := interactionsfeature.NewHandler(
		db, snippetstore.New(db), interactionstore.New(db), zap.NewNop())
	return h, db
}

func asUser(r *http.Request, u models.User) *http.Request {
	return sysauth.WithTestUser(r, &sysauth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Username: u.Username,
	})
}

func TestServeStar(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "worth starring")

	req := asUser(httptest.NewRequest("POST", "/snippets/"+sn.ID.Hex()+"/star", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeStar(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body)
	}
	star, _ := f.SnippetCounts(ctx, sn.ID)
	if star != 1 {
		t.Errorf("starCount = %d, want 1", star)
	}
}

func TestServeStar_Unauthenticated(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "public one")

	req := httptest.NewRequest("POST", "/snippets/"+sn.ID.Hex()+"/star", nil)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeStar(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeStar_MissingSnippet(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")

	req := asUser(httptest.NewRequest("POST", "/snippets/64b0000000000000000000ff/star", nil), alice)
	req = testutil.WithChiURLParam(req, "id", "64b0000000000000000000ff")
	rec := httptest.NewRecorder()
	h.ServeStar(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServeStar_PrivateSnippetOfOther(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreatePrivateSnippet(ctx, bob, "bob's secret")

	req := asUser(httptest.NewRequest("POST", "/snippets/"+sn.ID.Hex()+"/star", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeStar(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d (private snippets stay invisible)", rec.Code, http.StatusNotFound)
	}
}

func TestServeUnstar_DeletedSnippetStillSucceeds(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "short lived")

	if err := interactionstore.New(db).Star(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if err := snippetstore.New(db).Delete(ctx, sn.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// The orphaned ledger entry can still be cleaned up.
	req := asUser(httptest.NewRequest("DELETE", "/snippets/"+sn.ID.Hex()+"/star", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeUnstar(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body)
	}
}

func TestServeUnstar_SnippetMadePrivateStillSucceeds(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "was public once")

	if err := interactionstore.New(db).Star(ctx, alice.ID, sn.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	private := false
	if err := snippetstore.New(db).Update(ctx, sn.ID, snippetstore.UpdatePatch{IsPublic: &private}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// The snippet is no longer visible to alice, but her ledger entry must
	// still be removable.
	req := asUser(httptest.NewRequest("DELETE", "/snippets/"+sn.ID.Hex()+"/star", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeUnstar(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusNoContent, rec.Body)
	}
	star, _ := f.SnippetCounts(ctx, sn.ID)
	if star != 0 {
		t.Errorf("starCount = %d, want 0 after cleanup", star)
	}
}

func TestServeSaveUnsave(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	sn := f.CreateSnippet(ctx, bob, "worth keeping")

	req := asUser(httptest.NewRequest("POST", "/snippets/"+sn.ID.Hex()+"/save", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeSave(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save: status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	req = asUser(httptest.NewRequest("DELETE", "/snippets/"+sn.ID.Hex()+"/save", nil), alice)
	req = testutil.WithChiURLParam(req, "id", sn.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeUnsave(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unsave: status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	star, save := f.SnippetCounts(ctx, sn.ID)
	if star != 0 || save != 0 {
		t.Errorf("counters = %d/%d, want 0/0 after the round trip", star, save)
	}
}

func TestServeListStarred(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")
	bob := f.CreateUser(ctx, "Bob Roe", "bob456")
	first := f.CreateSnippet(ctx, bob, "starred first")
	second := f.CreateSnippet(ctx, bob, "starred second")

	store := interactionstore.New(db)
	if err := store.Star(ctx, alice.ID, first.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if err := store.Star(ctx, alice.ID, second.ID); err != nil {
		t.Fatalf("Star failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeListStarred(rec, asUser(httptest.NewRequest("GET", "/me/starred", nil), alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body)
	}

	var list []models.Snippet
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d snippets, want 2", len(list))
	}
	// Most recently starred first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("order = [%q, %q], want newest relation first", list[0].Title, list[1].Title)
	}
}

func TestServeListSaved_EmptyIsArray(t *testing.T) {
	h, db := newHandler(t)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := f.CreateUser(ctx, "Alice Doe", "alice123")

	rec := httptest.NewRecorder()
	h.ServeListSaved(rec, asUser(httptest.NewRequest("GET", "/me/saved", nil), alice))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != "[]\n" && got != "[]" {
		t.Errorf("body = %q, want an empty JSON array", got)
	}
}
