package usersnippets

import (
	"testing"

	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeIDs(n int) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, n)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	return ids
}

func TestChunkIDs(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		limit     int
		wantSizes []int
	}{
		{"empty", 0, 30, nil},
		{"under limit", 5, 30, []int{5}},
		{"exactly limit", 30, 30, []int{30}},
		{"limit plus one", 31, 30, []int{30, 1}},
		{"forty five entries", 45, 30, []int{30, 15}},
		{"three full groups", 90, 30, []int{30, 30, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := makeIDs(tt.n)
			groups := chunkIDs(ids, tt.limit)

			if len(groups) != len(tt.wantSizes) {
				t.Fatalf("got %d groups, want %d", len(groups), len(tt.wantSizes))
			}
			flat := 0
			for i, g := range groups {
				if len(g) != tt.wantSizes[i] {
					t.Errorf("group %d has %d ids, want %d", i, len(g), tt.wantSizes[i])
				}
				for _, id := range g {
					if id != ids[flat] {
						t.Fatalf("id order broken at position %d", flat)
					}
					flat++
				}
			}
		})
	}
}

func TestResolveInOrder(t *testing.T) {
	ids := makeIDs(3)
	a, c := ids[0], ids[2]

	// ids[1] has no backing document (deleted after being starred).
	byID := map[primitive.ObjectID]models.Snippet{
		a: {ID: a, Title: "a"},
		c: {ID: c, Title: "c"},
	}

	got := resolveInOrder(ids, byID)
	if len(got) != 2 {
		t.Fatalf("got %d snippets, want 2", len(got))
	}
	if got[0].ID != a || got[1].ID != c {
		t.Errorf("order = [%s %s], want [a c]", got[0].Title, got[1].Title)
	}
}

func TestResolveInOrder_LookupOrderIrrelevant(t *testing.T) {
	ids := makeIDs(40)
	byID := make(map[primitive.ObjectID]models.Snippet, len(ids))
	// Populate in reverse to show the map's iteration order cannot matter.
	for i := len(ids) - 1; i >= 0; i-- {
		byID[ids[i]] = models.Snippet{ID: ids[i]}
	}

	got := resolveInOrder(ids, byID)
	if len(got) != len(ids) {
		t.Fatalf("got %d snippets, want %d", len(got), len(ids))
	}
	for i := range got {
		if got[i].ID != ids[i] {
			t.Fatalf("position %d out of order", i)
		}
	}
}
