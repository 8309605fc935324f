// Package usersnippets translates a user's interaction ledger into a
// hydrated snippet list: ledger walk, chunked id-in-set lookups, then an
// order-preserving merge.
package usersnippets

import (
	"context"

	interactionstore "github.com/hustler3848/devbook/internal/app/store/interactions"
	"github.com/hustler3848/devbook/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// idSetLimit caps how many ids one $in lookup may carry, mirroring the
// document store's maximum items per id-in-set query.
const idSetLimit = 30

// ListStarred returns the snippets the user starred, ordered by relation
// time descending, each tagged IsStarred=true. The IsSaved flag is left nil.
func ListStarred(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.Snippet, error) {
	return list(ctx, db, interactionstore.CollStarred, userID, func(sn *models.Snippet) {
		yes := true
		sn.IsStarred = &yes
	})
}

// ListSaved returns the snippets the user saved, ordered by relation time
// descending, each tagged IsSaved=true. The IsStarred flag is left nil.
func ListSaved(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) ([]models.Snippet, error) {
	return list(ctx, db, interactionstore.CollSaved, userID, func(sn *models.Snippet) {
		yes := true
		sn.IsSaved = &yes
	})
}

func list(ctx context.Context, db *mongo.Database, ledger string, userID primitive.ObjectID, tag func(*models.Snippet)) ([]models.Snippet, error) {
	ids, err := ledgerIDs(ctx, db, ledger, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	byID := make(map[primitive.ObjectID]models.Snippet, len(ids))
	for _, group := range chunkIDs(ids, idSetLimit) {
		cur, err := db.Collection("snippets").Find(ctx, bson.M{"_id": bson.M{"$in": group}})
		if err != nil {
			return nil, err
		}
		var batch []models.Snippet
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		for _, sn := range batch {
			byID[sn.ID] = sn
		}
	}

	out := resolveInOrder(ids, byID)
	for i := range out {
		tag(&out[i])
	}
	return out, nil
}

// ledgerIDs walks the ledger ordered by relation timestamp descending and
// returns the snippet ids in that order.
func ledgerIDs(ctx context.Context, db *mongo.Database, ledger string, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := db.Collection(ledger).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetProjection(bson.M{"snippet_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			SnippetID primitive.ObjectID `bson:"snippet_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.SnippetID)
	}
	return ids, cur.Err()
}

// chunkIDs partitions ids into groups of at most limit, preserving order.
func chunkIDs(ids []primitive.ObjectID, limit int) [][]primitive.ObjectID {
	if len(ids) == 0 {
		return nil
	}
	groups := make([][]primitive.ObjectID, 0, (len(ids)+limit-1)/limit)
	for len(ids) > limit {
		groups = append(groups, ids[:limit])
		ids = ids[limit:]
	}
	return append(groups, ids)
}

// resolveInOrder re-walks the ordered id list through the lookup table,
// dropping ids with no backing document. Snippets deleted after being
// starred or saved leave orphaned ledger entries; this is where they are
// silently tolerated.
func resolveInOrder(ids []primitive.ObjectID, byID map[primitive.ObjectID]models.Snippet) []models.Snippet {
	out := make([]models.Snippet, 0, len(ids))
	for _, id := range ids {
		if sn, ok := byID[id]; ok {
			out = append(out, sn)
		}
	}
	return out
}
