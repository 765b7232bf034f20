// Package mongostore implements the entity store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"epicfails/internal/middleware"
	"epicfails/internal/models"
	"epicfails/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	colUsers     = "users"
	colPosts     = "posts"
	colLikes     = "likes"
	colBookmarks = "bookmarks"
	colComments  = "comments"
	colDuels     = "duels"
	colReports   = "reports"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	middleware.Logger.Info("Connected to MongoDB", "database", dbName)
	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(name string) *options.IndexOptions {
		return options.Index().SetName(name).SetUnique(true)
	}
	plain := func(name string) *options.IndexOptions {
		return options.Index().SetName(name)
	}

	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique("idx_users_username")},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique("idx_users_email")},
			{Keys: bson.D{{Key: "authToken", Value: 1}}, Options: unique("idx_users_auth_token")},
		},
		colPosts: {
			{Keys: bson.D{{Key: "authorId", Value: 1}}, Options: plain("idx_posts_author")},
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}, Options: plain("idx_posts_category_created")},
		},
		colLikes: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}}, Options: unique("idx_likes_user_post")},
			{Keys: bson.D{{Key: "postId", Value: 1}}, Options: plain("idx_likes_post")},
		},
		colBookmarks: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "postId", Value: 1}}, Options: unique("idx_bookmarks_user_post")},
			{Keys: bson.D{{Key: "postId", Value: 1}}, Options: plain("idx_bookmarks_post")},
		},
		colComments: {
			{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: plain("idx_comments_post_created")},
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: plain("idx_comments_user")},
		},
		colDuels: {
			{Keys: bson.D{{Key: "category", Value: 1}}, Options: plain("idx_duels_category")},
			{Keys: bson.D{{Key: "winnerPostId", Value: 1}}, Options: plain("idx_duels_winner")},
		},
		colReports: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: plain("idx_reports_user")},
		},
	}

	for collection, indexes := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// NewStore wires every MongoDB repository over db. MongoDB runs cascades as
// plain sequential steps, so Tx is left nil.
func NewStore(db *mongo.Database) *repository.Store {
	return &repository.Store{
		Users:     &userRepository{col: db.Collection(colUsers)},
		Posts:     &postRepository{col: db.Collection(colPosts)},
		Likes:     &relationRepository{col: db.Collection(colLikes), kind: models.RelationLike},
		Bookmarks: &relationRepository{col: db.Collection(colBookmarks), kind: models.RelationBookmark},
		Comments:  &commentRepository{col: db.Collection(colComments)},
		Duels:     &duelRepository{col: db.Collection(colDuels)},
		Reports:   &reportRepository{col: db.Collection(colReports)},
		Pinger: func(ctx context.Context) error {
			return db.Client().Ping(ctx, nil)
		},
	}
}

func notFoundOr(err error, entity string, id interface{}, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError(entity, id)
	}
	return models.NewStoreError(op, err)
}

// countPipeline runs an aggregation ending in {$count: "n"}.
func countPipeline(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline) (int64, error) {
	pipeline = append(pipeline, bson.D{{Key: "$count", Value: "n"}})
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	return readCount(ctx, cur)
}

// readCount decodes the single {n} document a $count stage yields, which is
// absent when nothing matched.
func readCount(ctx context.Context, cur *mongo.Cursor) (int64, error) {
	defer cur.Close(ctx)

	var rows []struct {
		N int64 `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].N, nil
}

type postCountRow struct {
	PostID uuid.UUID `bson:"_id"`
	N      int64     `bson:"n"`
}

// countByPosts groups the documents matching filter whose postId is in postIDs
// and returns the count per post.
func countByPosts(ctx context.Context, col *mongo.Collection, filter bson.M, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	match := bson.M{"postId": bson.M{"$in": postIDs}}
	for k, v := range filter {
		match[k] = v
	}
	cur, err := col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$postId", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	return readPostCounts(ctx, cur, counts)
}

func readPostCounts(ctx context.Context, cur *mongo.Cursor, counts map[uuid.UUID]int64) (map[uuid.UUID]int64, error) {
	defer cur.Close(ctx)

	var rows []postCountRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	return counts, nil
}

func heldPosts(counts map[uuid.UUID]int64) map[uuid.UUID]bool {
	held := make(map[uuid.UUID]bool, len(counts))
	for id, n := range counts {
		held[id] = n > 0
	}
	return held
}

// lookupPost joins each document's postField onto its post as "post".
func lookupPost(postField string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         colPosts,
			"localField":   postField,
			"foreignField": "_id",
			"as":           "post",
		}}},
		{{Key: "$unwind", Value: "$post"}},
	}
}
