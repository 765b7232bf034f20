package mongostore

import (
	"context"
	"time"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// relationDoc is the shared document shape of likes and bookmarks.
type relationDoc struct {
	ID        uuid.UUID `bson:"_id"`
	UserID    uuid.UUID `bson:"userId"`
	PostID    uuid.UUID `bson:"postId"`
	CreatedAt time.Time `bson:"createdAt"`
}

type relationRepository struct {
	col  *mongo.Collection
	kind models.RelationKind
}

func (r *relationRepository) Kind() models.RelationKind {
	return r.kind
}

func (r *relationRepository) op(name string) string {
	return r.col.Name() + "." + name
}

func (r *relationRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	defer observability.TrackQuery("exists", r.col.Name())()

	n, err := r.col.CountDocuments(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		return false, models.NewStoreError(r.op("exists"), err)
	}
	return n > 0, nil
}

// Insert relies on the unique (userId, postId) index to reject duplicates.
func (r *relationRepository) Insert(ctx context.Context, userID, postID uuid.UUID) error {
	defer observability.TrackQuery("insert", r.col.Name())()

	doc := relationDoc{UserID: userID, PostID: postID}
	models.Stamp(&doc.ID, &doc.CreatedAt)
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateRelation
		}
		return models.NewStoreError(r.op("insert"), err)
	}
	return nil
}

func (r *relationRepository) Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", r.col.Name())()

	res, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "postId": postID})
	if err != nil {
		return false, models.NewStoreError(r.op("delete"), err)
	}
	return res.DeletedCount > 0, nil
}

func (r *relationRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", r.col.Name())()

	n, err := r.col.CountDocuments(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, models.NewStoreError(r.op("count_by_post"), err)
	}
	return n, nil
}

func (r *relationRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	defer observability.TrackQuery("count_by_posts", r.col.Name())()

	counts, err := countByPosts(ctx, r.col, nil, postIDs)
	if err != nil {
		return nil, models.NewStoreError(r.op("count_by_posts"), err)
	}
	return counts, nil
}

func (r *relationRepository) ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	defer observability.TrackQuery("count_by_posts", r.col.Name())()

	counts, err := countByPosts(ctx, r.col, bson.M{"userId": userID}, postIDs)
	if err != nil {
		return nil, models.NewStoreError(r.op("existing_for_user"), err)
	}
	return heldPosts(counts), nil
}

func (r *relationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", r.col.Name())()

	n, err := r.col.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, models.NewStoreError(r.op("count_by_user"), err)
	}
	return n, nil
}

func (r *relationRepository) CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_community", r.col.Name())()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": bson.M{"$ne": authorID}}}},
	}
	pipeline = append(pipeline, lookupPost("postId")...)
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"post.authorId": authorID}}})

	n, err := countPipeline(ctx, r.col, pipeline)
	if err != nil {
		return 0, models.NewStoreError(r.op("count_community"), err)
	}
	return n, nil
}

func (r *relationRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_post", r.col.Name())()

	res, err := r.col.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, models.NewStoreError(r.op("delete_by_post"), err)
	}
	return res.DeletedCount, nil
}
