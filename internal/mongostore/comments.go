package mongostore

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentRepository struct {
	col *mongo.Collection
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", colComments)()

	models.Stamp(&comment.ID, &comment.CreatedAt)
	if _, err := r.col.InsertOne(ctx, comment); err != nil {
		return models.NewStoreError("comments.create", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	defer observability.TrackQuery("get", colComments)()

	var comment models.Comment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, notFoundOr(err, "Comment", id, "comments.get")
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", colComments)()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		return nil, models.NewStoreError("comments.list", err)
	}
	comments := []*models.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, models.NewStoreError("comments.list", err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("delete", colComments)()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.NewStoreError("comments.delete", err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) count(ctx context.Context, op string, filter bson.M) (int64, error) {
	defer observability.TrackQuery(op, colComments)()

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, models.NewStoreError("comments."+op, err)
	}
	return n, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return r.count(ctx, "count_by_post", bson.M{"postId": postID})
}

func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	defer observability.TrackQuery("count_by_posts", colComments)()

	counts, err := countByPosts(ctx, r.col, nil, postIDs)
	if err != nil {
		return nil, models.NewStoreError("comments.count_by_posts", err)
	}
	return counts, nil
}

func (r *commentRepository) ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	defer observability.TrackQuery("count_by_posts", colComments)()

	counts, err := countByPosts(ctx, r.col, bson.M{"userId": userID}, postIDs)
	if err != nil {
		return nil, models.NewStoreError("comments.existing_for_user", err)
	}
	return heldPosts(counts), nil
}

func (r *commentRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, "count_by_user", bson.M{"userId": userID})
}

func (r *commentRepository) ExistsForUser(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	n, err := r.count(ctx, "exists", bson.M{"userId": userID, "postId": postID})
	return n > 0, err
}

func (r *commentRepository) CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_community", colComments)()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": bson.M{"$ne": authorID}}}},
	}
	pipeline = append(pipeline, lookupPost("postId")...)
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"post.authorId": authorID}}})

	n, err := countPipeline(ctx, r.col, pipeline)
	if err != nil {
		return 0, models.NewStoreError("comments.count_community", err)
	}
	return n, nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_post", colComments)()

	res, err := r.col.DeleteMany(ctx, bson.M{"postId": postID})
	if err != nil {
		return 0, models.NewStoreError("comments.delete_by_post", err)
	}
	return res.DeletedCount, nil
}
