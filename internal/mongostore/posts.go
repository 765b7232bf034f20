package mongostore

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"
	"epicfails/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type postRepository struct {
	col *mongo.Collection
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", colPosts)()

	models.Stamp(&post.ID, &post.CreatedAt)
	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return models.NewStoreError("posts.create", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer observability.TrackQuery("get", colPosts)()

	var post models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, notFoundOr(err, "Post", id, "posts.get")
	}
	return &post, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Post, error) {
	out := make(map[uuid.UUID]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_many", colPosts)()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, models.NewStoreError("posts.get_many", err)
	}
	var posts []*models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, models.NewStoreError("posts.get_many", err)
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (r *postRepository) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", colPosts)()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.AuthorID != uuid.Nil {
		query["authorId"] = filter.AuthorID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(filter.Offset))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, models.NewStoreError("posts.list", err)
	}
	posts := []*models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, models.NewStoreError("posts.list", err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", colPosts)()

	n, err := r.col.CountDocuments(ctx, bson.M{"authorId": authorID})
	if err != nil {
		return 0, models.NewStoreError("posts.count", err)
	}
	return n, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete", colPosts)()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, models.NewStoreError("posts.delete", err)
	}
	return res.DeletedCount, nil
}
