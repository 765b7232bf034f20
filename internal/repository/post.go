package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	models.Stamp(&post.ID, &post.CreatedAt)
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewStoreError("posts.create", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer observability.TrackQuery("get", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, notFoundOr(err, "Post", id, "posts.get")
	}
	return &post, nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Post, error) {
	out := make(map[uuid.UUID]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_many", "posts")()

	var posts []*models.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, models.NewStoreError("posts.get_many", err)
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != uuid.Nil {
		q = q.Where("author_id = ?", filter.AuthorID)
	}

	var posts []*models.Post
	if err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(filter.Offset).Find(&posts).Error; err != nil {
		return nil, models.NewStoreError("posts.list", err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", "posts")()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).Count(&n).Error; err != nil {
		return 0, models.NewStoreError("posts.count", err)
	}
	return n, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete", "posts")()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return 0, models.NewStoreError("posts.delete", res.Error)
	}
	return res.RowsAffected, nil
}
