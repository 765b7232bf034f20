package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()

	models.Stamp(&comment.ID, &comment.CreatedAt)
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewStoreError("comments.create", err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	defer observability.TrackQuery("get", "comments")()

	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, notFoundOr(err, "Comment", id, "comments.get")
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()

	var comments []*models.Comment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).
		Order("created_at DESC").Order("id DESC").Find(&comments).Error; err != nil {
		return nil, models.NewStoreError("comments.list", err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("delete", "comments")()

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return models.NewStoreError("comments.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) count(ctx context.Context, op string, query string, args ...interface{}) (int64, error) {
	defer observability.TrackQuery(op, "comments")()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where(query, args...).Count(&n).Error; err != nil {
		return 0, models.NewStoreError("comments."+op, err)
	}
	return n, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return r.count(ctx, "count_by_post", "post_id = ?", postID)
}

func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByPosts(ctx, r.db, &models.Comment{}, "comments", uuid.Nil, postIDs)
}

func (r *commentRepository) ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	counts, err := countByPosts(ctx, r.db, &models.Comment{}, "comments", userID, postIDs)
	if err != nil {
		return nil, err
	}
	return heldPosts(counts), nil
}

func (r *commentRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, "count_by_user", "user_id = ?", userID)
}

func (r *commentRepository) ExistsForUser(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	n, err := r.count(ctx, "exists", "user_id = ? AND post_id = ?", userID, postID)
	return n > 0, err
}

func (r *commentRepository) CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_community", "comments")()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ? AND comments.user_id <> ?", authorID, authorID).
		Count(&n).Error
	if err != nil {
		return 0, models.NewStoreError("comments.count_community", err)
	}
	return n, nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_post", "comments")()

	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	if res.Error != nil {
		return 0, models.NewStoreError("comments.delete_by_post", res.Error)
	}
	return res.RowsAffected, nil
}
