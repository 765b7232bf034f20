package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type relationRepository struct {
	db    *gorm.DB
	kind  models.RelationKind
	table string
}

// NewLikeRepository returns the RelationRepository backed by the likes table.
func NewLikeRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db, kind: models.RelationLike, table: "likes"}
}

// NewBookmarkRepository returns the RelationRepository backed by the bookmarks table.
func NewBookmarkRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db, kind: models.RelationBookmark, table: "bookmarks"}
}

func (r *relationRepository) Kind() models.RelationKind {
	return r.kind
}

func (r *relationRepository) model() interface{} {
	if r.kind == models.RelationBookmark {
		return &models.Bookmark{}
	}
	return &models.Like{}
}

func (r *relationRepository) record(userID, postID uuid.UUID) interface{} {
	if r.kind == models.RelationBookmark {
		b := &models.Bookmark{UserID: userID, PostID: postID}
		models.Stamp(&b.ID, &b.CreatedAt)
		return b
	}
	l := &models.Like{UserID: userID, PostID: postID}
	models.Stamp(&l.ID, &l.CreatedAt)
	return l
}

func (r *relationRepository) op(name string) string {
	return r.table + "." + name
}

func (r *relationRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	defer observability.TrackQuery("exists", r.table)()

	var n int64
	if err := r.db.WithContext(ctx).Model(r.model()).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&n).Error; err != nil {
		return false, models.NewStoreError(r.op("exists"), err)
	}
	return n > 0, nil
}

// Insert relies on the (user_id, post_id) unique index: a conflicting insert
// affects no rows and is reported as a duplicate.
func (r *relationRepository) Insert(ctx context.Context, userID, postID uuid.UUID) error {
	defer observability.TrackQuery("insert", r.table)()

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(r.record(userID, postID))
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return models.ErrDuplicateRelation
		}
		return models.NewStoreError(r.op("insert"), res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrDuplicateRelation
	}
	return nil
}

func (r *relationRepository) Remove(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	defer observability.TrackQuery("delete", r.table)()

	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(r.model())
	if res.Error != nil {
		return false, models.NewStoreError(r.op("delete"), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *relationRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", r.table)()

	var n int64
	if err := r.db.WithContext(ctx).Model(r.model()).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, models.NewStoreError(r.op("count_by_post"), err)
	}
	return n, nil
}

func (r *relationRepository) CountByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return countByPosts(ctx, r.db, r.model(), r.table, uuid.Nil, postIDs)
}

func (r *relationRepository) ExistingForUser(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	counts, err := countByPosts(ctx, r.db, r.model(), r.table, userID, postIDs)
	if err != nil {
		return nil, err
	}
	return heldPosts(counts), nil
}

func (r *relationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", r.table)()

	var n int64
	if err := r.db.WithContext(ctx).Model(r.model()).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewStoreError(r.op("count_by_user"), err)
	}
	return n, nil
}

func (r *relationRepository) CountOnAuthorPosts(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_community", r.table)()

	var n int64
	err := r.db.WithContext(ctx).Model(r.model()).
		Joins("JOIN posts ON posts.id = "+r.table+".post_id").
		Where("posts.author_id = ? AND "+r.table+".user_id <> ?", authorID, authorID).
		Count(&n).Error
	if err != nil {
		return 0, models.NewStoreError(r.op("count_community"), err)
	}
	return n, nil
}

func (r *relationRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_post", r.table)()

	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(r.model())
	if res.Error != nil {
		return 0, models.NewStoreError(r.op("delete_by_post"), res.Error)
	}
	return res.RowsAffected, nil
}
