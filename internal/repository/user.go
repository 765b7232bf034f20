package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	models.Stamp(&user.ID, &user.SignupDate)
	user.Interests = models.NormalizeInterests(user.Interests)
	if user.AvatarURL == "" {
		user.AvatarURL = models.DefaultAvatarURL
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("DuplicateUser", "username, email or token already taken")
		}
		return models.NewStoreError("users.create", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer observability.TrackQuery("get", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", id, "users.get")
	}
	return &user, nil
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	defer observability.TrackQuery("get_by_token", "users")()

	var user models.User
	if token == "" {
		return nil, models.NewNotFoundError("User", "token")
	}
	if err := r.db.WithContext(ctx).Where("auth_token = ?", token).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", "token", "users.get_by_token")
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_many", "users")()

	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, models.NewStoreError("users.get_many", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) SetGuidelinesAccepted(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("has_accepted_guidelines", true)
	if res.Error != nil {
		return models.NewStoreError("users.accept_guidelines", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) IncrementReportCount(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + ?", 1))
	if res.Error != nil {
		return models.NewStoreError("users.increment_reports", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}
