package mongostore

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	col *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", colUsers)()

	models.Stamp(&user.ID, &user.SignupDate)
	user.Interests = models.NormalizeInterests(user.Interests)
	if user.AvatarURL == "" {
		user.AvatarURL = models.DefaultAvatarURL
	}
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("DuplicateUser", "username, email or token already taken")
		}
		return models.NewStoreError("users.create", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer observability.TrackQuery("get", colUsers)()

	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "User", id, "users.get")
	}
	return &user, nil
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	defer observability.TrackQuery("get_by_token", colUsers)()

	if token == "" {
		return nil, models.NewNotFoundError("User", "token")
	}
	var user models.User
	if err := r.col.FindOne(ctx, bson.M{"authToken": token}).Decode(&user); err != nil {
		return nil, notFoundOr(err, "User", "token", "users.get_by_token")
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	out := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	defer observability.TrackQuery("get_many", colUsers)()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, models.NewStoreError("users.get_many", err)
	}
	var users []*models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, models.NewStoreError("users.get_many", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *userRepository) update(ctx context.Context, op string, id uuid.UUID, update bson.M) error {
	defer observability.TrackQuery("update", colUsers)()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return models.NewStoreError(op, err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

func (r *userRepository) SetGuidelinesAccepted(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, "users.accept_guidelines", id, bson.M{"$set": bson.M{"hasAcceptedGuidelines": true}})
}

func (r *userRepository) IncrementReportCount(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, "users.increment_reports", id, bson.M{"$inc": bson.M{"reportCount": 1}})
}
