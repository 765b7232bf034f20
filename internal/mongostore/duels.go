package mongostore

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type duelRepository struct {
	col *mongo.Collection
}

func (r *duelRepository) Create(ctx context.Context, duel *models.Duel) error {
	defer observability.TrackQuery("create", colDuels)()

	models.Stamp(&duel.ID, &duel.CreatedAt)
	if _, err := r.col.InsertOne(ctx, duel); err != nil {
		return models.NewStoreError("duels.create", err)
	}
	return nil
}

func (r *duelRepository) CountWinsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count_wins", colDuels)()

	pipeline := lookupPost("winnerPostId")
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"post.authorId": authorID}}})

	n, err := countPipeline(ctx, r.col, pipeline)
	if err != nil {
		return 0, models.NewStoreError("duels.count_wins", err)
	}
	return n, nil
}

func (r *duelRepository) WinTallies(ctx context.Context, category models.Category) ([]models.WinTally, error) {
	defer observability.TrackQuery("tally", colDuels)()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": category}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$winnerPostId",
			"wins":       bson.M{"$sum": 1},
			"firstWonAt": bson.M{"$min": "$createdAt"},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, models.NewStoreError("duels.tally", err)
	}
	tallies, err := readTallies(ctx, cur)
	if err != nil {
		return nil, models.NewStoreError("duels.tally", err)
	}
	return tallies, nil
}

func readTallies(ctx context.Context, cur *mongo.Cursor) ([]models.WinTally, error) {
	defer cur.Close(ctx)

	var tallies []models.WinTally
	if err := cur.All(ctx, &tallies); err != nil {
		return nil, err
	}
	return tallies, nil
}

func (r *duelRepository) DeleteByWinner(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_winner", colDuels)()

	res, err := r.col.DeleteMany(ctx, bson.M{"winnerPostId": postID})
	if err != nil {
		return 0, models.NewStoreError("duels.delete_by_winner", err)
	}
	return res.DeletedCount, nil
}

func (r *duelRepository) DeleteByContender(ctx context.Context, postID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("delete_by_contender", colDuels)()

	filter := bson.M{"$or": bson.A{bson.M{"post1Id": postID}, bson.M{"post2Id": postID}}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, models.NewStoreError("duels.delete_by_contender", err)
	}
	return res.DeletedCount, nil
}
