package mongostore

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type reportRepository struct {
	col *mongo.Collection
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	defer observability.TrackQuery("create", colReports)()

	models.Stamp(&report.ID, &report.CreatedAt)
	if _, err := r.col.InsertOne(ctx, report); err != nil {
		return models.NewStoreError("reports.create", err)
	}
	return nil
}

func (r *reportRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", colReports)()

	n, err := r.col.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, models.NewStoreError("reports.count", err)
	}
	return n, nil
}
