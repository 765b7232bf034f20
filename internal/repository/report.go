package repository

import (
	"context"

	"epicfails/internal/models"
	"epicfails/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	defer observability.TrackQuery("create", "reports")()

	models.Stamp(&report.ID, &report.CreatedAt)
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewStoreError("reports.create", err)
	}
	return nil
}

func (r *reportRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	defer observability.TrackQuery("count", "reports")()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewStoreError("reports.count", err)
	}
	return n, nil
}
