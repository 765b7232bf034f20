package service

import (
	"context"
	"errors"

	"epicfails/internal/models"
	"epicfails/internal/photos"
)

// MaxPhotoBytes caps a single upload.
const MaxPhotoBytes = 10 << 20

type PhotoService struct {
	store photos.Store
}

func NewPhotoService(store photos.Store) *PhotoService {
	return &PhotoService{store: store}
}

// Upload stores a photo under the folder for photoType and returns its URL.
func (s *PhotoService) Upload(ctx context.Context, photoType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("EmptyPhoto", "Photo file is required")
	}
	if len(data) > MaxPhotoBytes {
		return "", models.NewValidationError("PhotoTooLarge", "Photo too large (max 10MB)")
	}
	if s.store == nil {
		return "", models.NewStoreError("photos.upload", errors.New("photo storage not configured"))
	}

	url, err := s.store.Upload(ctx, data, photos.FolderFor(photoType))
	if err != nil {
		return "", models.NewStoreError("photos.upload", err)
	}
	return url, nil
}
