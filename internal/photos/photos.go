// Package photos stores uploaded fail photos and avatars.
package photos

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Folders photos are filed under.
const (
	FolderUsers = "EF_Users"
	FolderFails = "EF_Fails"
)

// PhotoTypeUser selects the avatar folder; any other photo type is a fail photo.
const PhotoTypeUser = "user"

// Store persists raw photo bytes and returns their public URL.
type Store interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// FolderFor maps an upload photo type onto its storage folder.
func FolderFor(photoType string) string {
	if photoType == PhotoTypeUser {
		return FolderUsers
	}
	return FolderFails
}

// CloudinaryStore uploads photos to Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}
