package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"epicfails/internal/models"
	"epicfails/internal/photos"
	"epicfails/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPhotoService_Upload(t *testing.T) {
	ctx := context.Background()
	store := &testutil.MockPhotoStore{}
	store.On("Upload", mock.Anything, []byte("avatar"), photos.FolderUsers).Return("https://cdn.test/u.jpg", nil)
	store.On("Upload", mock.Anything, []byte("fail"), photos.FolderFails).Return("https://cdn.test/f.jpg", nil)
	svc := NewPhotoService(store)

	url, err := svc.Upload(ctx, "user", []byte("avatar"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/u.jpg", url)

	url, err = svc.Upload(ctx, "actual", []byte("fail"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/f.jpg", url)
	store.AssertExpectations(t)
}

func TestPhotoService_UploadErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewPhotoService(nil).Upload(ctx, "user", []byte("x"))
	assertAppError(t, err, models.CodeStoreUnavailable, "photos.upload")

	svc := NewPhotoService(&testutil.MockPhotoStore{})
	_, err = svc.Upload(ctx, "user", nil)
	assertAppError(t, err, models.CodeValidation, "EmptyPhoto")

	_, err = svc.Upload(ctx, "user", bytes.Repeat([]byte("x"), MaxPhotoBytes+1))
	assertAppError(t, err, models.CodeValidation, "PhotoTooLarge")

	failing := &testutil.MockPhotoStore{}
	failing.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota"))
	_, err = NewPhotoService(failing).Upload(ctx, "fail", []byte("x"))
	assertAppError(t, err, models.CodeStoreUnavailable, "photos.upload")
}
