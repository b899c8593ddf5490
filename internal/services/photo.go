package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"

	"github.com/google/uuid"
)

// PhotoService handles photo upload, main-photo selection and deletion.
type PhotoService struct {
	photos PhotoStore
	users  UserStore
	blobs  BlobStore
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos PhotoStore, users UserStore, blobs BlobStore) *PhotoService {
	return &PhotoService{
		photos: photos,
		users:  users,
		blobs:  blobs,
	}
}

// Upload stores the file in the blob store and records the photo. The user's
// first photo automatically becomes their main photo.
func (s *PhotoService) Upload(ctx context.Context, userID int64, filename string, body io.Reader, size int64, contentType string) (*models.Photo, error) {
	if _, err := s.users.GetByID(ctx, userID, true); err != nil {
		return nil, err
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("users/%d/%s%s", userID, uuid.New().String(), ext)

	url, err := s.blobs.Upload(ctx, key, body, size, contentType)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		UserID:   userID,
		URL:      url,
		PublicID: &key,
		AddedAt:  time.Now(),
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// SetMain promotes one of the user's photos to main. Promoting the photo
// that is already main is a conflict.
func (s *PhotoService) SetMain(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("%w: photo belongs to another user", apperr.ErrUnauthorized)
	}
	if photo.IsMain {
		return fmt.Errorf("%w: photo is already the main photo", apperr.ErrConflict)
	}
	return s.photos.SetMain(ctx, userID, photoID)
}

// Delete removes a photo. The main photo is protected; a blob-store failure
// aborts the deletion so the record never outlives its object silently.
func (s *PhotoService) Delete(ctx context.Context, userID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("%w: photo belongs to another user", apperr.ErrUnauthorized)
	}
	if photo.IsMain {
		return fmt.Errorf("%w: cannot delete the main photo", apperr.ErrConflict)
	}

	if photo.PublicID != nil {
		if err := s.blobs.Delete(ctx, *photo.PublicID); err != nil {
			return err
		}
	}
	return s.photos.Delete(ctx, photoID)
}
