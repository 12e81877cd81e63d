package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrStorageDisabled = errors.New("object storage is not configured")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT
	// of objectKey directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// ObjectURL is the public URL an uploaded object is served from.
	ObjectURL(objectKey string) string

	DeleteObject(ctx context.Context, objectKey string) error
}

const exerciseImageDir = "exercises"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExerciseImageKey builds a fresh object key for an exercise image. ok is
// false for content types that are not accepted images.
func ExerciseImageKey(contentType string) (key string, ok bool) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", false
	}
	return path.Join(exerciseImageDir, uuid.NewString()+ext), true
}

// IsExerciseImageKey reports whether key was produced by ExerciseImageKey.
func IsExerciseImageKey(key string) bool {
	return strings.HasPrefix(key, exerciseImageDir+"/") && imageExtensionKnown(path.Ext(key))
}

func imageExtensionKnown(ext string) bool {
	for _, known := range imageExtensions {
		if known == ext {
			return true
		}
	}
	return false
}

// disabledStorage is used when no bucket is configured.
type disabledStorage struct{}

func NewDisabledStorage() FileStorage {
	return disabledStorage{}
}

func (disabledStorage) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorage) ObjectURL(string) string {
	return ""
}

func (disabledStorage) DeleteObject(context.Context, string) error {
	return ErrStorageDisabled
}
