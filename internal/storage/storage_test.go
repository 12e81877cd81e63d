package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"fitcycle/server/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseImageKey(t *testing.T) {
	key, ok := ExerciseImageKey("image/PNG")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(key, "exercises/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	other, _ := ExerciseImageKey("image/png")
	assert.NotEqual(t, key, other)

	_, ok = ExerciseImageKey("application/pdf")
	assert.False(t, ok)

	assert.True(t, IsExerciseImageKey(key))
	assert.False(t, IsExerciseImageKey("avatars/"+strings.TrimPrefix(key, "exercises/")))
	assert.False(t, IsExerciseImageKey("exercises/report.pdf"))
}

func TestDisabledStorage(t *testing.T) {
	s := NewDisabledStorage()
	_, err := s.GeneratePresignedUploadURL(context.Background(), "k", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.Empty(t, s.ObjectURL("k"))
}

func TestS3Storage_PresignIsOffline(t *testing.T) {
	cfg := config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		BucketName:      "fitcycle",
	}
	s, err := NewS3Storage(context.Background(), cfg)
	require.NoError(t, err)

	url, err := s.GeneratePresignedUploadURL(context.Background(), "exercises/a.png", "image/png", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/fitcycle/exercises/a.png?"))
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Equal(t, "http://localhost:9000/fitcycle/exercises/a.png", s.ObjectURL("exercises/a.png"))
}

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(config.S3Config{PublicBaseURL: "https://cdn.example.com/"}))
	assert.Equal(t, "https://imgs.s3.eu-west-1.amazonaws.com",
		publicBaseURL(config.S3Config{BucketName: "imgs", Region: "eu-west-1"}))
}
