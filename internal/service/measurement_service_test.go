package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository/memory"
	"fitcycle/server/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func ptr(v float64) *float64 {
	return &v
}

func TestMeasurementService_CreateValidation(t *testing.T) {
	svc := NewMeasurementService(memory.NewStore().Measurements)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", nil)
	assert.ErrorIs(t, err, ErrEmptyMeasurement)
	_, err = svc.Create(ctx, "u1", &domain.BodyMeasurement{Notes: "   "})
	assert.ErrorIs(t, err, ErrEmptyMeasurement)
	_, err = svc.Create(ctx, "u1", &domain.BodyMeasurement{Waist: ptr(-3)})
	assert.ErrorIs(t, err, ErrNegativeMeasurement)

	notesOnly, err := svc.Create(ctx, "u1", &domain.BodyMeasurement{Notes: "felt bloated"})
	require.NoError(t, err)
	assert.NotEmpty(t, notesOnly.ID)
}

func TestMeasurementService_DefaultsMeasuredAt(t *testing.T) {
	svc := NewMeasurementService(memory.NewStore().Measurements).(*measurementService)
	now := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), "u1", &domain.BodyMeasurement{Weight: ptr(82.5), UserID: "spoofed"})
	require.NoError(t, err)
	assert.Equal(t, now, m.MeasuredAt)
	assert.Equal(t, "u1", m.UserID)
}

func TestMeasurementService_ListTrackedFields(t *testing.T) {
	svc := NewMeasurementService(memory.NewStore().Measurements)
	ctx := context.Background()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, "u1", &domain.BodyMeasurement{MeasuredAt: day, Weight: ptr(80), Waist: ptr(84)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", &domain.BodyMeasurement{MeasuredAt: day.Add(48 * time.Hour), BodyFat: ptr(18), Weight: ptr(79)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", &domain.BodyMeasurement{MeasuredAt: day, Neck: ptr(40)})
	require.NoError(t, err)

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list.Measurements, 2)
	assert.Equal(t, 79.0, *list.Measurements[0].Weight)
	assert.Equal(t, []string{"weight", "waist", "bodyFat"}, list.TrackedFields)

	empty, err := svc.List(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, empty.Measurements)
	assert.Empty(t, empty.TrackedFields)
}

func TestMeasurementService_DeleteOwnOnly(t *testing.T) {
	svc := NewMeasurementService(memory.NewStore().Measurements)
	ctx := context.Background()

	m, err := svc.Create(ctx, "u1", &domain.BodyMeasurement{Weight: ptr(80)})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", m.ID), ErrMeasurementNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", m.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", m.ID), ErrMeasurementNotFound)
}

func TestMeasurementService_CreateWrapsRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockMeasurementRepository(ctrl)
	svc := NewMeasurementService(repoMock)

	dbErr := errors.New("connection reset")
	repoMock.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(&domain.BodyMeasurement{})).
		DoAndReturn(func(_ context.Context, measurement *domain.BodyMeasurement) (string, error) {
			assert.Equal(t, "u1", measurement.UserID)
			return "", dbErr
		})

	_, err := svc.Create(context.Background(), "u1", &domain.BodyMeasurement{Weight: ptr(80)})
	assert.ErrorIs(t, err, dbErr)
}
