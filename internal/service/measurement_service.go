package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitcycle/server/internal/domain"
	"fitcycle/server/internal/repository"
)

// --- Error Definitions ---
var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrEmptyMeasurement    = errors.New("at least one measurement value or a note is required")
	ErrNegativeMeasurement = errors.New("measurement values cannot be negative")
)

// MeasurementLog is the list view: entries newest first plus every field the
// user has ever recorded.
type MeasurementLog struct {
	Measurements  []domain.BodyMeasurement `json:"measurements"`
	TrackedFields []string                 `json:"trackedFields"`
}

type MeasurementService interface {
	Create(ctx context.Context, userID string, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error)
	List(ctx context.Context, userID string) (*MeasurementLog, error)
	Delete(ctx context.Context, userID, id string) error
}

type measurementService struct {
	measurementRepo repository.MeasurementRepository
	now             func() time.Time
}

func NewMeasurementService(measurementRepo repository.MeasurementRepository) MeasurementService {
	return &measurementService{
		measurementRepo: measurementRepo,
		now:             time.Now,
	}
}

func (s *measurementService) Create(ctx context.Context, userID string, m *domain.BodyMeasurement) (*domain.BodyMeasurement, error) {
	if m == nil {
		return nil, ErrEmptyMeasurement
	}
	m.Notes = strings.TrimSpace(m.Notes)
	if !m.HasValues() && m.Notes == "" {
		return nil, ErrEmptyMeasurement
	}
	for _, f := range m.Fields() {
		if f.Value != nil && *f.Value < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNegativeMeasurement, f.Name)
		}
	}

	m.ID = ""
	m.UserID = userID
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = s.now()
	}
	m.MeasuredAt = m.MeasuredAt.UTC()

	if _, err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create measurement: %w", err)
	}
	return m, nil
}

func (s *measurementService) List(ctx context.Context, userID string) (*MeasurementLog, error) {
	entries, err := s.measurementRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	if entries == nil {
		entries = []domain.BodyMeasurement{}
	}
	return &MeasurementLog{
		Measurements:  entries,
		TrackedFields: domain.TrackedFields(entries),
	}, nil
}

func (s *measurementService) Delete(ctx context.Context, userID, id string) error {
	if err := s.measurementRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMeasurementNotFound
		}
		return fmt.Errorf("delete measurement: %w", err)
	}
	return nil
}
