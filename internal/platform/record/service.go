package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fugevet/fintrack/pkg/logger"
)

// Service handles record business logic
type Service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new record service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithField("component", "record"),
		now:    time.Now,
	}
}

// Create validates and stores a record. ownerID, when non-zero, overrides
// the user id in the input.
func (s *Service) Create(ctx context.Context, in CreateInput, ownerID int64) (*Record, error) {
	if ownerID > 0 {
		in.UserID = ownerID
	}

	r, err := in.Build(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.logger.WithContext(ctx).Info("record created", "id", r.ID, "type", r.Type)
	return r, nil
}

// List returns records newest first, scoped to ownerID when non-zero
func (s *Service) List(ctx context.Context, ownerID int64) ([]*Record, error) {
	records, err := s.repo.List(ctx, ListFilter{UserID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// Delete removes a record. With a non-zero ownerID, records owned by
// someone else are reported as not found.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	if ownerID > 0 {
		r, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r.UserID != ownerID {
			return ErrRecordNotFound
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}

	s.logger.WithContext(ctx).Info("record deleted", "id", id)
	return nil
}
