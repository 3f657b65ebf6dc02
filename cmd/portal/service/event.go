package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/repository"
)

// EventService handles the governance event calendar
type EventService struct {
	repo *repository.EventRepository
	log  *logger.Logger
}

// NewEventService creates a new event service
func NewEventService(repo *repository.EventRepository, log *logger.Logger) *EventService {
	return &EventService{
		repo: repo,
		log:  log,
	}
}

// Create schedules a new governance event
func (s *EventService) Create(ctx context.Context, title string, scheduledAt time.Time) (*models.Event, error) {
	if title == "" {
		return nil, apperr.Validationf("event title is required")
	}
	if scheduledAt.IsZero() {
		return nil, apperr.Validationf("event date is required")
	}

	e := &models.Event{
		ID:          uuid.New(),
		Title:       title,
		ScheduledAt: scheduledAt,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.log.Info("event created", "event_id", e.ID, "title", title, "scheduled_at", scheduledAt)
	return e, nil
}

// List retrieves all events
func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.repo.List(ctx)
}

// Delete removes an event
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("event deleted", "event_id", id)
	return nil
}
