package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

// EventRepository handles database operations for governance events
type EventRepository struct {
	db *db.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(database *db.DB) *EventRepository {
	return &EventRepository{db: database}
}

// Create inserts a new governance event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO event (id, title, scheduled_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.Title, e.ScheduledAt, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

// GetByID retrieves an event by id
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT id, title, scheduled_at, created_at FROM event WHERE id = $1`

	e := &models.Event{}
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.Title, &e.ScheduledAt, &e.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("event %s not found", id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return e, nil
}

// Nearest returns the next upcoming event by scheduled_at, or the most
// recent past one if none is upcoming. Returns nil when no event exists.
func (r *EventRepository) Nearest(ctx context.Context, now time.Time) (*models.Event, error) {
	query := `
		SELECT id, title, scheduled_at, created_at
		FROM event
		WHERE scheduled_at >= $1
		ORDER BY scheduled_at ASC
		LIMIT 1
	`

	e := &models.Event{}
	err := r.db.QueryRow(ctx, query, now).Scan(&e.ID, &e.Title, &e.ScheduledAt, &e.CreatedAt)
	if err == nil {
		return e, nil
	}
	if !db.IsNoRows(err) {
		return nil, fmt.Errorf("failed to get nearest event: %w", err)
	}

	query = `
		SELECT id, title, scheduled_at, created_at
		FROM event
		ORDER BY scheduled_at DESC
		LIMIT 1
	`

	err = r.db.QueryRow(ctx, query).Scan(&e.ID, &e.Title, &e.ScheduledAt, &e.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest event: %w", err)
	}

	return e, nil
}

// List retrieves all events, soonest first
func (r *EventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT id, title, scheduled_at, created_at FROM event ORDER BY scheduled_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.ScheduledAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("event %s not found", id)
	}

	return nil
}
