package models

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a scheduled governance event (conference).
// Maps to: event table. Immutable once created except for admin deletion.
type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
