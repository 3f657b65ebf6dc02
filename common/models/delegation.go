package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a delegation request
type RequestStatus string

const (
	// RequestPending awaits an admin decision; no weight has moved
	RequestPending RequestStatus = "pending"
	// RequestApproved moved the delegator's vote onto the delegate
	RequestApproved RequestStatus = "approved"
	// RequestRejected was refused by an admin; retained for audit
	RequestRejected RequestStatus = "rejected"
	// RequestConcluded was approved but its event has passed; the
	// delegator's weight has been restored
	RequestConcluded RequestStatus = "concluded"
)

// DelegationRequest represents one member's transfer of their conference
// vote to a colleague, scoped to a single governance event.
// Maps to: delegation_request table.
type DelegationRequest struct {
	ID       uuid.UUID `db:"id" json:"id"`
	FromID   string    `db:"from_id" json:"from_id"`
	FromName string    `db:"from_name" json:"from_name"`
	ToID     string    `db:"to_id" json:"to_id"`
	ToName   string    `db:"to_name" json:"to_name"`

	// Optional reference to an uploaded authorization document
	ProofRef *string `db:"proof_ref" json:"proof_ref,omitempty"`

	// Denormalized for display and audit
	EventID    uuid.UUID `db:"event_id" json:"event_id"`
	EventTitle string    `db:"event_title" json:"event_title"`

	Status    RequestStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	DecidedAt *time.Time    `db:"decided_at" json:"decided_at,omitempty"`
	DecidedBy *string       `db:"decided_by" json:"decided_by,omitempty"`
}

// Decided reports whether the request has reached a terminal state
func (r *DelegationRequest) Decided() bool {
	return r.Status != RequestPending
}
