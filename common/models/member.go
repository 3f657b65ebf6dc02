package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberStatus is the registry state of a member
type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberApproved MemberStatus = "approved"
)

// DelegationStatus tracks a member's own outstanding delegation request,
// independent of whether they have received delegations
type DelegationStatus string

const (
	DelegationNone            DelegationStatus = "none"
	DelegationPendingOutbound DelegationStatus = "pending"
	DelegationApproved        DelegationStatus = "approved"
)

// DelegatedFrom is one approved inbound delegation recorded on the delegate
type DelegatedFrom struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
}

// Member represents a union member.
// Maps to: member table.
//
// The ledger fields (VoteWeight, DelegatedToID/Name, DelegationEventID,
// DelegationStatus, DelegatedFrom) are written exclusively by the delegation
// workflow; Version backs optimistic locking on them.
type Member struct {
	ID          string         `db:"id" json:"id"`
	DisplayName string         `db:"display_name" json:"display_name"`
	Position    string         `db:"position" json:"position"`
	Email       string         `db:"email" json:"email"`
	Contact     map[string]any `db:"contact" json:"contact"`
	FCMTokens   []string       `db:"fcm_tokens" json:"fcm_tokens,omitempty"`
	Status      MemberStatus   `db:"status" json:"status"`

	VoteWeight        int              `db:"vote_weight" json:"vote_weight"`
	DelegatedToID     *string          `db:"delegated_to_id" json:"delegated_to_id,omitempty"`
	DelegatedToName   *string          `db:"delegated_to_name" json:"delegated_to_name,omitempty"`
	DelegationEventID *uuid.UUID       `db:"delegation_event_id" json:"delegation_event_id,omitempty"`
	DelegationStatus  DelegationStatus `db:"delegation_status" json:"delegation_status"`
	DelegatedFrom     []DelegatedFrom  `db:"delegated_from" json:"delegated_from"`

	Version   int64     `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasDelegatedAway reports whether this member's own vote currently sits
// with a delegate
func (m *Member) HasDelegatedAway() bool {
	return m.DelegatedToID != nil
}

// HoldsDelegations reports whether any approved delegation points at this
// member
func (m *Member) HoldsDelegations() bool {
	return len(m.DelegatedFrom) > 0
}
