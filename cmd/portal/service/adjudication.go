package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
)

// RequestReader provides read access to delegation requests
type RequestReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.DelegationRequest, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.DelegationRequest, error)
	ListInbound(ctx context.Context, toID string, eventID *uuid.UUID) ([]*models.DelegationRequest, error)
	ListOutbound(ctx context.Context, fromID string) ([]*models.DelegationRequest, error)
}

// LedgerView is the adjudication read-model for one member: who delegated
// to whom, with what weight, and for which event. Derived strictly from
// member and request state; it has no mutation path of its own.
type LedgerView struct {
	MemberID      string                      `json:"member_id"`
	DisplayName   string                      `json:"display_name"`
	VoteWeight    int                         `json:"vote_weight"`
	DelegatedTo   *models.DelegationRequest   `json:"delegated_to,omitempty"`
	DelegatedFrom []*models.DelegationRequest `json:"delegated_from"`
}

// AdjudicationService serves the admin oversight views over the delegation
// workflow
type AdjudicationService struct {
	requests RequestReader
	members  MemberReader
	log      *logger.Logger
}

// NewAdjudicationService creates a new adjudication service
func NewAdjudicationService(requests RequestReader, members MemberReader, log *logger.Logger) *AdjudicationService {
	return &AdjudicationService{
		requests: requests,
		members:  members,
		log:      log,
	}
}

// PendingQueue returns all requests awaiting an admin decision
func (s *AdjudicationService) PendingQueue(ctx context.Context) ([]*models.DelegationRequest, error) {
	return s.requests.ListByStatus(ctx, models.RequestPending)
}

// Inbound returns the approved delegations pointing at a member, optionally
// scoped to one event
func (s *AdjudicationService) Inbound(ctx context.Context, memberID string, eventID *uuid.UUID) ([]*models.DelegationRequest, error) {
	return s.requests.ListInbound(ctx, memberID, eventID)
}

// Outbound returns the approved delegations originating from a member
func (s *AdjudicationService) Outbound(ctx context.Context, memberID string) ([]*models.DelegationRequest, error) {
	return s.requests.ListOutbound(ctx, memberID)
}

// MemberLedger assembles the full ledger view for one member
func (s *AdjudicationService) MemberLedger(ctx context.Context, memberID string) (*LedgerView, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	inbound, err := s.requests.ListInbound(ctx, memberID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load inbound delegations: %w", err)
	}

	outbound, err := s.requests.ListOutbound(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outbound delegations: %w", err)
	}

	view := &LedgerView{
		MemberID:      m.ID,
		DisplayName:   m.DisplayName,
		VoteWeight:    m.VoteWeight,
		DelegatedFrom: inbound,
	}
	if view.DelegatedFrom == nil {
		view.DelegatedFrom = []*models.DelegationRequest{}
	}
	if len(outbound) > 0 {
		view.DelegatedTo = outbound[0]
	}

	return view, nil
}
