package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
)

type fakeRequestReader struct {
	requests []*models.DelegationRequest
}

func (f *fakeRequestReader) GetByID(_ context.Context, id uuid.UUID) (*models.DelegationRequest, error) {
	for _, r := range f.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperr.NotFoundf("delegation request %s not found", id)
}

func (f *fakeRequestReader) ListByStatus(_ context.Context, status models.RequestStatus) ([]*models.DelegationRequest, error) {
	var out []*models.DelegationRequest
	for _, r := range f.requests {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestReader) ListInbound(_ context.Context, toID string, eventID *uuid.UUID) ([]*models.DelegationRequest, error) {
	var out []*models.DelegationRequest
	for _, r := range f.requests {
		if r.Status != models.RequestApproved || r.ToID != toID {
			continue
		}
		if eventID != nil && r.EventID != *eventID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRequestReader) ListOutbound(_ context.Context, fromID string) ([]*models.DelegationRequest, error) {
	var out []*models.DelegationRequest
	for _, r := range f.requests {
		if r.Status == models.RequestApproved && r.FromID == fromID {
			out = append(out, r)
		}
	}
	return out, nil
}

func approvedRequest(fromID, toID string, eventID uuid.UUID) *models.DelegationRequest {
	return &models.DelegationRequest{
		ID:        uuid.New(),
		FromID:    fromID,
		ToID:      toID,
		EventID:   eventID,
		Status:    models.RequestApproved,
		CreatedAt: time.Now().UTC(),
	}
}

func newAdjudicationEnv(t *testing.T) (*AdjudicationService, *fakeRequestReader, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	store.members["alice"] = approvedMember("alice", "Alice")
	store.members["bob"] = approvedMember("bob", "Bob")

	requests := &fakeRequestReader{}
	svc := NewAdjudicationService(requests, store, logger.New("error", "text"))
	return svc, requests, store
}

func TestPendingQueue(t *testing.T) {
	svc, requests, _ := newAdjudicationEnv(t)
	eventID := uuid.New()

	pending := &models.DelegationRequest{
		ID:      uuid.New(),
		FromID:  "alice",
		ToID:    "bob",
		EventID: eventID,
		Status:  models.RequestPending,
	}
	requests.requests = []*models.DelegationRequest{
		pending,
		approvedRequest("carol", "bob", eventID),
	}

	queue, err := svc.PendingQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)
}

func TestMemberLedger(t *testing.T) {
	svc, requests, store := newAdjudicationEnv(t)
	eventID := uuid.New()

	inbound := approvedRequest("carol", "bob", eventID)
	outbound := approvedRequest("bob", "alice", eventID)
	requests.requests = []*models.DelegationRequest{inbound, outbound}

	store.members["bob"].VoteWeight = 2

	view, err := svc.MemberLedger(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", view.MemberID)
	assert.Equal(t, "Bob", view.DisplayName)
	assert.Equal(t, 2, view.VoteWeight)
	require.Len(t, view.DelegatedFrom, 1)
	assert.Equal(t, inbound.ID, view.DelegatedFrom[0].ID)
	require.NotNil(t, view.DelegatedTo)
	assert.Equal(t, outbound.ID, view.DelegatedTo.ID)
}

func TestMemberLedger_Empty(t *testing.T) {
	svc, _, _ := newAdjudicationEnv(t)

	view, err := svc.MemberLedger(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, view.VoteWeight)
	assert.NotNil(t, view.DelegatedFrom)
	assert.Empty(t, view.DelegatedFrom)
	assert.Nil(t, view.DelegatedTo)
}

func TestMemberLedger_UnknownMember(t *testing.T) {
	svc, _, _ := newAdjudicationEnv(t)

	_, err := svc.MemberLedger(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestInbound_EventScoped(t *testing.T) {
	svc, requests, _ := newAdjudicationEnv(t)

	thisEvent := uuid.New()
	otherEvent := uuid.New()
	requests.requests = []*models.DelegationRequest{
		approvedRequest("alice", "bob", thisEvent),
		approvedRequest("carol", "bob", otherEvent),
	}

	all, err := svc.Inbound(context.Background(), "bob", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.Inbound(context.Background(), "bob", &thisEvent)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, thisEvent, scoped[0].EventID)
}
