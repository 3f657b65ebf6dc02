package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/notify"
	"github.com/aviaunion/portal/common/repository"
)

// MemberReader provides read access to member records
type MemberReader interface {
	GetByID(ctx context.Context, id string) (*models.Member, error)
}

// EventSource provides read access to the event calendar
type EventSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Nearest(ctx context.Context, now time.Time) (*models.Event, error)
}

// ConcludableLister finds approved delegations whose event has passed
type ConcludableLister interface {
	ListConcludable(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// DelegationService owns the proxy-vote delegation workflow. It is the only
// writer of the ledger fields on member records; every multi-record
// transition runs inside one ledger transaction.
type DelegationService struct {
	ledger      repository.Ledger
	members     MemberReader
	events      EventSource
	concludable ConcludableLister
	notifier    notify.Dispatcher
	log         *logger.Logger
	windowLead  time.Duration
}

// NewDelegationService creates a new delegation service
func NewDelegationService(
	ledger repository.Ledger,
	members MemberReader,
	events EventSource,
	concludable ConcludableLister,
	notifier notify.Dispatcher,
	log *logger.Logger,
	windowLead time.Duration,
) *DelegationService {
	return &DelegationService{
		ledger:      ledger,
		members:     members,
		events:      events,
		concludable: concludable,
		notifier:    notifier,
		log:         log,
		windowLead:  windowLead,
	}
}

// Window evaluates the delegation window gate against the nearest event
func (s *DelegationService) Window(ctx context.Context, now time.Time) (WindowDecision, error) {
	nearest, err := s.events.Nearest(ctx, now)
	if err != nil {
		return WindowDecision{}, fmt.Errorf("failed to resolve nearest event: %w", err)
	}

	return EvaluateWindow(nearest, s.windowLead, now), nil
}

// CreateRequest files a pending delegation of fromID's vote to toID for the
// given event. Purely advisory: no vote weight moves until an admin
// approves. The delegator's none->pending transition is checked and written
// inside the same transaction as the insert, so a concurrent second
// submission or an in-flight approval cannot slip past it.
func (s *DelegationService) CreateRequest(ctx context.Context, fromID, toID string, eventID uuid.UUID, proofRef *string) (*models.DelegationRequest, error) {
	if toID == "" {
		return nil, apperr.Validationf("no delegate selected")
	}
	if fromID == toID {
		return nil, apperr.Validationf("cannot delegate a vote to yourself")
	}

	now := time.Now().UTC()

	nearest, err := s.events.Nearest(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve nearest event: %w", err)
	}
	if nearest == nil || nearest.ID != eventID {
		return nil, apperr.Validationf("delegation window is not open for this event")
	}

	decision := EvaluateWindow(nearest, s.windowLead, now)
	if !decision.Open {
		return nil, apperr.Validationf("delegation window is closed: %s", decision.Reason)
	}

	var request *models.DelegationRequest

	err = s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		from, to, err := lockPair(ctx, tx, fromID, toID)
		if err != nil {
			return err
		}

		if from.Status != models.MemberApproved {
			return apperr.Validationf("member %s is not approved for voting", fromID)
		}
		if to.Status != models.MemberApproved {
			return apperr.Validationf("delegate %s is not approved for voting", toID)
		}
		if from.DelegationStatus != models.DelegationNone {
			return apperr.Conflictf("you already have an active delegation request")
		}
		if from.HoldsDelegations() {
			return apperr.Conflictf("members holding delegated votes cannot delegate their own")
		}
		if to.HasDelegatedAway() {
			return apperr.Conflictf("delegate %s has already delegated their vote away", toID)
		}

		request = &models.DelegationRequest{
			ID:         uuid.New(),
			FromID:     from.ID,
			FromName:   from.DisplayName,
			ToID:       to.ID,
			ToName:     to.DisplayName,
			ProofRef:   proofRef,
			EventID:    nearest.ID,
			EventTitle: nearest.Title,
			Status:     models.RequestPending,
			CreatedAt:  now,
		}

		if err := tx.InsertRequest(ctx, request); err != nil {
			return err
		}

		from.DelegationStatus = models.DelegationPendingOutbound
		from.DelegatedToName = &to.DisplayName

		return tx.UpdateMemberLedger(ctx, from)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithRequestID(request.ID.String()).WithMemberID(fromID).Info(
		"delegation request created", "to", toID, "event_id", eventID)

	return request, nil
}

// ApproveRequest executes the admin approval: the request, the delegator and
// the delegate are updated in one atomic transaction. Any missing record or
// violated precondition aborts the whole transition.
func (s *DelegationService) ApproveRequest(ctx context.Context, requestID uuid.UUID, adminID string) (*models.DelegationRequest, error) {
	var request *models.DelegationRequest

	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Decided() {
			return apperr.Conflictf("delegation request %s is already %s", requestID, req.Status)
		}

		from, to, err := lockPair(ctx, tx, req.FromID, req.ToID)
		if err != nil {
			return err
		}

		if from.Status != models.MemberApproved || to.Status != models.MemberApproved {
			return apperr.Validationf("both members must still be approved")
		}
		if from.DelegationStatus != models.DelegationPendingOutbound {
			return apperr.Conflictf("delegator %s has no pending delegation", req.FromID)
		}
		if from.HoldsDelegations() {
			return apperr.Conflictf("delegator %s now holds delegated votes", req.FromID)
		}
		if to.HasDelegatedAway() {
			return apperr.Conflictf("delegate %s has delegated their own vote away", req.ToID)
		}

		now := time.Now().UTC()
		if err := tx.MarkRequestDecided(ctx, req.ID, models.RequestApproved, adminID, now); err != nil {
			return err
		}

		from.VoteWeight = 0
		from.DelegationStatus = models.DelegationApproved
		from.DelegatedToID = &req.ToID
		from.DelegatedToName = &req.ToName
		eventID := req.EventID
		from.DelegationEventID = &eventID
		if err := tx.UpdateMemberLedger(ctx, from); err != nil {
			return err
		}

		to.VoteWeight++
		to.DelegatedFrom = append(to.DelegatedFrom, models.DelegatedFrom{
			MemberID: from.ID,
			Name:     from.DisplayName,
		})
		if err := tx.UpdateMemberLedger(ctx, to); err != nil {
			return err
		}

		req.Status = models.RequestApproved
		req.DecidedAt = &now
		req.DecidedBy = &adminID
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithRequestID(requestID.String()).WithMemberID(request.FromID).Info(
		"delegation request approved", "to", request.ToID, "admin", adminID)

	// Best-effort; never fails the transition
	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:     "delegation_approved",
		Title:    "Delegation approved",
		Body:     fmt.Sprintf("Your vote for %q is now delegated to %s", request.EventTitle, request.ToName),
		MemberID: request.FromID,
	})
	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:     "delegation_received",
		Title:    "Delegation received",
		Body:     fmt.Sprintf("%s delegated their vote for %q to you", request.FromName, request.EventTitle),
		MemberID: request.ToID,
	})

	return request, nil
}

// RejectRequest executes the admin rejection: the request is retained for
// audit and the delegator's pending marker is reset. No vote weight moves,
// since none moved at creation.
func (s *DelegationService) RejectRequest(ctx context.Context, requestID uuid.UUID, adminID string) (*models.DelegationRequest, error) {
	var request *models.DelegationRequest

	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Decided() {
			return apperr.Conflictf("delegation request %s is already %s", requestID, req.Status)
		}

		from, err := tx.MemberForUpdate(ctx, req.FromID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := tx.MarkRequestDecided(ctx, req.ID, models.RequestRejected, adminID, now); err != nil {
			return err
		}

		from.DelegationStatus = models.DelegationNone
		from.DelegatedToName = nil
		if err := tx.UpdateMemberLedger(ctx, from); err != nil {
			return err
		}

		req.Status = models.RequestRejected
		req.DecidedAt = &now
		req.DecidedBy = &adminID
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithRequestID(requestID.String()).Info("delegation request rejected", "admin", adminID)

	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:     "delegation_rejected",
		Title:    "Delegation rejected",
		Body:     fmt.Sprintf("Your delegation request for %q was rejected", request.EventTitle),
		MemberID: request.FromID,
	})

	return request, nil
}

// ActiveDelegationFor reports whether a member's approved delegation is
// scoped to the given event. A delegation for an earlier event is inactive
// for voting even while its stored fields remain.
func (s *DelegationService) ActiveDelegationFor(ctx context.Context, memberID string, eventID uuid.UUID) (bool, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return false, err
	}

	return m.HasDelegatedAway() &&
		m.DelegationEventID != nil &&
		*m.DelegationEventID == eventID, nil
}

// ConcludePassed closes out approved delegations whose event has passed or
// was deleted: the request moves to concluded, the delegator's base vote is
// restored and the delegate's received weight is withdrawn. Each delegation
// concludes in its own transaction; one failure does not block the rest.
func (s *DelegationService) ConcludePassed(ctx context.Context, now time.Time) (int, error) {
	ids, err := s.concludable.ListConcludable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to list concludable delegations: %w", err)
	}

	concluded := 0
	for _, id := range ids {
		if err := s.concludeOne(ctx, id, now); err != nil {
			s.log.WithRequestID(id.String()).Error("failed to conclude delegation", "error", err)
			continue
		}
		concluded++
	}

	if concluded > 0 {
		s.log.Info("concluded passed delegations", "count", concluded)
	}

	return concluded, nil
}

func (s *DelegationService) concludeOne(ctx context.Context, requestID uuid.UUID, now time.Time) error {
	return s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		req, err := tx.RequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.RequestApproved {
			// Raced with another sweep
			return nil
		}

		from, to, err := lockPair(ctx, tx, req.FromID, req.ToID)
		if err != nil {
			return err
		}

		if err := tx.MarkRequestDecided(ctx, req.ID, models.RequestConcluded, "system", now); err != nil {
			return err
		}

		from.VoteWeight = 1
		from.DelegationStatus = models.DelegationNone
		from.DelegatedToID = nil
		from.DelegatedToName = nil
		from.DelegationEventID = nil
		if err := tx.UpdateMemberLedger(ctx, from); err != nil {
			return err
		}

		if to.VoteWeight > 0 {
			to.VoteWeight--
		}
		kept := to.DelegatedFrom[:0]
		for _, d := range to.DelegatedFrom {
			if d.MemberID != from.ID {
				kept = append(kept, d)
			}
		}
		to.DelegatedFrom = kept
		return tx.UpdateMemberLedger(ctx, to)
	})
}

// lockPair locks two member rows in deterministic id order so concurrent
// transitions touching the same pair cannot deadlock
func lockPair(ctx context.Context, tx repository.LedgerTx, aID, bID string) (a, b *models.Member, err error) {
	ids := []string{aID, bID}
	sort.Strings(ids)

	locked := make(map[string]*models.Member, 2)
	for _, id := range ids {
		m, err := tx.MemberForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		locked[id] = m
	}

	return locked[aID], locked[bID], nil
}
