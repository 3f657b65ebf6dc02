package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

const requestColumns = `
	id, from_id, from_name, to_id, to_name, proof_ref,
	event_id, event_title, status, created_at, decided_at, decided_by
`

// DelegationRepository handles database operations for delegation requests
// and implements Ledger over pgx row locks with optimistic version checks.
type DelegationRepository struct {
	db        *db.DB
	txRetries int
}

// NewDelegationRepository creates a new delegation repository
func NewDelegationRepository(database *db.DB, txRetries int) *DelegationRepository {
	return &DelegationRepository{db: database, txRetries: txRetries}
}

// InTx runs fn against a transactional ledger view
func (r *DelegationRepository) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return r.db.InTx(ctx, r.txRetries, func(tx pgx.Tx) error {
		return fn(&pgxLedgerTx{tx: tx})
	})
}

// pgxLedgerTx implements LedgerTx over one pgx transaction
type pgxLedgerTx struct {
	tx pgx.Tx
}

// MemberForUpdate loads a member under a row lock
func (t *pgxLedgerTx) MemberForUpdate(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member WHERE id = $1 FOR UPDATE`

	m, err := scanMember(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("member %s not found", id)
		}
		return nil, fmt.Errorf("failed to lock member: %w", err)
	}

	return m, nil
}

// UpdateMemberLedger writes the ledger fields of a member with a version
// check. The caller must have loaded the member via MemberForUpdate in the
// same transaction.
func (t *pgxLedgerTx) UpdateMemberLedger(ctx context.Context, m *models.Member) error {
	query := `
		UPDATE member
		SET vote_weight = $2, delegated_to_id = $3, delegated_to_name = $4,
		    delegation_event_id = $5, delegation_status = $6,
		    delegated_from = $7, version = version + 1
		WHERE id = $1 AND version = $8
	`

	delegatedFrom := m.DelegatedFrom
	if delegatedFrom == nil {
		delegatedFrom = []models.DelegatedFrom{}
	}

	tag, err := t.tx.Exec(
		ctx,
		query,
		m.ID,
		m.VoteWeight,
		m.DelegatedToID,
		m.DelegatedToName,
		m.DelegationEventID,
		m.DelegationStatus,
		delegatedFrom,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update member ledger: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.TxConflictf(nil, "member %s changed concurrently", m.ID)
	}

	m.Version++
	return nil
}

// InsertRequest inserts a pending delegation request
func (t *pgxLedgerTx) InsertRequest(ctx context.Context, req *models.DelegationRequest) error {
	query := `
		INSERT INTO delegation_request (id, from_id, from_name, to_id, to_name, proof_ref, event_id, event_title, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := t.tx.Exec(
		ctx,
		query,
		req.ID,
		req.FromID,
		req.FromName,
		req.ToID,
		req.ToName,
		req.ProofRef,
		req.EventID,
		req.EventTitle,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delegation request: %w", err)
	}

	return nil
}

// RequestForUpdate loads a delegation request under a row lock
func (t *pgxLedgerTx) RequestForUpdate(ctx context.Context, id uuid.UUID) (*models.DelegationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE id = $1 FOR UPDATE`

	req, err := scanRequest(t.tx.QueryRow(ctx, query, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("delegation request %s not found", id)
		}
		return nil, fmt.Errorf("failed to lock delegation request: %w", err)
	}

	return req, nil
}

// MarkRequestDecided records the terminal decision on a request
func (t *pgxLedgerTx) MarkRequestDecided(ctx context.Context, id uuid.UUID, status models.RequestStatus, decidedBy string, decidedAt time.Time) error {
	query := `
		UPDATE delegation_request
		SET status = $2, decided_by = $3, decided_at = $4
		WHERE id = $1
	`

	tag, err := t.tx.Exec(ctx, query, id, status, decidedBy, decidedAt)
	if err != nil {
		return fmt.Errorf("failed to mark delegation request decided: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("delegation request %s not found", id)
	}

	return nil
}

func scanRequest(row rowScanner) (*models.DelegationRequest, error) {
	req := &models.DelegationRequest{}
	err := row.Scan(
		&req.ID,
		&req.FromID,
		&req.FromName,
		&req.ToID,
		&req.ToName,
		&req.ProofRef,
		&req.EventID,
		&req.EventTitle,
		&req.Status,
		&req.CreatedAt,
		&req.DecidedAt,
		&req.DecidedBy,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// GetByID retrieves a delegation request by id
func (r *DelegationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.DelegationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE id = $1`

	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("delegation request %s not found", id)
		}
		return nil, fmt.Errorf("failed to get delegation request: %w", err)
	}

	return req, nil
}

// ListByStatus retrieves delegation requests by lifecycle state, newest
// first. Used for the admin pending queue and audit views.
func (r *DelegationRepository) ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.DelegationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE status = $1 ORDER BY created_at DESC`

	return r.queryRequests(ctx, query, status)
}

// ListInbound retrieves approved requests pointing at a member, optionally
// filtered by event
func (r *DelegationRepository) ListInbound(ctx context.Context, toID string, eventID *uuid.UUID) ([]*models.DelegationRequest, error) {
	if eventID != nil {
		query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE to_id = $1 AND event_id = $2 AND status = 'approved' ORDER BY created_at DESC`
		return r.queryRequests(ctx, query, toID, *eventID)
	}

	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE to_id = $1 AND status = 'approved' ORDER BY created_at DESC`
	return r.queryRequests(ctx, query, toID)
}

// ListOutbound retrieves approved requests originating from a member.
// Expected cardinality is at most one at a time.
func (r *DelegationRepository) ListOutbound(ctx context.Context, fromID string) ([]*models.DelegationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE from_id = $1 AND status = 'approved' ORDER BY created_at DESC`

	return r.queryRequests(ctx, query, fromID)
}

// ListByMember retrieves every request a member appears in, newest first
func (r *DelegationRepository) ListByMember(ctx context.Context, memberID string) ([]*models.DelegationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM delegation_request WHERE from_id = $1 OR to_id = $1 ORDER BY created_at DESC`

	return r.queryRequests(ctx, query, memberID)
}

// ListConcludable returns ids of approved requests whose event has passed
// or no longer exists
func (r *DelegationRepository) ListConcludable(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT r.id
		FROM delegation_request r
		WHERE r.status = 'approved'
		  AND NOT EXISTS (
		      SELECT 1 FROM event e
		      WHERE e.id = r.event_id AND e.scheduled_at > $1
		  )
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list concludable requests: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan request id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request ids: %w", err)
	}

	return ids, nil
}

func (r *DelegationRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*models.DelegationRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegation requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.DelegationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delegation request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delegation requests: %w", err)
	}

	return requests, nil
}
