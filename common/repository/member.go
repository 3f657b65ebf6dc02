package repository

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

const memberColumns = `
	id, display_name, position, email, contact, fcm_tokens, status,
	vote_weight, delegated_to_id, delegated_to_name, delegation_event_id,
	delegation_status, delegated_from, version, created_at
`

// MemberRepository handles database operations for members
type MemberRepository struct {
	db *db.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(database *db.DB) *MemberRepository {
	return &MemberRepository{db: database}
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(
		&m.ID,
		&m.DisplayName,
		&m.Position,
		&m.Email,
		&m.Contact,
		&m.FCMTokens,
		&m.Status,
		&m.VoteWeight,
		&m.DelegatedToID,
		&m.DelegatedToName,
		&m.DelegationEventID,
		&m.DelegationStatus,
		&m.DelegatedFrom,
		&m.Version,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.DelegatedFrom == nil {
		m.DelegatedFrom = []models.DelegatedFrom{}
	}
	return m, nil
}

// Create inserts a new member in pending state with zero vote weight
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO member (id, display_name, position, email, contact, fcm_tokens, status, vote_weight)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending', 0)
	`

	contact := m.Contact
	if contact == nil {
		contact = map[string]any{}
	}
	tokens := m.FCMTokens
	if tokens == nil {
		tokens = []string{}
	}

	_, err := r.db.Exec(ctx, query, m.ID, m.DisplayName, m.Position, m.Email, contact, tokens)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetByID retrieves a member by id
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member WHERE id = $1`

	m, err := scanMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("member %s not found", id)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return m, nil
}

// ListByStatus retrieves members filtered by registry status
func (r *MemberRepository) ListByStatus(ctx context.Context, status models.MemberStatus) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member WHERE status = $1 ORDER BY display_name`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// Approve moves a pending member into the approved registry and grants
// their base vote. Idempotent: approving an already-approved member is a
// no-op.
func (r *MemberRepository) Approve(ctx context.Context, id string) error {
	query := `
		UPDATE member
		SET status = 'approved', vote_weight = 1, version = version + 1
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to approve member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either already approved or missing; distinguish for the caller
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes a member. Members entangled in the vote ledger cannot be
// deleted until their delegations are resolved.
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if m.DelegationStatus != models.DelegationNone || m.HoldsDelegations() {
		return apperr.Conflictf("member %s has unresolved delegations", id)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM member WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}

	return nil
}

// UpdateProfile applies an RFC 7386 merge patch to the member's contact
// document and optionally replaces display fields. Mirrors the partial
// update semantics the mobile clients expect.
func (r *MemberRepository) UpdateProfile(ctx context.Context, id string, mergePatch []byte) error {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	patched, err := mergeContact(m.Contact, mergePatch)
	if err != nil {
		return err
	}

	query := `UPDATE member SET contact = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, patched); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// mergeContact merges an RFC 7386 patch into a contact document: new keys
// are added, existing keys replaced, and null-valued keys removed
func mergeContact(current map[string]any, patch []byte) (map[string]any, error) {
	if current == nil {
		current = map[string]any{}
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contact: %w", err)
	}

	patchedJSON, err := jsonpatch.MergePatch(currentJSON, patch)
	if err != nil {
		return nil, apperr.Validationf("invalid profile patch: %v", err)
	}

	var patched map[string]any
	if err := json.Unmarshal(patchedJSON, &patched); err != nil {
		return nil, apperr.Validationf("profile patch must be a JSON object")
	}

	return patched, nil
}

// AddFCMToken registers a push-notification token for a member
func (r *MemberRepository) AddFCMToken(ctx context.Context, id, token string) error {
	query := `
		UPDATE member
		SET fcm_tokens = (
			SELECT jsonb_agg(DISTINCT t)
			FROM jsonb_array_elements(fcm_tokens || to_jsonb($2::text)) AS t
		)
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("failed to add fcm token: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("member %s not found", id)
	}

	return nil
}
