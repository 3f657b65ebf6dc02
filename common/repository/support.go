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

const supportColumns = `id, member_id, member_email, text, status, reply, created_at, answered_at`

// SupportRepository handles database operations for support requests
type SupportRepository struct {
	db *db.DB
}

// NewSupportRepository creates a new support repository
func NewSupportRepository(database *db.DB) *SupportRepository {
	return &SupportRepository{db: database}
}

// Create inserts a support request
func (r *SupportRepository) Create(ctx context.Context, req *models.SupportRequest) error {
	query := `
		INSERT INTO support_request (id, member_id, member_email, text, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, req.ID, req.MemberID, req.MemberEmail, req.Text, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support request: %w", err)
	}

	return nil
}

// ListByMember retrieves a member's own support requests, newest first
func (r *SupportRepository) ListByMember(ctx context.Context, memberID string) ([]*models.SupportRequest, error) {
	query := `SELECT ` + supportColumns + ` FROM support_request WHERE member_id = $1 ORDER BY created_at DESC`

	return r.query(ctx, query, memberID)
}

// ListAll retrieves all support requests, newest first
func (r *SupportRepository) ListAll(ctx context.Context) ([]*models.SupportRequest, error) {
	query := `SELECT ` + supportColumns + ` FROM support_request ORDER BY created_at DESC`

	return r.query(ctx, query)
}

// Answer records an admin reply and marks the request answered
func (r *SupportRepository) Answer(ctx context.Context, id uuid.UUID, reply string, answeredAt time.Time) error {
	query := `
		UPDATE support_request
		SET reply = $2, status = 'answered', answered_at = $3
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, reply, answeredAt)
	if err != nil {
		return fmt.Errorf("failed to answer support request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("support request %s not found", id)
	}

	return nil
}

func (r *SupportRepository) query(ctx context.Context, query string, args ...any) ([]*models.SupportRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list support requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.SupportRequest
	for rows.Next() {
		req := &models.SupportRequest{}
		err := rows.Scan(
			&req.ID,
			&req.MemberID,
			&req.MemberEmail,
			&req.Text,
			&req.Status,
			&req.Reply,
			&req.CreatedAt,
			&req.AnsweredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan support request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating support requests: %w", err)
	}

	return requests, nil
}
