package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

// RosterRepository handles database operations for the union team roster
type RosterRepository struct {
	db *db.DB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(database *db.DB) *RosterRepository {
	return &RosterRepository{db: database}
}

// Create inserts a team member
func (r *RosterRepository) Create(ctx context.Context, tm *models.TeamMember) error {
	query := `INSERT INTO team_member (id, name, role, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, tm.ID, tm.Name, tm.Role, tm.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}

	return nil
}

// List retrieves the roster
func (r *RosterRepository) List(ctx context.Context) ([]*models.TeamMember, error) {
	query := `SELECT id, name, role, created_at FROM team_member ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	defer rows.Close()

	var team []*models.TeamMember
	for rows.Next() {
		tm := &models.TeamMember{}
		if err := rows.Scan(&tm.ID, &tm.Name, &tm.Role, &tm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		team = append(team, tm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team: %w", err)
	}

	return team, nil
}

// Delete removes a team member
func (r *RosterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM team_member WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team member: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("team member %s not found", id)
	}

	return nil
}
