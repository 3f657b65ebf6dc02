package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/repository"
)

// RosterService handles the union team roster
type RosterService struct {
	repo *repository.RosterRepository
	log  *logger.Logger
}

// NewRosterService creates a new roster service
func NewRosterService(repo *repository.RosterRepository, log *logger.Logger) *RosterService {
	return &RosterService{
		repo: repo,
		log:  log,
	}
}

// Add appends a person to the roster
func (s *RosterService) Add(ctx context.Context, name, role string) (*models.TeamMember, error) {
	if name == "" || role == "" {
		return nil, apperr.Validationf("name and role are required")
	}

	tm := &models.TeamMember{
		ID:        uuid.New(),
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, tm); err != nil {
		return nil, err
	}

	s.log.Info("team member added", "team_member_id", tm.ID, "name", name)
	return tm, nil
}

// List retrieves the roster
func (s *RosterService) List(ctx context.Context) ([]*models.TeamMember, error) {
	return s.repo.List(ctx)
}

// Remove deletes a roster entry
func (s *RosterService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("team member removed", "team_member_id", id)
	return nil
}
