package service

import (
	"context"
	"fmt"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/notify"
	"github.com/aviaunion/portal/common/repository"
)

// MemberService handles the member registry: registration, admin approval
// and profile maintenance
type MemberService struct {
	repo     *repository.MemberRepository
	notifier notify.Dispatcher
	log      *logger.Logger
}

// NewMemberService creates a new member service
func NewMemberService(repo *repository.MemberRepository, notifier notify.Dispatcher, log *logger.Logger) *MemberService {
	return &MemberService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Register creates a pending member record for an authenticated identity
func (s *MemberService) Register(ctx context.Context, id, displayName, position, email string) (*models.Member, error) {
	if displayName == "" {
		return nil, apperr.Validationf("display name is required")
	}

	m := &models.Member{
		ID:          id,
		DisplayName: displayName,
		Position:    position,
		Email:       email,
		Status:      models.MemberPending,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("member registered", "member_id", id, "name", displayName)
	return s.repo.GetByID(ctx, id)
}

// Get retrieves a member
func (s *MemberService) Get(ctx context.Context, id string) (*models.Member, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves members by registry status
func (s *MemberService) List(ctx context.Context, status models.MemberStatus) ([]*models.Member, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Approve moves a member into the approved registry, granting their base
// vote
func (s *MemberService) Approve(ctx context.Context, id string) error {
	if err := s.repo.Approve(ctx, id); err != nil {
		return err
	}

	s.log.Info("member approved", "member_id", id)

	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:     "member_approved",
		Title:    "Membership approved",
		Body:     "Your union membership has been approved",
		MemberID: id,
	})

	return nil
}

// Delete removes a member from the registry
func (s *MemberService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("member deleted", "member_id", id)
	return nil
}

// UpdateProfile applies a merge patch to a member's contact document
func (s *MemberService) UpdateProfile(ctx context.Context, id string, mergePatch []byte) (*models.Member, error) {
	if len(mergePatch) == 0 {
		return nil, apperr.Validationf("empty profile patch")
	}

	if err := s.repo.UpdateProfile(ctx, id, mergePatch); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

// RegisterToken records a push-notification token for a member
func (s *MemberService) RegisterToken(ctx context.Context, id, token string) error {
	if token == "" {
		return apperr.Validationf("token is required")
	}

	if err := s.repo.AddFCMToken(ctx, id, token); err != nil {
		return fmt.Errorf("failed to register token: %w", err)
	}

	return nil
}
