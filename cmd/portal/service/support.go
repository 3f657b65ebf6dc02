package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/notify"
	"github.com/aviaunion/portal/common/repository"
)

// SupportService handles member-to-admin support threads
type SupportService struct {
	repo     *repository.SupportRepository
	notifier notify.Dispatcher
	log      *logger.Logger
}

// NewSupportService creates a new support service
func NewSupportService(repo *repository.SupportRepository, notifier notify.Dispatcher, log *logger.Logger) *SupportService {
	return &SupportService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Create files a new support request from a member
func (s *SupportService) Create(ctx context.Context, memberID, memberEmail, text string) (*models.SupportRequest, error) {
	if text == "" {
		return nil, apperr.Validationf("message text is required")
	}

	req := &models.SupportRequest{
		ID:          uuid.New(),
		MemberID:    memberID,
		MemberEmail: memberEmail,
		Text:        text,
		Status:      models.SupportNew,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info("support request created", "support_id", req.ID, "member_id", memberID)
	return req, nil
}

// ListMine retrieves a member's own support requests
func (s *SupportService) ListMine(ctx context.Context, memberID string) ([]*models.SupportRequest, error) {
	return s.repo.ListByMember(ctx, memberID)
}

// ListAll retrieves all support requests for the admin surface
func (s *SupportService) ListAll(ctx context.Context) ([]*models.SupportRequest, error) {
	return s.repo.ListAll(ctx)
}

// Answer records an admin reply and notifies the member
func (s *SupportService) Answer(ctx context.Context, id uuid.UUID, memberID, reply string) error {
	if reply == "" {
		return apperr.Validationf("reply text is required")
	}

	if err := s.repo.Answer(ctx, id, reply, time.Now().UTC()); err != nil {
		return err
	}

	s.log.Info("support request answered", "support_id", id)

	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:     "support_answered",
		Title:    "Your question was answered",
		Body:     reply,
		MemberID: memberID,
	})

	return nil
}
