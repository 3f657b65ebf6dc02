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

// NewsService handles the union news feed
type NewsService struct {
	repo     *repository.NewsRepository
	notifier notify.Dispatcher
	log      *logger.Logger
}

// NewNewsService creates a new news service
func NewNewsService(repo *repository.NewsRepository, notifier notify.Dispatcher, log *logger.Logger) *NewsService {
	return &NewsService{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// Publish creates a news post and broadcasts a push notification
func (s *NewsService) Publish(ctx context.Context, title, body string) (*models.NewsPost, error) {
	if title == "" || body == "" {
		return nil, apperr.Validationf("title and body are required")
	}

	post := &models.NewsPost{
		ID:        uuid.New(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("news published", "news_id", post.ID, "title", title)

	// Broadcast, best-effort
	s.notifier.Dispatch(ctx, notify.Notification{
		Kind:  "news",
		Title: title,
		Body:  body,
	})

	return post, nil
}

// Get retrieves a news post
func (s *NewsService) Get(ctx context.Context, id uuid.UUID) (*models.NewsPost, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves news posts, newest first
func (s *NewsService) List(ctx context.Context, limit int) ([]*models.NewsPost, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.List(ctx, limit)
}

// Delete removes a news post
func (s *NewsService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("news deleted", "news_id", id)
	return nil
}
