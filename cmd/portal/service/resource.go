package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/blob"
	"github.com/aviaunion/portal/common/logger"
	"github.com/aviaunion/portal/common/models"
	"github.com/aviaunion/portal/common/repository"
)

// ResourceService handles the link repository and document templates
type ResourceService struct {
	repo  *repository.ResourceRepository
	blobs blob.Store
	log   *logger.Logger
}

// NewResourceService creates a new resource service
func NewResourceService(repo *repository.ResourceRepository, blobs blob.Store, log *logger.Logger) *ResourceService {
	return &ResourceService{
		repo:  repo,
		blobs: blobs,
		log:   log,
	}
}

// AddLink adds a link to the repository
func (s *ResourceService) AddLink(ctx context.Context, title, url string) (*models.Link, error) {
	if title == "" || url == "" {
		return nil, apperr.Validationf("title and url are required")
	}

	link := &models.Link{
		ID:        uuid.New(),
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.log.Info("link added", "link_id", link.ID, "title", title)
	return link, nil
}

// ListLinks retrieves all links
func (s *ResourceService) ListLinks(ctx context.Context) ([]*models.Link, error) {
	return s.repo.ListLinks(ctx)
}

// RemoveLink deletes a link
func (s *ResourceService) RemoveLink(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteLink(ctx, id)
}

// AddTemplate stores a document template: the file payload goes into the
// blob store, the record keeps the returned reference
func (s *ResourceService) AddTemplate(ctx context.Context, title, fileName string, data []byte) (*models.Template, error) {
	if title == "" || fileName == "" {
		return nil, apperr.Validationf("title and file name are required")
	}
	if len(data) == 0 {
		return nil, apperr.Validationf("template file is empty")
	}

	ref, err := s.blobs.Put(ctx, data, "templates/"+fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}

	tpl := &models.Template{
		ID:        uuid.New(),
		Title:     title,
		FileName:  fileName,
		BlobRef:   ref,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	s.log.Info("template added", "template_id", tpl.ID, "title", title, "ref", ref)
	return tpl, nil
}

// ListTemplates retrieves all template records
func (s *ResourceService) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	return s.repo.ListTemplates(ctx)
}

// TemplateFile loads a template's file payload from the blob store
func (s *ResourceService) TemplateFile(ctx context.Context, id uuid.UUID) (*models.Template, []byte, error) {
	tpl, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Get(ctx, tpl.BlobRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load template file: %w", err)
	}

	return tpl, data, nil
}

// RemoveTemplate deletes a template record and its stored file
func (s *ResourceService) RemoveTemplate(ctx context.Context, id uuid.UUID) error {
	tpl, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTemplate(ctx, id); err != nil {
		return err
	}

	// The record is the source of truth; an orphaned blob is only wasted space
	if err := s.blobs.Delete(ctx, tpl.BlobRef); err != nil {
		s.log.Warn("failed to delete template blob", "template_id", id, "ref", tpl.BlobRef)
	}
	return nil
}

// StoreProof persists a delegation proof-of-authorization document and
// returns its blob reference
func (s *ResourceService) StoreProof(ctx context.Context, memberID, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.Validationf("proof document is empty")
	}

	ref, err := s.blobs.Put(ctx, data, fmt.Sprintf("proofs/%s/%s", memberID, fileName))
	if err != nil {
		return "", fmt.Errorf("failed to store proof document: %w", err)
	}

	s.log.Info("proof document stored", "member_id", memberID, "ref", ref)
	return ref, nil
}
