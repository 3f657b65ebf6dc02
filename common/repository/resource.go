package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

// ResourceRepository handles database operations for the link repository
// and document templates
type ResourceRepository struct {
	db *db.DB
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(database *db.DB) *ResourceRepository {
	return &ResourceRepository{db: database}
}

// CreateLink inserts a link
func (r *ResourceRepository) CreateLink(ctx context.Context, link *models.Link) error {
	query := `INSERT INTO link (id, title, url, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, link.ID, link.Title, link.URL, link.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// ListLinks retrieves all links
func (r *ResourceRepository) ListLinks(ctx context.Context) ([]*models.Link, error) {
	query := `SELECT id, title, url, created_at FROM link ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link := &models.Link{}
		if err := rows.Scan(&link.ID, &link.Title, &link.URL, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// DeleteLink removes a link
func (r *ResourceRepository) DeleteLink(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM link WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("link %s not found", id)
	}

	return nil
}

// CreateTemplate inserts a document template record
func (r *ResourceRepository) CreateTemplate(ctx context.Context, tpl *models.Template) error {
	query := `INSERT INTO template (id, title, file_name, blob_ref, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, tpl.ID, tpl.Title, tpl.FileName, tpl.BlobRef, tpl.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetTemplate retrieves a template record
func (r *ResourceRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	query := `SELECT id, title, file_name, blob_ref, created_at FROM template WHERE id = $1`

	tpl := &models.Template{}
	err := r.db.QueryRow(ctx, query, id).Scan(&tpl.ID, &tpl.Title, &tpl.FileName, &tpl.BlobRef, &tpl.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("template %s not found", id)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return tpl, nil
}

// ListTemplates retrieves all template records
func (r *ResourceRepository) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	query := `SELECT id, title, file_name, blob_ref, created_at FROM template ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		tpl := &models.Template{}
		if err := rows.Scan(&tpl.ID, &tpl.Title, &tpl.FileName, &tpl.BlobRef, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating templates: %w", err)
	}

	return templates, nil
}

// DeleteTemplate removes a template record
func (r *ResourceRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM template WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("template %s not found", id)
	}

	return nil
}
