package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aviaunion/portal/common/apperr"
	"github.com/aviaunion/portal/common/db"
	"github.com/aviaunion/portal/common/models"
)

// NewsRepository handles database operations for the news feed
type NewsRepository struct {
	db *db.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(database *db.DB) *NewsRepository {
	return &NewsRepository{db: database}
}

// Create inserts a news post
func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	query := `INSERT INTO news (id, title, body, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, post.ID, post.Title, post.Body, post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create news post: %w", err)
	}

	return nil
}

// GetByID retrieves a news post
func (r *NewsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.NewsPost, error) {
	query := `SELECT id, title, body, created_at FROM news WHERE id = $1`

	post := &models.NewsPost{}
	err := r.db.QueryRow(ctx, query, id).Scan(&post.ID, &post.Title, &post.Body, &post.CreatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFoundf("news post %s not found", id)
		}
		return nil, fmt.Errorf("failed to get news post: %w", err)
	}

	return post, nil
}

// List retrieves news posts, newest first
func (r *NewsRepository) List(ctx context.Context, limit int) ([]*models.NewsPost, error) {
	query := `SELECT id, title, body, created_at FROM news ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var posts []*models.NewsPost
	for rows.Next() {
		post := &models.NewsPost{}
		if err := rows.Scan(&post.ID, &post.Title, &post.Body, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating news: %w", err)
	}

	return posts, nil
}

// Delete removes a news post
func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news post: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("news post %s not found", id)
	}

	return nil
}
