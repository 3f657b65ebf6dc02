package blob

import (
	"context"
	"crypto/sha256"
	"fmt"

	redisWrapper "github.com/aviaunion/portal/common/redis"
)

// Store persists uploaded file payloads and hands back an opaque reference.
// The delegation workflow and the template repository store the reference,
// never the bytes.
type Store interface {
	Put(ctx context.Context, data []byte, path string) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// RedisStore keeps blobs in Redis, keyed by content hash
type RedisStore struct {
	redis  *redisWrapper.Client
	logger redisWrapper.Logger
}

// NewRedisStore creates a Redis-backed blob store
func NewRedisStore(client *redisWrapper.Client, logger redisWrapper.Logger) *RedisStore {
	return &RedisStore{
		redis:  client,
		logger: logger,
	}
}

// Put stores data and returns its reference (sha256 of the content,
// prefixed with the logical path for traceability)
func (s *RedisStore) Put(ctx context.Context, data []byte, path string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty blob for path %s", path)
	}

	ref := fmt.Sprintf("%s/sha256:%x", path, sha256.Sum256(data))
	key := fmt.Sprintf("blob:%s", ref)

	// No expiry: proof documents and templates are kept until deleted
	if err := s.redis.SetWithExpiry(ctx, key, data, 0); err != nil {
		s.logger.Error("failed to store blob", "ref", ref, "error", err)
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	s.logger.Debug("stored blob", "ref", ref, "size", len(data))
	return ref, nil
}

// Get retrieves a blob by its reference
func (s *RedisStore) Get(ctx context.Context, ref string) ([]byte, error) {
	key := fmt.Sprintf("blob:%s", ref)

	data, err := s.redis.Get(ctx, key)
	if err != nil {
		s.logger.Warn("blob not found", "ref", ref)
		return nil, fmt.Errorf("blob not found: %s", ref)
	}

	s.logger.Debug("retrieved blob", "ref", ref, "size", len(data))
	return data, nil
}

// Delete removes a blob by its reference
func (s *RedisStore) Delete(ctx context.Context, ref string) error {
	key := fmt.Sprintf("blob:%s", ref)

	if err := s.redis.Delete(ctx, key); err != nil {
		s.logger.Error("failed to delete blob", "ref", ref, "error", err)
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	s.logger.Debug("deleted blob", "ref", ref)
	return nil
}
