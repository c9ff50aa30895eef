package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"dedupe/internal/run/models"
	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
	"dedupe/pkg/requestcontext"
)

const runKeyPrefix = "run:"

// RedisStore is the production run cache for deployments with more than one
// instance. Expiry is delegated to Redis key TTLs, so the remaining lifetime
// survives process restarts.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func runKey(id domain.RunID) string {
	return runKeyPrefix + id.String()
}

func (s *RedisStore) Save(ctx context.Context, run *models.Run) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal run")
	}

	ttl := run.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return dErrors.New(dErrors.CodeValidation, "run already expired")
	}

	if err := s.client.Set(ctx, runKey(run.ID), payload, ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save run")
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, id domain.RunID) (*models.Run, error) {
	payload, err := s.client.Get(ctx, runKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load run")
	}

	var run models.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unmarshal run")
	}
	return &run, nil
}

func (s *RedisStore) MarkPaid(ctx context.Context, id domain.RunID) error {
	run, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	run.Paid = true

	payload, err := json.Marshal(run)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal run")
	}
	// KeepTTL preserves the remaining session lifetime set at save time.
	if err := s.client.Set(ctx, runKey(id), payload, redis.KeepTTL).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update run")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id domain.RunID) error {
	if err := s.client.Del(ctx, runKey(id)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete run")
	}
	return nil
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*InMemoryStore)(nil)
)
