package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/wellvitas/booking-platform/internal/wizard"
)

// RedisStore persists drafts as JSON values with a sliding TTL, so an
// abandoned wizard cleans itself up.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore builds a store backed by the provided client.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("draft: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("wellvitas.internal.draft")
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
	}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, snap wizard.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "draft.save")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to persist draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*wizard.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "draft.load")
	defer span.End()

	data, err := s.redis.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("draft: failed to load draft: %w", err)
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// A corrupt draft is treated as absent; the wizard restarts empty.
		span.RecordError(err)
		return nil, nil
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "draft.delete")
	defer span.End()

	if err := s.redis.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("draft: failed to delete draft: %w", err)
	}
	return nil
}

func draftKey(sessionID string) string {
	return fmt.Sprintf("booking:draft:%s", sessionID)
}

var _ wizard.DraftStore = (*RedisStore)(nil)
