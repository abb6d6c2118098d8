package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/etokheim/scene-extrapolation/internal/extrapolate"
	"github.com/etokheim/scene-extrapolation/pkg/redis"
)

// ErrNotFound is returned when a scene id resolves to nothing. The agent
// treats it as a configuration error and aborts the activation.
var ErrNotFound = errors.New("scene not found")

// Store resolves scene ids to snapshots
type Store interface {
	// Lookup returns the snapshot for a scene id, or ErrNotFound
	Lookup(ctx context.Context, id string) (extrapolate.Snapshot, error)
}

// StateReader reads the last reported state of an entity
type StateReader interface {
	// State returns the entity's state string ("on", "off", ...)
	State(ctx context.Context, entityID string) (string, error)
}

// RedisStore reads scene snapshots stored as JSON under scene:{id}
type RedisStore struct {
	redis  redis.Client
	logger *slog.Logger
}

// NewRedisStore creates a Redis-backed scene store
func NewRedisStore(redisClient redis.Client, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		redis:  redisClient,
		logger: logger,
	}
}

// Lookup fetches and decodes one scene snapshot
func (s *RedisStore) Lookup(ctx context.Context, id string) (extrapolate.Snapshot, error) {
	if id == "" {
		return extrapolate.Snapshot{}, ErrNotFound
	}

	key := redis.SceneKey(id)
	exists, err := s.redis.Exists(ctx, key)
	if err != nil {
		return extrapolate.Snapshot{}, fmt.Errorf("failed to check scene %s: %w", id, err)
	}
	if !exists {
		return extrapolate.Snapshot{}, fmt.Errorf("scene %s: %w", id, ErrNotFound)
	}

	raw, err := s.redis.Get(ctx, key)
	if err != nil {
		return extrapolate.Snapshot{}, fmt.Errorf("failed to read scene %s: %w", id, err)
	}

	var snapshot extrapolate.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return extrapolate.Snapshot{}, fmt.Errorf("failed to decode scene %s: %w", id, err)
	}
	if snapshot.ID == "" {
		snapshot.ID = id
	}

	s.logger.Debug("Resolved scene from Redis",
		"scene_id", id,
		"entity_count", len(snapshot.Entities))

	return snapshot, nil
}

// RedisStateReader reads entity states stored under state:entity:{id}
type RedisStateReader struct {
	redis redis.Client
}

// NewRedisStateReader creates a Redis-backed entity state reader
func NewRedisStateReader(redisClient redis.Client) *RedisStateReader {
	return &RedisStateReader{redis: redisClient}
}

// State returns the entity's last reported state
func (r *RedisStateReader) State(ctx context.Context, entityID string) (string, error) {
	return r.redis.Get(ctx, redis.EntityStateKey(entityID))
}
