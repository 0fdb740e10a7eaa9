package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/ability-forge/internal/errors"
	"github.com/KirkDiggler/ability-forge/internal/uuid"
)

const (
	artifactKeyPrefix = "artifact:"
	monsterIndexKey   = "monster:%s:artifacts"

	defaultTTL = 7 * 24 * time.Hour
)

// RedisRepoConfig holds dependencies for the Redis-backed repository
type RedisRepoConfig struct {
	Client        redis.UniversalClient
	UUIDGenerator uuid.Generator
	TTL           time.Duration
}

type redisRepo struct {
	client        redis.UniversalClient
	uuidGenerator uuid.Generator
	ttl           time.Duration
}

// NewRedisRepository creates a Redis-backed artifact repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("redis client cannot be nil")
	}
	if cfg.UUIDGenerator == nil {
		cfg.UUIDGenerator = uuid.NewGoogleUUIDGenerator()
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	return &redisRepo{
		client:        cfg.Client,
		uuidGenerator: cfg.UUIDGenerator,
		ttl:           ttl,
	}
}

// NewRedis creates a Redis-backed artifact repository with defaults
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewGoogleUUIDGenerator(),
	})
}

func (r *redisRepo) key(id string) string {
	return artifactKeyPrefix + id
}

func (r *redisRepo) monsterKey(monsterKey string) string {
	return fmt.Sprintf(monsterIndexKey, monsterKey)
}

func (r *redisRepo) Save(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}
	if record.Artifact == nil {
		return errors.InvalidArgument("record artifact cannot be nil")
	}

	if record.ID == "" {
		record.ID = r.uuidGenerator.New()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize artifact record: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(record.ID), string(data), r.ttl)
	if record.MonsterKey != "" {
		pipe.SAdd(ctx, r.monsterKey(record.MonsterKey), record.ID)
		pipe.Expire(ctx, r.monsterKey(record.MonsterKey), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save artifact record: %w", err)
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*Record, error) {
	if id == "" {
		return nil, errors.InvalidArgument("id cannot be empty")
	}

	data, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("artifact record '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get artifact record: %w", err)
	}

	var record Record
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to deserialize artifact record: %w", err)
	}
	return &record, nil
}

func (r *redisRepo) ListByMonster(ctx context.Context, monsterKey string) ([]*Record, error) {
	if monsterKey == "" {
		return nil, errors.InvalidArgument("monster key cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, r.monsterKey(monsterKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifact records: %w", err)
	}

	records := make([]*Record, 0, len(ids))
	for _, id := range ids {
		record, err := r.Get(ctx, id)
		if err != nil {
			// Expired entries leave dangling index members
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.InvalidArgument("id cannot be empty")
	}

	record, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.key(id))
	if record.MonsterKey != "" {
		pipe.SRem(ctx, r.monsterKey(record.MonsterKey), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete artifact record: %w", err)
	}
	return nil
}
