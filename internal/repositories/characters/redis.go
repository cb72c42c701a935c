package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/KirkDiggler/dnd-sheet-engine/internal/domain/character"
	dnderr "github.com/KirkDiggler/dnd-sheet-engine/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// redisRepo implements the Repository interface using Redis. Each character
// is one JSON value; a set per owner indexes their characters.
type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider // Optional, UTC wall clock when nil
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = utcTimeProvider{}
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: tp,
	}
}

// key generates the Redis key for a character
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// ownerCharactersKey generates the Redis key for an owner's character list
func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	exists, err := r.client.Exists(ctx, r.key(char.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check character existence: %w", err)
	}
	if exists > 0 {
		return dnderr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	now := r.timeProvider.Now()
	char.CreatedAt = now
	char.UpdatedAt = now

	jsonData, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(jsonData), 0)
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}

	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, dnderr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	char := &character.Character{}
	if err := json.Unmarshal([]byte(jsonData), char); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	char.EnsureDefaults()
	return char, nil
}

// ListByOwner loads an owner's characters concurrently. Ids left in the index
// after their record was removed are skipped.
func (r *redisRepo) ListByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, dnderr.InvalidArgument("owner ID is required")
	}

	ids, err := r.client.SMembers(ctx, r.ownerCharactersKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	loaded := make([]*character.Character, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if dnderr.IsNotFound(err) {
				log.Printf("Skipping stale character %s in index for owner %s", id, ownerID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			loaded[i] = char
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Character, 0, len(loaded))
	for _, char := range loaded {
		if char != nil {
			result = append(result, char)
		}
	}
	sortByName(result)
	return result, nil
}

// Update replaces an existing character, keeping its creation time and
// moving it between owner indexes if the owner changed.
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validate(char); err != nil {
		return err
	}

	existing, err := r.Get(ctx, char.ID)
	if err != nil {
		return err
	}

	char.CreatedAt = existing.CreatedAt
	char.UpdatedAt = r.timeProvider.Now()

	jsonData, err := json.Marshal(char)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	if err := r.client.Set(ctx, r.key(char.ID), string(jsonData), 0).Err(); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	if existing.OwnerID != char.OwnerID {
		pipe := r.client.Pipeline()
		pipe.SRem(ctx, r.ownerCharactersKey(existing.OwnerID), char.ID)
		pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to update character indexes: %w", err)
		}
	}

	return nil
}

// Delete removes a character
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("character ID is required")
	}

	char, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerCharactersKey(char.OwnerID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}
