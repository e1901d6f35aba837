package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	iasted "github.com/admin-ga/iasted"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

const keyPrefix = "voice-session:"

// NewStore creates a new session Store based on the given type.
// Supports "memory" and "redis" driver types.
// For Redis, requires WithRedisClient option.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &inMemoryStore{
			sessions: make(map[string]*State),
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, iasted.ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, iasted.ErrInvalidStoreType
	}
}

// inMemoryStore implements Store using an in-memory map with optimistic locking.
type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// Create implements Store.
func (s *inMemoryStore) Create(ctx context.Context, data *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	data.CreatedAt = now
	data.UpdatedAt = now
	data.Version = 1

	stored := *data
	s.sessions[data.ID] = &stored
	return nil
}

// Get implements Store.
// Returns a copy so caller mutations stay invisible until Update.
func (s *inMemoryStore) Get(ctx context.Context, id string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.sessions[id]
	if !exists {
		return nil, nil
	}
	copied := *data
	return &copied, nil
}

// Update implements Store.
func (s *inMemoryStore) Update(ctx context.Context, data *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.sessions[data.ID]
	if !exists {
		return iasted.ErrNotFound
	}

	if stored.Version != data.Version {
		return iasted.ErrVersionConflict
	}

	data.Version++
	data.UpdatedAt = time.Now()

	updated := *data
	s.sessions[data.ID] = &updated
	return nil
}

// Delete implements Store.
func (s *inMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close implements Store.
func (s *inMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

// redisStore implements Store using Redis with optimistic locking.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Create implements Store.
func (s *redisStore) Create(ctx context.Context, data *State) error {
	key := keyPrefix + data.ID
	now := time.Now()
	data.CreatedAt = now
	data.UpdatedAt = now
	data.Version = 1

	val, err := json.Marshal(data)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, val, s.ttl).Err()
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context, id string) (*State, error) {
	key := keyPrefix + id
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var data State
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &data, nil
}

// Update implements Store.
func (s *redisStore) Update(ctx context.Context, data *State) error {
	key := keyPrefix + data.ID

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return iasted.ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored State
		if err := json.Unmarshal([]byte(val), &stored); err != nil {
			return err
		}

		if stored.Version != data.Version {
			return iasted.ErrVersionConflict
		}

		data.Version++
		data.UpdatedAt = time.Now()

		newVal, err := json.Marshal(data)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

// Delete implements Store.
func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
