package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Key prefix for session state
const sessionKeyPrefix = "session:"

// RedisStore keeps session state in Redis with a TTL, so sessions survive
// process restarts and expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

// Put stores the state, replacing any previous state and resetting the TTL.
func (s *RedisStore) Put(ctx context.Context, st State) error {
	st.UpdatedAt = time.Now()
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+st.ID.String(), data, s.ttl).Err()
}

// Get retrieves state by session id.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (State, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, sessionKeyPrefix+id.String()).Err()
}

// Close closes the store connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
