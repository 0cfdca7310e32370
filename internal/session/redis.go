package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON blobs, one key per owner, so open
// dialogues survive bot restarts. Selected when REDIS_ADDR is configured.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func sessionKey(ownerID int64) string {
	return fmt.Sprintf("session:%d", ownerID)
}

func (s *RedisStore) Get(ctx context.Context, ownerID int64) (Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(ownerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return newIdle(ownerID), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("session decode: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) SetState(ctx context.Context, ownerID int64, state State) error {
	sess, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	sess.State = state
	return s.put(ctx, sess)
}

func (s *RedisStore) SetField(ctx context.Context, ownerID int64, key, value string) error {
	sess, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	if sess.Scratch == nil {
		sess.Scratch = make(map[string]string)
	}
	sess.Scratch[key] = value
	return s.put(ctx, sess)
}

func (s *RedisStore) Clear(ctx context.Context, ownerID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *RedisStore) put(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	// No TTL: sessions live until cleared, same contract as the memory store.
	if err := s.rdb.Set(ctx, sessionKey(sess.OwnerID), raw, 0).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}
