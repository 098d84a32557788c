package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SessionPrefix redis key prefix of login sessions
	SessionPrefix = "hth_session:"
	// UserSessionsPrefix redis set of the session ids of one user
	UserSessionsPrefix = "hth_user_sessions:"
)

// SessionStore tracks live login sessions by token id
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
	// RevokeUser ends every session of the user
	RevokeUser(ctx context.Context, userID uint) error
}

type RedisSessionStore struct {
	client redis.Cmdable
}

func NewRedisSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func userSessionsKey(userID uint) string {
	return UserSessionsPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Create stores the session and indexes it under the user. The index lives
// as long as the newest session; stale members are harmless.
func (s *RedisSessionStore) Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	index := userSessionsKey(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SessionPrefix+sessionID, strconv.FormatUint(uint64(userID), 10), ttl)
		pipe.SAdd(ctx, index, sessionID)
		pipe.Expire(ctx, index, ttl)
		return nil
	})
	return err
}

func (s *RedisSessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	err := s.client.Get(ctx, SessionPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	owner, err := s.client.Get(ctx, SessionPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, SessionPrefix+sessionID)
		pipe.SRem(ctx, UserSessionsPrefix+owner, sessionID)
		return nil
	})
	return err
}

func (s *RedisSessionStore) RevokeUser(ctx context.Context, userID uint) error {
	index := userSessionsKey(userID)
	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, SessionPrefix+id)
	}
	keys = append(keys, index)
	return s.client.Del(ctx, keys...).Err()
}
