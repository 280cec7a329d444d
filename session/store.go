package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var ErrSessionNotFound = errors.New("session not found")

// Store keeps session tokens in redis with a sliding TTL.
type Store struct {
	client   *redis.Client
	lifetime time.Duration
}

// NewStore constructor.
func NewStore(client *redis.Client, lifetime time.Duration) *Store {
	return &Store{
		client:   client,
		lifetime: lifetime,
	}
}

// Create opens a session for the user and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()

	err := s.client.Set(ctx, keyPrefix+token, userID, s.lifetime).Err()
	if err != nil {
		return "", err
	}

	return token, nil
}

// UserID resolves a token to the user it belongs to and refreshes the TTL.
func (s *Store) UserID(ctx context.Context, token string) (int64, error) {
	value, err := s.client.GetEx(ctx, keyPrefix+token, s.lifetime).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}

	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(value, 10, 64)
}

// Delete closes the session.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
