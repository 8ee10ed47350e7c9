package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dealdesk:session:"

// ErrNotFound is returned when a session id does not resolve.
var ErrNotFound = errors.New("session not found")

// Session is the server-side record created at login. It replaces the
// browser-tab key-value store of the original client: role, upstream bearer
// token and the commission type/value pinned at login are written once here
// and read-only for the rest of the session.
type Session struct {
	ID               string    `json:"-"`
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Role             string    `json:"role"`
	UpstreamToken    string    `json:"upstream_token"`
	CommissionTypeID string    `json:"commission_type_id,omitempty"`
	CommissionValue  string    `json:"commission_value,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store keeps sessions in Redis with a fixed TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore connects to Redis using a URL.
func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return NewStoreWithClient(redis.NewClient(opt), ttl), nil
}

// NewStoreWithClient wraps an existing Redis client (used by tests).
func NewStoreWithClient(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create persists a new session and returns its id.
func (s *Store) Create(ctx context.Context, sess *Session) (string, error) {
	id := uuid.NewString()
	sess.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return "", err
	}

	sess.ID = id
	return id, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

// Delete removes a session (logout).
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}

// Ping verifies the Redis connection at startup.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
