// Package session implements the per-caller session context backed by Redis.
// A Session is loaded (or freshly created) per request from the caller's
// cookie token and handed explicitly to the auth service -- there is no
// process-wide session registry. The only field the auth core touches is the
// user id; everything else about storage (encoding, key layout, expiry) is
// owned here.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix is the Redis key prefix for session data.
const keyPrefix = "session:"

// tokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const tokenBytes = 32

// Store owns session persistence: Redis encoding, key layout, and TTL.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store writing to the given Redis client.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// record is the JSON value stored under session:<token>.
type record struct {
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the mutable per-caller session context. It is scoped to one
// caller and never shared across concurrent requests. Mutations write
// through to Redis immediately so the association survives the request.
type Session struct {
	store *Store
	token string
	data  record
}

// NewToken creates a cryptographically random hex-encoded session token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Load returns the session bound to the given token. A token with no Redis
// record (expired, destroyed, or brand new) yields an empty unauthenticated
// session; the record is only written once a user id is set.
func (s *Store) Load(ctx context.Context, token string) (*Session, error) {
	sess := &Session{store: s, token: token}

	raw, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		sess.data = record{CreatedAt: time.Now().UTC()}
		return sess, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session from redis: %w", err)
	}

	if err := json.Unmarshal(raw, &sess.data); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	return sess, nil
}

// Token returns the token this session is bound to.
func (s *Session) Token() string {
	return s.token
}

// UserID returns the authenticated user id and true, or "" and false when
// the caller is unauthenticated.
func (s *Session) UserID() (string, bool) {
	if s.data.UserID == "" {
		return "", false
	}
	return s.data.UserID, true
}

// SetUserID associates the caller with a user and persists the session
// record with the store's TTL.
func (s *Session) SetUserID(ctx context.Context, userID string) error {
	s.data.UserID = userID

	raw, err := json.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.store.rdb.Set(ctx, keyPrefix+s.token, raw, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("storing session in redis: %w", err)
	}
	return nil
}

// Destroy removes the session record. Returns true when a record was
// actually deleted; destroying an already-destroyed or never-persisted
// session returns false rather than faulting, so logout stays idempotent.
func (s *Session) Destroy(ctx context.Context) bool {
	s.data.UserID = ""

	deleted, err := s.store.rdb.Del(ctx, keyPrefix+s.token).Result()
	if err != nil {
		slog.Warn("failed to destroy session", slog.Any("error", err))
		return false
	}
	return deleted > 0
}
