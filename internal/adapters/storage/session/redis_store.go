package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"receitas/internal/domain/account"
)

const keyPrefix = "receitas:session:"

const defaultPingTimeout = 5 * time.Second

// RedisConfig captures the settings for the Redis session backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a Redis client and checks connectivity with a ping.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisStore keeps sessions in Redis so several instances can share them.
// Passwords are sealed before they leave the process.
type RedisStore struct {
	client redis.UniversalClient
	sealer *Sealer
	now    func() time.Time
}

// NewRedisStore creates a RedisStore.
// PRE: client is connected; sealer is non-nil
func NewRedisStore(client redis.UniversalClient, sealer *Sealer) *RedisStore {
	return &RedisStore{client: client, sealer: sealer, now: time.Now}
}

type userRecord struct {
	Email          string    `json:"email"`
	SealedPassword string    `json:"sealed_password"`
	HasPaid        bool      `json:"has_paid"`
	LastVerifiedAt time.Time `json:"last_verified_at"`
}

type adminRecord struct {
	Username       string `json:"username"`
	SealedPassword string `json:"sealed_password"`
}

type record struct {
	User      *userRecord  `json:"user,omitempty"`
	Admin     *adminRecord `json:"admin,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// maxUpdateAttempts bounds optimistic retries when another writer touches the key.
const maxUpdateAttempts = 5

// errUpdateConflict is returned when every Update attempt lost the race.
var errUpdateConflict = errors.New("session update: too many concurrent writers")

// keyReader is satisfied by the client and by a WATCH transaction.
type keyReader interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// keyWriter is satisfied by the client and by a MULTI pipeline.
type keyWriter interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Get loads and unseals the session for token.
func (r *RedisStore) Get(ctx context.Context, token string) (account.Session, bool, error) {
	return r.load(ctx, r.client, keyPrefix+token)
}

func (r *RedisStore) load(ctx context.Context, rd keyReader, key string) (account.Session, bool, error) {
	raw, err := rd.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return account.Session{}, false, nil
	}
	if err != nil {
		return account.Session{}, false, fmt.Errorf("redis get session: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return account.Session{}, false, fmt.Errorf("decode session: %w", err)
	}

	s := account.Session{CreatedAt: rec.CreatedAt}
	if expired(s, r.now()) {
		return account.Session{}, false, nil
	}
	if rec.User != nil {
		pw, err := r.sealer.Open(rec.User.SealedPassword)
		if err != nil {
			return account.Session{}, false, fmt.Errorf("open user password: %w", err)
		}
		s.User = &account.User{
			Email:          rec.User.Email,
			Password:       pw,
			HasPaid:        rec.User.HasPaid,
			LastVerifiedAt: rec.User.LastVerifiedAt,
		}
	}
	if rec.Admin != nil {
		pw, err := r.sealer.Open(rec.Admin.SealedPassword)
		if err != nil {
			return account.Session{}, false, fmt.Errorf("open admin password: %w", err)
		}
		s.Admin = &account.Admin{
			Username:   rec.Admin.Username,
			Password:   pw,
			AuthHeader: account.BasicAuthHeader(rec.Admin.Username, pw),
		}
	}
	return s, true, nil
}

// Save seals and stores s. The key expires when the session does.
func (r *RedisStore) Save(ctx context.Context, token string, s account.Session) error {
	return r.write(ctx, r.client, keyPrefix+token, s)
}

func (r *RedisStore) write(ctx context.Context, w keyWriter, key string, s account.Session) error {
	now := r.now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	remaining := TTL - now.Sub(s.CreatedAt)
	if remaining <= 0 {
		if err := w.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete session: %w", err)
		}
		return nil
	}

	rec := record{CreatedAt: s.CreatedAt}
	if s.User != nil {
		sealed, err := r.sealer.Seal(s.User.Password)
		if err != nil {
			return err
		}
		rec.User = &userRecord{
			Email:          s.User.Email,
			SealedPassword: sealed,
			HasPaid:        s.User.HasPaid,
			LastVerifiedAt: s.User.LastVerifiedAt,
		}
	}
	if s.Admin != nil {
		sealed, err := r.sealer.Seal(s.Admin.Password)
		if err != nil {
			return err
		}
		rec.Admin = &adminRecord{Username: s.Admin.Username, SealedPassword: sealed}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := w.Set(ctx, key, raw, remaining).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

// Delete removes the session for token.
func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Update reads, changes and writes the record inside a WATCH transaction, retrying
// when another writer changed the key in between.
func (r *RedisStore) Update(ctx context.Context, token string, fn func(*account.Session) bool) (bool, error) {
	key := keyPrefix + token
	for range maxUpdateAttempts {
		applied := false
		err := r.client.Watch(ctx, func(tx *redis.Tx) error {
			s, ok, err := r.load(ctx, tx, key)
			if err != nil || !ok || !fn(&s) {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				if s.IsEmpty() {
					return pipe.Del(ctx, key).Err()
				}
				return r.write(ctx, pipe, key, s)
			})
			if err == nil {
				applied = true
			}
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, err
		}
		return applied, nil
	}
	return false, errUpdateConflict
}
