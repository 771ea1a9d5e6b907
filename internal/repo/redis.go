package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	blocklistPrefix    = "blocklist:"
	verificationPrefix = "verify:"
)

func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return rc, nil
}

// BlocklistStore holds revoked jtis. Entries carry a TTL so the store never
// outgrows the set of tokens that are still otherwise valid.
type BlocklistStore struct {
	rdb *redis.Client
}

func NewBlocklistStore(rdb *redis.Client) *BlocklistStore {
	return &BlocklistStore{rdb: rdb}
}

func (s *BlocklistStore) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, blocklistPrefix+jti, "", ttl).Err(); err != nil {
		return fmt.Errorf("blocklist jti: %w", err)
	}
	return nil
}

func (s *BlocklistStore) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, blocklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("blocklist lookup: %w", err)
	}
	return n > 0, nil
}

// VerificationStore keeps at most one pending email-verification token per
// email. A new save overwrites the previous entry.
type VerificationStore struct {
	rdb *redis.Client
}

func NewVerificationStore(rdb *redis.Client) *VerificationStore {
	return &VerificationStore{rdb: rdb}
}

func (s *VerificationStore) Save(ctx context.Context, email, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, verificationPrefix+email, token, ttl).Err(); err != nil {
		return fmt.Errorf("save verification token: %w", err)
	}
	return nil
}

// Get returns "" without error when no token is pending.
func (s *VerificationStore) Get(ctx context.Context, email string) (string, error) {
	v, err := s.rdb.Get(ctx, verificationPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get verification token: %w", err)
	}
	return v, nil
}

func (s *VerificationStore) Delete(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, verificationPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete verification token: %w", err)
	}
	return nil
}
