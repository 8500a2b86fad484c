package otp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/bafnatoys/bafnatoys-backend/pkg/redis"
)

// expiryGrace keeps a challenge readable past its logical expiry so a late
// verify attempt reports "expired" instead of "not requested". The key still
// drops out of Redis on its own shortly after.
const expiryGrace = 10 * time.Minute

// RedisStore persists challenges in a shared Redis so the OTP invariants
// survive multi-instance deployments.
type RedisStore struct {
	client *pkgredis.Client
}

// NewRedisStore wraps the shared Redis client as a challenge store.
func NewRedisStore(client *pkgredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, phone string) (*Challenge, error) {
	raw, err := s.client.Get(ctx, s.client.OTPChallengeKey(phone))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load otp challenge: %w", err)
	}
	var challenge Challenge
	if err := json.Unmarshal([]byte(raw), &challenge); err != nil {
		return nil, fmt.Errorf("decode otp challenge: %w", err)
	}
	return &challenge, nil
}

func (s *RedisStore) Put(ctx context.Context, challenge *Challenge) error {
	raw, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode otp challenge: %w", err)
	}
	ttl := time.Until(challenge.ExpiresAt) + expiryGrace
	if ttl <= 0 {
		ttl = expiryGrace
	}
	if err := s.client.Set(ctx, s.client.OTPChallengeKey(challenge.Phone), string(raw), ttl); err != nil {
		return fmt.Errorf("store otp challenge: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.client.OTPChallengeKey(phone)); err != nil {
		return fmt.Errorf("delete otp challenge: %w", err)
	}
	return nil
}
