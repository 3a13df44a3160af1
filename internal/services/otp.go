package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPNotFound is returned when no live OTP exists for a phone number.
var ErrOTPNotFound = errors.New("otp not found")

// OTPStore keeps one-time passwords with an expiry.
type OTPStore interface {
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// RedisOTPStore implements OTPStore using Redis keys "otp:<phone>"
type RedisOTPStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisOTPStore connects to url (redis://...) and pings it.
func NewRedisOTPStore(ctx context.Context, url string) (*RedisOTPStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisOTPStoreWithClient(client), nil
}

// NewRedisOTPStoreWithClient wraps an existing client
func NewRedisOTPStoreWithClient(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client, keyPrefix: "otp:"}
}

func (s *RedisOTPStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+phone, code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

func (s *RedisOTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, s.keyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read otp: %w", err)
	}
	return code, nil
}

func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, s.keyPrefix+phone).Err()
}

// Close closes the Redis client
func (s *RedisOTPStore) Close() error {
	return s.client.Close()
}

// MemoryOTPStore keeps OTPs in process. It backs password reset when the
// in-memory store driver runs without Redis.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]memoryOTP
	now     func() time.Time
}

type memoryOTP struct {
	code      string
	expiresAt time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]memoryOTP), now: time.Now}
}

func (s *MemoryOTPStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = memoryOTP{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Get(ctx context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[phone]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.entries, phone)
		return "", ErrOTPNotFound
	}
	return entry.code, nil
}

func (s *MemoryOTPStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

var (
	_ OTPStore = (*RedisOTPStore)(nil)
	_ OTPStore = (*MemoryOTPStore)(nil)
)
