package redis

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/skill-connect/internal/domain"
)

// Config holds connection parameters for the Redis backend.
type Config struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

var _ domain.KVStore = (*KVStore)(nil)

// KVStore implements domain.KVStore on Redis. Values are gzip-compressed
// since the profile collection embeds base64 video payloads.
type KVStore struct {
	client *redis.Client
}

// NewKVStore creates a KVStore connected according to cfg.
func NewKVStore(cfg Config) *KVStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &KVStore{client: redis.NewClient(opts)}
}

// Ping checks connectivity.
func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (s *KVStore) Close() error {
	return s.client.Close()
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	data, err := decompress(val)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", key, err)
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	compressed, err := compress(value)
	if err != nil {
		return fmt.Errorf("compress %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, compressed, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
