// Package redis provides a BlobStore backed by a Redis server.
//
// Each blob is a plain string value at "<namespace>:blob:<owner>:<key>". A
// sorted set per owner ("<namespace>:idx:<owner>") indexes the keys with equal
// scores, so prefix listing is a lexicographic range query instead of a SCAN.
// Owners are query-escaped so that a ':' in an owner cannot collide.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// DefaultNamespace prefixes every key written by the store.
const DefaultNamespace = "clausewise"

// Config holds Redis connection configuration.
type Config struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int
	Namespace string
}

// Store implements driven.BlobStore on Redis.
type Store struct {
	client    *redis.Client
	namespace string
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis: address is required: %w", domain.ErrConfiguration)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, namespace: cfg.Namespace}, nil
}

func (s *Store) blobKey(owner, key string) string {
	return s.namespace + ":blob:" + url.QueryEscape(owner) + ":" + key
}

func (s *Store) indexKey(owner string) string {
	return s.namespace + ":idx:" + url.QueryEscape(owner)
}

// Put writes the value and indexes its key in one transaction.
func (s *Store) Put(ctx context.Context, owner, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("redis: empty key: %w", domain.ErrInvalidInput)
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.blobKey(owner, key), data, 0)
		pipe.ZAdd(ctx, s.indexKey(owner), redis.Z{Score: 0, Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}

// Get reads the value at (owner, key).
func (s *Store) Get(ctx context.Context, owner, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.blobKey(owner, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("blob %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the value and its index entry.
func (s *Store) Delete(ctx context.Context, owner, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.blobKey(owner, key))
		pipe.ZRem(ctx, s.indexKey(owner), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// List returns the keys for owner that start with prefix, sorted bytewise.
func (s *Store) List(ctx context.Context, owner, prefix string) ([]string, error) {
	minLex, maxLex := lexRange(prefix)
	keys, err := s.client.ZRangeByLex(ctx, s.indexKey(owner), &redis.ZRangeBy{
		Min: minLex,
		Max: maxLex,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list blobs %q: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	return keys, nil
}

// lexRange returns the ZRANGEBYLEX bounds covering every member with prefix.
func lexRange(prefix string) (minLex, maxLex string) {
	if prefix == "" {
		return "-", "+"
	}
	// 0xff never appears in valid UTF-8, so it sorts after any key with prefix.
	return "[" + prefix, "(" + prefix + "\xff"
}

// Close closes the client connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
