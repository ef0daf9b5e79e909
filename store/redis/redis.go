// Package redis provides a ReportStore backed by Redis, for deployments where
// report history is shared across processes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/personaforge/store"
)

// RedisReportStore implements store.ReportStore using Redis. Each entry is a
// JSON value under its own key; an ids list keeps history order, newest first.
type RedisReportStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "personaforge:"
	TTL      time.Duration // Expiration for report entries, default 0 (no expiration)
}

// NewRedisReportStore creates a new Redis report store.
func NewRedisReportStore(opts RedisOptions) *RedisReportStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "personaforge:"
	}

	return &RedisReportStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// NewReportStoreFromClient wraps an existing client, mainly for tests.
func NewReportStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisReportStore {
	if prefix == "" {
		prefix = "personaforge:"
	}
	return &RedisReportStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisReportStore) reportKey(id string) string {
	return fmt.Sprintf("%sreport:%s", s.prefix, id)
}

func (s *RedisReportStore) idsKey() string {
	return s.prefix + "reports:ids"
}

// Save stores an entry and evicts everything beyond store.MaxReports.
func (s *RedisReportStore) Save(ctx context.Context, entry *store.ReportEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal report entry: %w", err)
	}

	idsKey := s.idsKey()
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.reportKey(entry.ID), data, s.ttl)
	pipe.LRem(ctx, idsKey, 0, entry.ID)
	pipe.LPush(ctx, idsKey, entry.ID)
	if s.ttl > 0 {
		pipe.Expire(ctx, idsKey, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save report to redis: %w", err)
	}

	// Evict entries pushed past the cap.
	stale, err := s.client.LRange(ctx, idsKey, store.MaxReports, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read report history tail: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}

	pipe = s.client.Pipeline()
	for _, id := range stale {
		pipe.Del(ctx, s.reportKey(id))
	}
	pipe.LTrim(ctx, idsKey, 0, store.MaxReports-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to evict old reports: %w", err)
	}
	return nil
}

// Get retrieves one entry by ID.
func (s *RedisReportStore) Get(ctx context.Context, id string) (*store.ReportEntry, error) {
	data, err := s.client.Get(ctx, s.reportKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load report from redis: %w", err)
	}

	var entry store.ReportEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report entry: %w", err)
	}
	return &entry, nil
}

// List returns all entries, most recent first.
func (s *RedisReportStore) List(ctx context.Context) ([]*store.ReportEntry, error) {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list report ids: %w", err)
	}
	if len(ids) == 0 {
		return []*store.ReportEntry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.reportKey(id)
	}

	// MGet returns nil for missing (expired) keys; skip them.
	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reports: %w", err)
	}

	var entries []*store.ReportEntry
	for _, result := range results {
		strData, ok := result.(string)
		if !ok {
			continue
		}
		var entry store.ReportEntry
		if err := json.Unmarshal([]byte(strData), &entry); err != nil {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// Delete removes one entry by ID.
func (s *RedisReportStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.reportKey(id))
	pipe.LRem(ctx, s.idsKey(), 0, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *RedisReportStore) Clear(ctx context.Context) error {
	ids, err := s.client.LRange(ctx, s.idsKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to get reports for clearing: %w", err)
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.reportKey(id))
	}
	pipe.Del(ctx, s.idsKey())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear reports: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisReportStore) Close() error {
	return s.client.Close()
}
