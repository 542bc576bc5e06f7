package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lawnchairsociety/questlog/internal/logger"
)

const (
	defaultKeyPrefix = "questlog"
)

// RedisStore implements SaveStore using Redis. Each save is a JSON string
// under <prefix>:save:<id>; a sorted set <prefix>:saves indexes ids by save
// time.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Ensure RedisStore implements SaveStore interface
var _ SaveStore = (*RedisStore)(nil)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	URL       string
	KeyPrefix string
	// TTL expires saves after this long; zero keeps them forever
	TTL time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	store := NewRedisStoreFromClient(redis.NewClient(opt), opts.KeyPrefix, opts.TTL)
	if err := store.Ping(ctx); err != nil {
		store.client.Close()
		return nil, err
	}

	logger.Info("Connected to Redis save store", "addr", opt.Addr, "db", opt.DB, "prefix", store.prefix)
	return store, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) saveKey(id uuid.UUID) string {
	return r.prefix + ":save:" + id.String()
}

func (r *RedisStore) indexKey() string {
	return r.prefix + ":saves"
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	logger.Debug("Redis connection closed")
	return nil
}

func (r *RedisStore) SaveGame(ctx context.Context, save *SaveData) error {
	if err := save.Validate(); err != nil {
		return err
	}
	data, err := save.Encode()
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.saveKey(save.ID), data, r.ttl)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{
			Score:  float64(save.SavedAt.UnixMilli()),
			Member: save.ID.String(),
		})
		return nil
	})
	if err != nil {
		logger.Error("Redis save failed", "save", save.ID, "error", err)
		return fmt.Errorf("failed to save game %s: %w", save.ID, err)
	}

	logger.Debug("Saved game to Redis", "save", save.ID, "bytes", len(data))
	return nil
}

func (r *RedisStore) LoadGame(ctx context.Context, id uuid.UUID) (*SaveData, error) {
	data, err := r.client.Get(ctx, r.saveKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	return DecodeSave(data)
}

func (r *RedisStore) DeleteGame(ctx context.Context, id uuid.UUID) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.saveKey(id))
		pipe.ZRem(ctx, r.indexKey(), id.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

// ListSaves returns indexed saves newest first. Index entries whose save
// has expired are pruned.
func (r *RedisStore) ListSaves(ctx context.Context) ([]SaveInfo, error) {
	entries, err := r.client.ZRevRangeWithScores(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}

	infos := make([]SaveInfo, 0, len(entries))
	var stale []any
	for _, entry := range entries {
		member, _ := entry.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			logger.Warning("Invalid save id in index", "member", member)
			stale = append(stale, member)
			continue
		}
		exists, err := r.client.Exists(ctx, r.saveKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check save %s: %w", id, err)
		}
		if exists == 0 {
			stale = append(stale, member)
			continue
		}
		infos = append(infos, SaveInfo{ID: id, SavedAt: time.UnixMilli(int64(entry.Score)).UTC()})
	}

	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, r.indexKey(), stale...).Err(); err != nil {
			logger.Warning("Failed to prune save index", "error", err)
		} else {
			logger.Debug("Pruned expired saves from index", "count", len(stale))
		}
	}
	SortNewestFirst(infos)
	return infos, nil
}
