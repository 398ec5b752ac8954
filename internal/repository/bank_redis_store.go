package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/qbank-manager/internal/model"
)

// RedisBankStore keeps the bank as a redis list, one JSON entry per element.
type RedisBankStore struct {
	rdb *redis.Client
	key string
}

// NewRedisBankStore creates a store on the list at key.
func NewRedisBankStore(rdb *redis.Client, key string) *RedisBankStore {
	return &RedisBankStore{rdb: rdb, key: key}
}

// Load reads the whole list. Elements that are not a JSON object are skipped.
func (r *RedisBankStore) Load(ctx context.Context) ([]model.Entry, error) {
	items, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", r.key, err)
	}

	entries := make([]model.Entry, 0, len(items))
	for _, item := range items {
		if e, ok := decodeEntry([]byte(item)); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Save replaces the list in one MULTI/EXEC block.
func (r *RedisBankStore) Save(ctx context.Context, entries []model.Entry) error {
	values := make([]interface{}, 0, len(entries))
	for i, e := range entries {
		data, err := encodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode entry %d: %w", i, err)
		}
		values = append(values, string(data))
	}

	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, r.key)
	if len(values) > 0 {
		pipe.RPush(ctx, r.key, values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s: %w", r.key, err)
	}
	return nil
}
