package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

// indexKey is a sorted set of cached recording ids scored by write time.
const indexKey = "oldestdate:recordings"

func recordingKey(id string) string {
	return fmt.Sprintf("oldestdate:recording:%s", id)
}

// RecordingStore shares fetched recordings between runs and processes.
type RecordingStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRecordingStore creates a new Redis-backed recording store.
func NewRecordingStore(client *Client) *RecordingStore {
	return &RecordingStore{
		rdb: client.rdb,
		ttl: client.ttl,
		now: time.Now,
	}
}

// Get returns the stored recording. ok is false on a miss.
func (s *RecordingStore) Get(ctx context.Context, id string) (*domain.Recording, bool, error) {
	data, err := s.rdb.Get(ctx, recordingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get failed: %w", err)
	}

	var rec domain.Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recording %s: %w", id, err)
	}
	return &rec, true, nil
}

// Put stores rec with the configured TTL.
func (s *RecordingStore) Put(ctx context.Context, rec *domain.Recording) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recording: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, recordingKey(rec.ID), data, s.ttl)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(s.now().Unix()), Member: rec.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store recording %s: %w", rec.ID, err)
	}
	return nil
}

// Forget removes a recording.
func (s *RecordingStore) Forget(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, recordingKey(id))
	pipe.ZRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to forget recording %s: %w", id, err)
	}
	return nil
}

// Count returns the number of recordings that have not expired yet.
// Expired ids are pruned from the index on the way.
func (s *RecordingStore) Count(ctx context.Context) (int64, error) {
	cutoff := strconv.FormatInt(s.now().Add(-s.ttl).Unix(), 10)
	if err := s.rdb.ZRemRangeByScore(ctx, indexKey, "-inf", "("+cutoff).Err(); err != nil {
		return 0, fmt.Errorf("zremrangebyscore failed: %w", err)
	}
	n, err := s.rdb.ZCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return n, nil
}

// Purge removes every stored recording.
func (s *RecordingStore) Purge(ctx context.Context) error {
	ids, err := s.rdb.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("zrange failed: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, recordingKey(id))
	}
	keys = append(keys, indexKey)

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("del failed: %w", err)
	}
	return nil
}
