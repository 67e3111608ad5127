package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the mapping in one hash, one field per term.
// Each field write is atomic on the server.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context, termID uint) (uint, bool, error) {
	value, err := s.client.HGet(ctx, s.key, field(termID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	return parseImageID(value)
}

func (s *RedisStore) GetMany(ctx context.Context, termIDs []uint) (map[uint]uint, error) {
	result := make(map[uint]uint, len(termIDs))
	if len(termIDs) == 0 {
		return result, nil
	}

	fields := make([]string, len(termIDs))
	for i, termID := range termIDs {
		fields[i] = field(termID)
	}
	values, err := s.client.HMGet(ctx, s.key, fields...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	for i, value := range values {
		str, ok := value.(string)
		if !ok {
			continue
		}
		imageID, ok, err := parseImageID(str)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", termIDs[i], err)
		}
		if ok {
			result[termIDs[i]] = imageID
		}
	}
	return result, nil
}

func (s *RedisStore) Set(ctx context.Context, termID, imageID uint) error {
	if imageID == 0 {
		return ErrZeroImage
	}
	if err := s.client.HSet(ctx, s.key, field(termID), strconv.FormatUint(uint64(imageID), 10)).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, termID uint) error {
	if err := s.client.HDel(ctx, s.key, field(termID)).Err(); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", s.key, err)
	}
	return nil
}

func field(termID uint) string {
	return strconv.FormatUint(uint64(termID), 10)
}
