package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/userdir/directory-service/internal/domain"
)

// DefaultRedisKey is the key the record set is stored under.
const DefaultRedisKey = "users"

type redisUserRecordRepository struct {
	client redis.UniversalClient
	key    string
}

// NewRedisUserRecordRepository stores the record set as one JSON array under key.
func NewRedisUserRecordRepository(client redis.UniversalClient, key string) UserRecordRepository {
	if key == "" {
		key = DefaultRedisKey
	}
	return &redisUserRecordRepository{client: client, key: key}
}

// storedUserRecord also accepts the older shape that kept only a combined
// "name" field.
type storedUserRecord struct {
	domain.UserRecord
	Name string `json:"name,omitempty"`
}

func (r *redisUserRecordRepository) Load(ctx context.Context) ([]domain.UserRecord, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.UserRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeUserRecords(raw)
}

func (r *redisUserRecordRepository) Save(ctx context.Context, records []domain.UserRecord) error {
	if records == nil {
		records = []domain.UserRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return r.client.Set(ctx, r.key, payload, 0).Err()
}

func decodeUserRecords(raw []byte) ([]domain.UserRecord, error) {
	var stored []storedUserRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	out := make([]domain.UserRecord, 0, len(stored))
	for _, s := range stored {
		rec := s.UserRecord
		if rec.FirstName == "" && rec.LastName == "" && s.Name != "" {
			rec.FirstName, rec.LastName = domain.SplitDisplayName(s.Name)
		}
		out = append(out, rec)
	}
	return out, nil
}
