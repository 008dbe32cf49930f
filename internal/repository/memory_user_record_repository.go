package repository

import (
	"context"
	"sync"

	"github.com/userdir/directory-service/internal/domain"
)

type memoryUserRecordRepository struct {
	mu      sync.RWMutex
	records []domain.UserRecord
}

// NewMemoryUserRecordRepository keeps the record set in process memory only.
func NewMemoryUserRecordRepository(seed ...domain.UserRecord) UserRecordRepository {
	return &memoryUserRecordRepository{records: append([]domain.UserRecord{}, seed...)}
}

func (r *memoryUserRecordRepository) Load(ctx context.Context) ([]domain.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.UserRecord{}, r.records...), nil
}

func (r *memoryUserRecordRepository) Save(ctx context.Context, records []domain.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]domain.UserRecord{}, records...)
	return nil
}
