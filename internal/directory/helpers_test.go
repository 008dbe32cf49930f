package directory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/userdir/directory-service/internal/domain"
	"github.com/userdir/directory-service/internal/validation"
)

var errDiskFull = errors.New("disk full")

// fakeStorage records every save and can be told to fail.
type fakeStorage struct {
	mu      sync.Mutex
	saved   []domain.UserRecord
	saves   int
	failErr error
	loadErr error
	onSave  func()
}

func newFakeStorage(initial ...domain.UserRecord) *fakeStorage {
	return &fakeStorage{saved: initial}
}

func (f *fakeStorage) Load(context.Context) ([]domain.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]domain.UserRecord{}, f.saved...), nil
}

func (f *fakeStorage) Save(ctx context.Context, records []domain.UserRecord) error {
	if f.onSave != nil {
		f.onSave()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.saves++
	f.saved = append([]domain.UserRecord{}, records...)
	return nil
}

func (f *fakeStorage) fail(err error) {
	f.mu.Lock()
	f.failErr = err
	f.mu.Unlock()
}

func (f *fakeStorage) snapshot() []domain.UserRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.UserRecord{}, f.saved...)
}

// blockingStorage never returns from Save until ctx is done.
type blockingStorage struct{}

func (blockingStorage) Load(context.Context) ([]domain.UserRecord, error) { return nil, nil }

func (blockingStorage) Save(ctx context.Context, _ []domain.UserRecord) error {
	<-ctx.Done()
	return ctx.Err()
}

func record(email string, role domain.Role) domain.UserRecord {
	return domain.UserRecord{
		FirstName:  "Test",
		LastName:   "User",
		Email:      email,
		Phone:      "0123456789",
		Role:       role,
		Location:   "Berlin",
		Department: domain.DepartmentDeveloper,
	}
}

func input(email string, role domain.Role) validation.Input {
	return validation.InputFromRecord(record(email, role))
}

func numbered(n int) []domain.UserRecord {
	out := make([]domain.UserRecord, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleEmployee
		if i%2 == 1 {
			role = domain.RoleRecruiter
		}
		out = append(out, record(fmt.Sprintf("user%02d@example.com", i), role))
	}
	return out
}

func emails(records []domain.UserRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Email)
	}
	return out
}
