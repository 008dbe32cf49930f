package directory

import (
	"context"
	"time"

	"github.com/userdir/directory-service/internal/domain"
)

// Store keeps the ordered record set in memory and flushes the full set to
// Storage after every mutation. A failed flush rolls the mutation back.
type Store struct {
	storage Storage
	timeout time.Duration
	records []domain.UserRecord
}

// NewStore loads the persisted records. timeout bounds every backend call;
// zero disables the bound.
func NewStore(ctx context.Context, storage Storage, timeout time.Duration) (*Store, error) {
	s := &Store{storage: storage, timeout: timeout}

	loadCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := storage.Load(loadCtx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	s.records = append([]domain.UserRecord(nil), records...)
	return s, nil
}

// List returns a copy of the records in insertion order.
func (s *Store) List() []domain.UserRecord {
	out := make([]domain.UserRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given email.
func (s *Store) Get(email string) (domain.UserRecord, bool) {
	if i := s.indexOf(email); i >= 0 {
		return s.records[i], true
	}
	return domain.UserRecord{}, false
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Create appends rec.
func (s *Store) Create(ctx context.Context, rec domain.UserRecord) error {
	if s.indexOf(rec.Email) >= 0 {
		return ErrDuplicateKey
	}
	next := append(s.List(), rec)
	return s.commit(ctx, "create", next)
}

// Update replaces the record currently stored under originalEmail, keeping its
// position.
func (s *Store) Update(ctx context.Context, originalEmail string, rec domain.UserRecord) error {
	i := s.indexOf(originalEmail)
	if i < 0 {
		return ErrNotFound
	}
	if j := s.indexOf(rec.Email); j >= 0 && j != i {
		return ErrDuplicateKey
	}
	next := s.List()
	next[i] = rec
	return s.commit(ctx, "update", next)
}

// Delete removes the record with the given email and reports whether one was
// removed. Deleting an absent record succeeds without touching Storage.
func (s *Store) Delete(ctx context.Context, email string) (bool, error) {
	i := s.indexOf(email)
	if i < 0 {
		return false, nil
	}
	next := make([]domain.UserRecord, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)
	if err := s.commit(ctx, "delete", next); err != nil {
		return false, err
	}
	return true, nil
}

// commit flushes next and only then swaps it in, so a failed flush leaves the
// previous set untouched.
func (s *Store) commit(ctx context.Context, op string, next []domain.UserRecord) error {
	saveCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.storage.Save(saveCtx, next); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	s.records = next
	return nil
}

func (s *Store) indexOf(email string) int {
	for i := range s.records {
		if s.records[i].Email == email {
			return i
		}
	}
	return -1
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
