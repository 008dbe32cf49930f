package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey means a mutation would give two records the same email.
	ErrDuplicateKey = errors.New("record with this email already exists")
	// ErrNotFound means no record carries the requested email.
	ErrNotFound = errors.New("record not found")
	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
	// ErrNoStagedDelete is returned by ConfirmDelete when nothing is staged.
	ErrNoStagedDelete = errors.New("no delete staged")
	// ErrInvalidPage is returned for page numbers below 1.
	ErrInvalidPage = errors.New("page must be at least 1")
	// ErrInvalidRoleFilter is returned for filters other than "All" or a known role.
	ErrInvalidRoleFilter = errors.New("unknown role filter")
)

// PersistenceError reports a failed load or save against the Storage backend.
// The in-memory record set is left as it was before the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence.Error(), e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
