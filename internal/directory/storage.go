package directory

import (
	"context"

	"github.com/userdir/directory-service/internal/domain"
)

// Storage is the durable backend behind the Record Store. Save always receives
// the full ordered record set; Load returns an empty slice when nothing is stored.
type Storage interface {
	Load(ctx context.Context) ([]domain.UserRecord, error)
	Save(ctx context.Context, records []domain.UserRecord) error
}
