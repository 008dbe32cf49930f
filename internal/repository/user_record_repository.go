package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/userdir/directory-service/internal/domain"
)

var userRecordColumns = []string{
	"position", "email", "first_name", "last_name", "phone", "role", "location", "department",
}

// UserRecordRepository persists the whole ordered record set. It satisfies
// directory.Storage.
type UserRecordRepository interface {
	Load(ctx context.Context) ([]domain.UserRecord, error)
	Save(ctx context.Context, records []domain.UserRecord) error
}

type postgresUserRecordRepository struct {
	pool *pgxpool.Pool
}

// NewUserRecordRepository returns a Postgres-backed implementation.
func NewUserRecordRepository(pool *pgxpool.Pool) UserRecordRepository {
	return &postgresUserRecordRepository{pool: pool}
}

func (r *postgresUserRecordRepository) Load(ctx context.Context) ([]domain.UserRecord, error) {
	const query = `
        SELECT first_name, last_name, email, phone, role, location, department
        FROM directory_users ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.UserRecord{}
	for rows.Next() {
		var rec domain.UserRecord
		if err := rows.Scan(
			&rec.FirstName,
			&rec.LastName,
			&rec.Email,
			&rec.Phone,
			&rec.Role,
			&rec.Location,
			&rec.Department,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// Save replaces the table contents with records inside one transaction, so a
// failure leaves the previous snapshot intact.
func (r *postgresUserRecordRepository) Save(ctx context.Context, records []domain.UserRecord) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM directory_users`); err != nil {
			return fmt.Errorf("clear directory_users: %w", err)
		}
		if len(records) == 0 {
			return nil
		}

		rows := make([][]any, 0, len(records))
		for i, rec := range records {
			rows = append(rows, []any{
				i,
				rec.Email,
				rec.FirstName,
				rec.LastName,
				rec.Phone,
				string(rec.Role),
				rec.Location,
				string(rec.Department),
			})
		}
		copied, err := tx.CopyFrom(ctx, pgx.Identifier{"directory_users"}, userRecordColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("copy directory_users: %w", err)
		}
		if copied != int64(len(records)) {
			return fmt.Errorf("copy directory_users: wrote %d of %d rows", copied, len(records))
		}
		return nil
	})
}
