package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/userdir/directory-service/internal/directory"
	"github.com/userdir/directory-service/internal/domain"
	"github.com/userdir/directory-service/internal/persistence"
	"github.com/userdir/directory-service/internal/repository"
)

// Compile-time check that every backend can serve the engine.
var _ directory.Storage = repository.NewMemoryUserRecordRepository()

func sampleRecords() []domain.UserRecord {
	return []domain.UserRecord{
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", Phone: "0123456789", Role: domain.RoleEmployee, Location: "Arlington", Department: domain.DepartmentDeveloper},
		{FirstName: "Alan", LastName: "Turing", Email: "alan@bletchley.uk", Phone: "9876543210", Role: domain.RoleRecruiter, Location: "Bletchley", Department: domain.DepartmentBusinessDevelopment},
	}
}

// exerciseRepository runs the load/save contract against any backend.
func exerciseRepository(t *testing.T, repo repository.UserRecordRepository) {
	ctx := context.Background()

	t.Run("EmptyLoad", func(t *testing.T) {
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("SaveThenLoadKeepsOrder", func(t *testing.T) {
		records := sampleRecords()
		require.NoError(t, repo.Save(ctx, records))
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, records, got)

		reversed := []domain.UserRecord{records[1], records[0]}
		require.NoError(t, repo.Save(ctx, reversed))
		got, err = repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, reversed, got)
	})

	t.Run("SaveEmpty", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, nil))
		got, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMemoryUserRecordRepository(t *testing.T) {
	exerciseRepository(t, repository.NewMemoryUserRecordRepository())

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		repo := repository.NewMemoryUserRecordRepository()
		assert.ErrorIs(t, repo.Save(ctx, sampleRecords()), context.Canceled)
	})
}

func TestRedisUserRecordRepository(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseRepository(t, repository.NewRedisUserRecordRepository(client, ""))

	t.Run("DefaultKey", func(t *testing.T) {
		repo := repository.NewRedisUserRecordRepository(client, "")
		require.NoError(t, repo.Save(context.Background(), sampleRecords()))
		assert.True(t, srv.Exists(repository.DefaultRedisKey))
	})

	t.Run("LegacyCombinedName", func(t *testing.T) {
		srv.Set("legacy", `[{"name":"Mary Ann Smith","email":"mary@x.com","phone":"0123456789","role":"Employee","location":"Oslo","department":"Tester"}]`)
		repo := repository.NewRedisUserRecordRepository(client, "legacy")

		got, err := repo.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Mary", got[0].FirstName)
		assert.Equal(t, "Ann Smith", got[0].LastName)
		assert.Equal(t, domain.DepartmentTester, got[0].Department)
	})

	t.Run("CorruptPayload", func(t *testing.T) {
		srv.Set("corrupt", `{not json`)
		repo := repository.NewRedisUserRecordRepository(client, "corrupt")
		_, err := repo.Load(context.Background())
		assert.Error(t, err)
	})

	t.Run("ServerDown", func(t *testing.T) {
		repo := repository.NewRedisUserRecordRepository(client, "down")
		srv.SetError("LOADING")
		defer srv.SetError("")
		assert.Error(t, repo.Save(context.Background(), sampleRecords()))
	})
}

func TestPostgresUserRecordRepository(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("set POSTGRES_TEST_DSN to run the postgres repository test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	_, err = pool.Exec(ctx, `DELETE FROM directory_users`)
	require.NoError(t, err)

	exerciseRepository(t, repository.NewUserRecordRepository(pool))
}
