package uploadstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/futig/rag-relay/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "index.db"))
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:upload:"})
			require.NoError(t, err)
			return s
		},
	}
}

func TestStoreContract(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Put then Get", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "doc-1", "/tmp/uploads/1-a.txt"))

				path, err := s.Get(ctx, "doc-1")
				require.NoError(t, err)
				assert.Equal(t, "/tmp/uploads/1-a.txt", path)
			})

			t.Run("Remove makes entry absent", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "doc-1", "/tmp/a"))
				require.NoError(t, s.Remove(ctx, "doc-1"))

				_, err := s.Get(ctx, "doc-1")
				assert.ErrorIs(t, err, ErrNotFound)
				assert.ErrorIs(t, err, entity.ErrNotFound)
			})

			t.Run("Remove of absent id is a no-op", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				assert.NoError(t, s.Remove(ctx, "never-stored"))
				assert.NoError(t, s.Remove(ctx, "never-stored"))
			})

			t.Run("Put overwrites", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				require.NoError(t, s.Put(ctx, "doc-1", "/tmp/old"))
				require.NoError(t, s.Put(ctx, "doc-1", "/tmp/new"))

				path, err := s.Get(ctx, "doc-1")
				require.NoError(t, err)
				assert.Equal(t, "/tmp/new", path)
			})

			t.Run("Concurrent use", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				var wg sync.WaitGroup
				for i := range 20 {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						id := fmt.Sprintf("doc-%d", i)
						assert.NoError(t, s.Put(ctx, id, "/tmp/"+id))
						assert.NoError(t, s.Remove(ctx, id))
						assert.NoError(t, s.Remove(ctx, id))
					}(i)
				}
				wg.Wait()

				_, err := s.Get(ctx, "doc-7")
				assert.ErrorIs(t, err, ErrNotFound)
			})

			t.Run("Ping", func(t *testing.T) {
				s := newStore(t)
				defer s.Close()

				assert.NoError(t, s.Ping(ctx))
			})
		})
	}
}

func TestOpenSQLite_ReopenKeepsEntries(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "index.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "doc-1", "/tmp/a"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a", got)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestPgxMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/relay?sslmode=disable", pgxMigrateURL("postgres://u:p@db:5432/relay?sslmode=disable"))
	assert.Equal(t, "pgx5://db/relay", pgxMigrateURL("postgresql://db/relay"))
	assert.Equal(t, "pgx5://db/relay", pgxMigrateURL("pgx5://db/relay"))
}
