package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and returns a cart repository on it.
func setupPostgres(t *testing.T) (cart.Repository, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPoolFromConnString(ctx, connStr, config.DatabaseConfig{
		MaxConnections:  10,
		MinConnections:  1,
		MaxConnLifetime: 300,
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.EnsureCartSchema(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return NewPostgresCartRepository(pool, zerolog.Nop()), cleanup
}

// setupRedis starts a redis container and returns a client for it.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := redisContainer.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := database.NewRedisClient(ctx, config.RedisConfig{Addr: endpoint}, zerolog.Nop())
	require.NoError(t, err)

	cleanup := func() {
		client.Close()
		_ = redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

// exerciseRepository runs the behaviour both repositories share.
func exerciseRepository(t *testing.T, repo cart.Repository) {
	ctx := context.Background()

	t.Run("Unknown session loads empty", func(t *testing.T) {
		ids, err := repo.Load(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, ids)
		assert.Empty(t, ids)
	})

	t.Run("Save then load keeps order and duplicates", func(t *testing.T) {
		sid := uuid.NewString()
		require.NoError(t, repo.Save(ctx, sid, []string{"p2", "p1", "p2"}))

		ids, err := repo.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p1", "p2"}, ids)
	})

	t.Run("Save replaces previous list", func(t *testing.T) {
		sid := uuid.NewString()
		require.NoError(t, repo.Save(ctx, sid, []string{"p1", "p1"}))
		require.NoError(t, repo.Save(ctx, sid, []string{"p3"}))

		ids, err := repo.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, []string{"p3"}, ids)
	})

	t.Run("Saving nil stores an empty cart", func(t *testing.T) {
		sid := uuid.NewString()
		require.NoError(t, repo.Save(ctx, sid, []string{"p1"}))
		require.NoError(t, repo.Save(ctx, sid, nil))

		ids, err := repo.Load(ctx, sid)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Sessions are isolated", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		require.NoError(t, repo.Save(ctx, a, []string{"p1"}))
		require.NoError(t, repo.Save(ctx, b, []string{"p2"}))

		ids, err := repo.Load(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1"}, ids)
	})

	t.Run("Concurrent saves leave one complete list", func(t *testing.T) {
		sid := uuid.NewString()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				list := make([]string, n+1)
				for j := range list {
					list[j] = fmt.Sprintf("p%d", n)
				}
				assert.NoError(t, repo.Save(ctx, sid, list))
			}(i)
		}
		wg.Wait()

		ids, err := repo.Load(ctx, sid)
		require.NoError(t, err)
		require.NotEmpty(t, ids)
		for _, id := range ids {
			assert.Equal(t, ids[0], id, "readers never see a mix of two writes")
		}
	})

	t.Run("Works as a session store", func(t *testing.T) {
		store := cart.NewSessionStore(repo, uuid.NewString(), zerolog.Nop())
		next, _ := cart.Apply(store.Read(ctx), cart.IntentAdd, "p1")
		require.NoError(t, store.Write(ctx, next))

		assert.Equal(t, cart.IDList{"p1"}, store.Read(ctx))
	})
}

func TestPostgresCartRepository(t *testing.T) {
	repo, cleanup := setupPostgres(t)
	defer cleanup()

	exerciseRepository(t, repo)
}

func TestRedisCartRepository(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	exerciseRepository(t, NewRedisCartRepository(client, time.Hour, zerolog.Nop()))
}

func TestRedisCartRepository_TTL(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRedisCartRepository(client, time.Hour, zerolog.Nop())
	sid := uuid.NewString()

	require.NoError(t, repo.Save(ctx, sid, []string{"p1"}))

	ttl, err := client.TTL(ctx, cartKey(sid)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisCartRepository_CorruptValue(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewRedisCartRepository(client, 0, zerolog.Nop())
	sid := uuid.NewString()

	require.NoError(t, client.Set(ctx, cartKey(sid), "{not json", 0).Err())

	_, err := repo.Load(ctx, sid)
	require.Error(t, err)

	// The session store degrades a corrupt slot to an empty cart.
	store := cart.NewSessionStore(repo, sid, zerolog.Nop())
	assert.Equal(t, cart.IDList{}, store.Read(ctx))
}

func TestCartKey(t *testing.T) {
	assert.Equal(t, "cart:abc", cartKey("abc"))
}
