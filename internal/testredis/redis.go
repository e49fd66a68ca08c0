// Package testredis starts a throwaway Redis server for tests.
package testredis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/database"
)

// TestRedis wraps a Redis container and a client connected to it
type TestRedis struct {
	Client    *redis.Client
	Config    *config.Config
	Container testcontainers.Container
}

// Close disconnects the client and removes the container
func (tr *TestRedis) Close() error {
	if tr.Client != nil {
		_ = tr.Client.Close()
	}
	if tr.Container != nil {
		return tr.Container.Terminate(context.Background())
	}
	return nil
}

// Setup starts Redis in a container. The test is skipped under -short or
// when no container runtime is available.
func Setup(t *testing.T) *TestRedis {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready to accept connections"),
				wait.ForListeningPort("6379/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err)

	tr := &TestRedis{Container: container}
	t.Cleanup(func() { _ = tr.Close() })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	tr.Config = &config.Config{
		RedisHost: host,
		RedisPort: port.Port(),
	}
	tr.Client, err = database.NewRedisClient(ctx, tr.Config, nil)
	require.NoError(t, err)

	return tr
}
