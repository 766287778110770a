package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisStore_ReserveCompleteRelease(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)
	s := NewRedisStoreWithClient(client, "test:idem:")

	reserved, existing, err := s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, existing)

	// in flight
	reserved, existing, err = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Empty(t, existing)

	require.NoError(t, s.Complete(ctx, "k1", "entry-1", time.Minute))
	reserved, existing, err = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "entry-1", existing)

	ttl, err := client.TTL(ctx, "test:idem:k1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "completed keys keep a TTL")

	require.NoError(t, s.Release(ctx, "k1"))
	reserved, _, err = s.Reserve(ctx, "k1", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisStore_ExpiredReservationIsClaimable(t *testing.T) {
	ctx := context.Background()
	s := NewRedisStoreWithClient(startRedis(t), "")

	reserved, _, err := s.Reserve(ctx, "k", 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, reserved)

	time.Sleep(500 * time.Millisecond)
	reserved, _, err = s.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestRedisStore_KeyPrefixIsolatesStores(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)
	a := NewRedisStoreWithClient(client, "a:")
	b := NewRedisStoreWithClient(client, "b:")

	require.NoError(t, a.Complete(ctx, "shared", "entry-a", time.Minute))
	reserved, existing, err := b.Reserve(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, existing)
}
