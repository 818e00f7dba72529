package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

func setup(t *testing.T) (*miniredis.Miniredis, *TenantCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewTenantCache(client, time.Hour)
}

func TestTenantCache_PutGetInvalidate(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()
	trialEnd := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)

	tn := &entity.Tenant{
		ID:                 "t-1",
		ExternalID:         "auth0|abc",
		Email:              "tienda@correo.co",
		SubscriptionStatus: entity.SubscriptionTrial,
		TrialEnd:           &trialEnd,
	}
	require.NoError(t, c.Put(ctx, tn))
	assert.True(t, mr.Exists("tenant:ext:auth0|abc"))
	assert.Equal(t, time.Hour, mr.TTL("tenant:ext:auth0|abc"))

	got, ok, err := c.Get(ctx, "auth0|abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t-1", got.ID)
	assert.True(t, got.TrialEnd.Equal(trialEnd))

	require.NoError(t, c.Invalidate(ctx, "auth0|abc"))
	_, ok, err = c.Get(ctx, "auth0|abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTenantCache_ExpiraConTTL(t *testing.T) {
	mr, c := setup(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, &entity.Tenant{ID: "t-1", ExternalID: "x"}))
	mr.FastForward(61 * time.Minute)

	_, ok, err := c.Get(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTenantCache_EntradaCorruptaEsMiss(t *testing.T) {
	mr, c := setup(t)
	require.NoError(t, mr.Set("tenant:ext:x", "{no-json"))

	_, ok, err := c.Get(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("tenant:ext:x"))
}

func TestTenantCache_ErrorDeRedis(t *testing.T) {
	mr, c := setup(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "x")
	assert.Error(t, err)
}
