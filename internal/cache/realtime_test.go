package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

func setupCache(t *testing.T) (*miniredis.Miniredis, *RealtimeCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, NewRealtimeCache(client, 15*time.Minute, zap.NewNop())
}

func TestUpdateAndGetLatest(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	hr := 88
	reading := domain.VitalsReading{
		HeartRate: &hr,
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, c.UpdateLatest(ctx, "emp-1", reading))

	got, err := c.GetLatest(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.HeartRate)
	assert.Equal(t, 88, *got.HeartRate)
	assert.True(t, got.Timestamp.Equal(reading.Timestamp))
}

func TestGetLatest_MissIsNil(t *testing.T) {
	_, c := setupCache(t)

	got, err := c.GetLatest(context.Background(), "emp-unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateLatest_SetsTTL(t *testing.T) {
	mr, c := setupCache(t)
	ctx := context.Background()

	hr := 70
	require.NoError(t, c.UpdateLatest(ctx, "emp-1", domain.VitalsReading{HeartRate: &hr, Timestamp: time.Now().UTC()}))

	key := "pulsewatch:vitals:emp-1:latest"
	assert.True(t, mr.Exists(key))

	mr.FastForward(16 * time.Minute)
	assert.False(t, mr.Exists(key))
}

func TestUpdateLatest_Overwrites(t *testing.T) {
	_, c := setupCache(t)
	ctx := context.Background()

	first, second := 70, 95
	require.NoError(t, c.UpdateLatest(ctx, "emp-1", domain.VitalsReading{HeartRate: &first, Timestamp: time.Now().UTC()}))
	require.NoError(t, c.UpdateLatest(ctx, "emp-1", domain.VitalsReading{HeartRate: &second, Timestamp: time.Now().UTC()}))

	got, err := c.GetLatest(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got.HeartRate)
	assert.Equal(t, 95, *got.HeartRate)
}
