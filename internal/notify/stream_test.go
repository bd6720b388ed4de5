package notify

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulsewatch/internal/domain"
)

func TestStreamPublisher_PublishAll(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	p := NewStreamPublisher(client, "pulsewatch:alerts", zap.NewNop())

	alerts := []domain.Alert{
		sampleAlert(domain.SeverityCritical),
		sampleAlert(domain.SeverityWarning),
	}
	require.NoError(t, p.PublishAll(context.Background(), alerts))

	entries, err := client.XRange(context.Background(), "pulsewatch:alerts", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "alert-1", entries[0].Values["alert_id"])
	assert.Equal(t, "critical", entries[0].Values["severity"])
	assert.Equal(t, "emp-1", entries[0].Values["employee_id"])
	assert.Equal(t, "warning", entries[1].Values["severity"])
}
