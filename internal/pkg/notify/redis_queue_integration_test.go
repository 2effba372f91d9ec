//go:build integration

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, RedisConfig{URL: url})
	require.NoError(t, err)

	q := NewRedisQueue(client, "sesi:test:notifications", 200*time.Millisecond)
	t.Cleanup(func() { _ = q.Close() })
	return q
}

func TestRedisQueueRoundTrip(t *testing.T) {
	q := setupRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Health(ctx))

	first := Message{
		ID:      "1",
		Kind:    KindApproval,
		To:      "member@example.com",
		Subject: "Welcome",
		Attachments: []Attachment{
			{Filename: "cert.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	}
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, Message{ID: "2", Kind: KindApprovalAdmin}))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, []byte("%PDF-1.4"), got.Attachments[0].Data)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestRedisQueueDequeueCancels(t *testing.T) {
	q := setupRedisQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.Error(t, err)
}
