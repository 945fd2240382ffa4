package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestNewQueue(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_notifications")

	assert.NotNil(t, q)
	assert.Equal(t, "test_notifications", q.queueName)
	assert.Equal(t, client, q.client)
}

func TestQueue_PushAndPop(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_notifications")
	ctx := context.Background()

	msg := &NotificationMessage{
		Type:        "comment_rejected",
		CommentID:   7,
		AuthorID:    3,
		AuthorEmail: "author@example.com",
		Excerpt:     "some excerpt",
		Reason:      "spam",
	}

	err := q.Push(ctx, msg)
	require.NoError(t, err)

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)

	got, err := q.Pop(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, msg.Type, got.Type)
	assert.Equal(t, msg.CommentID, got.CommentID)
	assert.Equal(t, msg.AuthorEmail, got.AuthorEmail)
	assert.Equal(t, msg.Reason, got.Reason)

	length, err = q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestQueue_Pop_FIFO(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_notifications")
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(ctx, &NotificationMessage{
			Type:      "comment_flagged",
			CommentID: i,
		}))
	}

	for i := int64(1); i <= 3; i++ {
		msg, err := q.Pop(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, i, msg.CommentID)
	}
}

func TestQueue_Pop_Timeout(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	q := NewQueue(client, "test_notifications")

	msg, err := q.Pop(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, msg)
}
