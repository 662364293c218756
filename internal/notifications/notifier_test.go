package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	t.Parallel()

	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "payload"))
	assert.NoError(t, n.PublishLike(context.Background(), 1, 2, 3, 4))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_PublishLikeReachesSubscriber(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type message struct{ channel, payload string }
	received := make(chan message, 1)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		received <- message{channel, payload}
	}))

	require.NoError(t, n.PublishLike(ctx, 7, 9, 42, 3))

	select {
	case msg := <-received:
		assert.Equal(t, "notifications:user:7", msg.channel)
		var ev Event
		require.NoError(t, json.Unmarshal([]byte(msg.payload), &ev))
		assert.Equal(t, EventPostLike, ev.Type)
		assert.Equal(t, uint(9), ev.ActorID)
		assert.Equal(t, uint(42), ev.PostID)
		assert.EqualValues(t, 3, ev.Data["like_count"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for like notification")
	}
}
