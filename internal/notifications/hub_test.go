package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func TestHub_RegisterLimitsAndBroadcast(t *testing.T) {
	hub := NewHub()

	var clients []*Client
	for i := 0; i < maxConnsPerUser; i++ {
		c, err := hub.Register("u-1", nil)
		require.NoError(t, err)
		clients = append(clients, c)
	}
	_, err := hub.Register("u-1", nil)
	assert.ErrorIs(t, err, ErrUserConnLimit)
	assert.Equal(t, maxConnsPerUser, hub.Connections("u-1"))

	assert.Equal(t, maxConnsPerUser, hub.Broadcast("u-1", `{"type":"ping"}`))
	assert.Equal(t, 0, hub.Broadcast("u-2", `{"type":"ping"}`))
	assert.Equal(t, `{"type":"ping"}`, string(<-clients[0].Send))

	for _, c := range clients {
		hub.UnregisterClient(c)
	}
	assert.Equal(t, 0, hub.Connections("u-1"))
	assert.False(t, clients[0].TrySend([]byte("late")))
}

func TestHub_StartWiringForwardsUserChannel(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	hub := NewHub()
	client, err := hub.Register("academy-1", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notifier := NewNotifier(rdb)
	require.NoError(t, hub.StartWiring(ctx, notifier))

	require.NoError(t, notifier.PublishEvent(context.Background(), "academy-1", Event{Type: EventEnrollmentCreated}))

	assert.Eventually(t, func() bool {
		select {
		case msg := <-client.Send:
			return string(msg) == `{"type":"enrollment.created","payload":null}`
		default:
			return false
		}
	}, testEventuallyTimeout, testPollInterval)
}

func TestNotifier_NilRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.PublishUser(context.Background(), "u-1", "payload"))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:abc", UserChannel("abc"))

	id, ok := UserFromChannel("notifications:user:abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = UserFromChannel("chat:conv:1")
	assert.False(t, ok)
	_, ok = UserFromChannel("notifications:user:")
	assert.False(t, ok)
}
