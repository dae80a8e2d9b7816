package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bailemos/internal/featureflags"
	"bailemos/internal/models"
	"bailemos/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsocketUpgrade_Rejections(t *testing.T) {
	_, rdb := newRedisClient(t)
	srv, app := newTestServer(t, rdb)
	token := tokenFor(t, srv, seedUser(t, srv, models.RoleAcademy))

	t.Run("plain http", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/ws?token="+token, "", nil)
		assert.Equal(t, http.StatusUpgradeRequired, status)
	})

	t.Run("missing token", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/ws", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("flag disabled", func(t *testing.T) {
		flags := srv.featureFlags
		srv.featureFlags = featureflags.NewManager("realtime=off")
		defer func() { srv.featureFlags = flags }()

		req := httptest.NewRequest(http.MethodGet, "/api/ws?token="+token, nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		req.Header.Set("Sec-WebSocket-Version", "13")
		req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestWebsocketUpgrade_NoRedis(t *testing.T) {
	srv, app := newTestServer(t, nil)
	token := tokenFor(t, srv, seedUser(t, srv, models.RoleDancer))

	req := httptest.NewRequest(http.MethodGet, "/api/ws?token="+token, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebsocket_DeliversPublishedEvents(t *testing.T) {
	_, rdb := newRedisClient(t)
	srv, app := newTestServer(t, rdb)
	academy := seedUser(t, srv, models.RoleAcademy)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, srv.hub.StartWiring(ctx, srv.notifier))

	url := "ws://" + ln.Addr().String() + "/api/ws?token=" + tokenFor(t, srv, academy)
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer func() { _ = conn.Close() }()

	require.Eventually(t, func() bool {
		return srv.hub.Connections(academy.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.notifier.PublishEvent(ctx, academy.ID, notifications.Event{
		Type:    "enrollment.created",
		Payload: map[string]string{"enrollmentId": "e-1"},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "enrollment.created", got.Type)
	assert.Equal(t, "e-1", got.Payload["enrollmentId"])

	_ = conn.Close()
	assert.Eventually(t, func() bool {
		return srv.hub.Connections(academy.ID) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
