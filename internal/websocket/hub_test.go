package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pharmacy/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHubServer(t *testing.T) (*Hub, *auth.TokenManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop())
	go hub.Run()
	tokens := auth.NewTokenManager("test-secret", time.Hour, "pharmacy-test")

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, tokens, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, tokens, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestServeWs_BroadcastsEvents(t *testing.T) {
	hub, tokens, url := newTestHubServer(t)
	token, _, err := tokens.Issue("u1", "pat@pharmacy.com", "Pharmacist")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("stock_changed", map[string]int{"quantity": 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Event string         `json:"event"`
		Data  map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, "stock_changed", evt.Event)
	assert.Equal(t, 7, evt.Data["quantity"])
}

func TestServeWs_OneEventPerFrame(t *testing.T) {
	hub, tokens, url := newTestHubServer(t)
	token, _, err := tokens.Issue("u1", "pat@pharmacy.com", "Pharmacist")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	for i := 0; i < 5; i++ {
		hub.Publish("sale_recorded", i)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for i := 0; i < 5; i++ {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var evt struct {
			Event string `json:"event"`
			Data  int    `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &evt), string(msg))
		assert.Equal(t, i, evt.Data)
	}
}

func TestServeWs_RejectsMissingOrBadToken(t *testing.T) {
	_, tokens, url := newTestHubServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=garbage", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, _, err := tokens.Issue("u9", "guest@pharmacy.com", "Customer")
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPublish_DropsWhenQueueFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	// Run is not started, so nothing drains the queue
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.Publish("sale_recorded", i)
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
