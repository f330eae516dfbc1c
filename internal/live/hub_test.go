package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWs(w, r, r.URL.Query().Get("room"))
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, room string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?room=" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesRoomOnly(t *testing.T) {
	hub, server := startHub(t)

	room := TournamentRoom(uuid.New())
	otherRoom := TournamentRoom(uuid.New())

	member := dial(t, server, room)
	outsider := dial(t, server, otherRoom)

	require.Eventually(t, func() bool {
		return hub.RoomSize(room) == 1 && hub.RoomSize(otherRoom) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(room, StandingsUpdated, map[string]int{"points": 3}))

	member.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := member.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type    string         `json:"type"`
		RoomID  string         `json:"roomId"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, StandingsUpdated, msg.Type)
	assert.Equal(t, room, msg.RoomID)
	assert.Equal(t, 3, msg.Payload["points"])

	outsider.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = outsider.ReadMessage()
	assert.Error(t, err, "client in another room should not receive the message")
}

func TestClientLeavesRoomOnDisconnect(t *testing.T) {
	hub, server := startHub(t)
	room := TournamentRoom(uuid.New())

	conn := dial(t, server, room)
	require.Eventually(t, func() bool { return hub.RoomSize(room) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.RoomSize(room) == 0 }, time.Second, 10*time.Millisecond)
}

func TestPublishToEmptyRoom(t *testing.T) {
	hub := NewHub()
	assert.NoError(t, hub.Publish("nobody", StandingsUpdated, nil))
}
