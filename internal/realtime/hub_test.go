package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/peterldowns/testy/assert"
)

func newServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		h.AddClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.RemoveClient(conn)
				return
			}
		}
	}))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	srv := newServer(t, h)
	defer srv.Close()

	a := dial(t, srv)
	defer a.Close()
	b := dial(t, srv)
	defer b.Close()
	waitFor(t, func() bool { return h.Len() == 2 })

	h.BroadcastJSON(map[string]string{"refreshId": "r1"})

	for _, conn := range []*websocket.Conn{a, b} {
		var got map[string]string
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		assert.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "r1", got["refreshId"])
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	h := NewHub()
	srv := newServer(t, h)
	defer srv.Close()

	a := dial(t, srv)
	waitFor(t, func() bool { return h.Len() == 1 })
	_ = a.Close()
	waitFor(t, func() bool { return h.Len() == 0 })

	h.BroadcastJSON("ignored")
	h.Close()
	assert.Equal(t, 0, h.Len())
}
