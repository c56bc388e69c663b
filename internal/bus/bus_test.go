package bus

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventReachesHub(t *testing.T) {
	received := make(chan Message, 4)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg Message
			if json.Unmarshal(payload, &msg) == nil {
				received <- msg
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	b, err := Dial(wsURL, "talkie")
	require.NoError(t, err)
	defer b.Close()

	b.Event("state", "recording")
	b.Event("transcript", "turn on the light")

	want := []Message{
		{From: "talkie", Kind: "state", Content: "recording"},
		{From: "talkie", Kind: "transcript", Content: "turn on the light"},
	}
	for _, w := range want {
		select {
		case got := <-received:
			assert.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("hub never received %v", w)
		}
	}
}

func TestNilBusDropsEvents(t *testing.T) {
	var b *Bus
	b.Event("state", "idle") // must not panic
	assert.NoError(t, b.Close())
}

func TestDialFailure(t *testing.T) {
	_, err := Dial("ws://127.0.0.1:1/ws", "talkie")
	assert.Error(t, err)
}
