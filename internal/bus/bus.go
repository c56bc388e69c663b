// Package bus publishes session events to a websocket hub so other shards
// can observe the assistant. Entirely optional: a nil *Bus drops events.
package bus

import (
	"encoding/json"
	log "log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

type Message struct {
	From    string `json:"from"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

type Bus struct {
	mu   sync.Mutex
	conn *websocket.Conn
	from string
}

func Dial(wsURL, from string) (*Bus, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, err
	}

	log.Info("connected to bus", "url", wsURL)
	return &Bus{conn: conn, from: from}, nil
}

// Event publishes one session event. Publish failures are logged and
// dropped; the assistant keeps working without the hub.
func (b *Bus) Event(kind, content string) {
	if b == nil {
		return
	}

	data, err := json.Marshal(Message{From: b.from, Kind: kind, Content: content})
	if err != nil {
		log.Error("marshal bus event", "err", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("bus publish failed", "kind", kind, "err", err)
	}
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.conn.Close()
}
