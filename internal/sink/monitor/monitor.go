// Package monitor streams a periodic JSON snapshot of an MRRB's state to
// any connected browser over a websocket, using the hub-of-clients
// broadcast pattern shown by the pack's telemetry streamer.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/LucaRufer/MRRB"
)

// ReaderInfo is one reader's state as reported in a Snapshot.
type ReaderInfo struct {
	Handle string `json:"handle"`
	Policy string `json:"policy"`
	State  string `json:"state"`
}

// Snapshot is the JSON document broadcast to every connected client.
type Snapshot struct {
	RemainingSpace uint64       `json:"remaining_space"`
	IsFull         bool         `json:"is_full"`
	Readers        []ReaderInfo `json:"readers"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub polls an MRRB on an interval and broadcasts a Snapshot to every
// connected websocket client, dropping any client that falls behind.
type Hub struct {
	buf      *mrrb.MRRB
	describe func() []ReaderInfo
	interval time.Duration

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte

	done chan struct{}
}

// New creates a Hub that samples buf every interval. describe must return
// the current ReaderInfo for every reader attached to buf; the core
// package exposes no reader enumeration of its own; callers hold their own
// list of readers and know their policies up front.
func New(buf *mrrb.MRRB, interval time.Duration, describe func() []ReaderInfo) *Hub {
	return &Hub{
		buf:      buf,
		describe: describe,
		interval: interval,
		clients:  make(map[*websocket.Conn]chan []byte),
		done:     make(chan struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket and registers it as a
// client until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	send := make(chan []byte, 16)

	h.mu.Lock()
	h.clients[conn] = send
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for msg := range send {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()
}

// Run samples and broadcasts until Stop is called. It blocks; call it from
// its own goroutine.
func (h *Hub) Run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.broadcast()
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and closes every connected client's send channel.
func (h *Hub) Stop() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		close(send)
		delete(h.clients, conn)
	}
}

func (h *Hub) broadcast() {
	snap := Snapshot{
		RemainingSpace: h.buf.RemainingSpace(),
		IsFull:         h.buf.IsFull(),
		Readers:        h.describe(),
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		select {
		case send <- data:
		default:
			delete(h.clients, conn)
			close(send)
		}
	}
}
