package clipboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shawnamir/sced/pkg/elog"
)

// ServiceWindow is the bridge's dedicated, unmapped window for
// selection transfers: a websocket endpoint that serves request-
// selection messages and acknowledges incremental chunk delivery.
// Grounded on the raw PTY websocket handler's upgrade/send-channel/
// ping-ticker structure, repurposed here for the request/response
// clipboard protocol instead of a one-way data stream.
type ServiceWindow struct {
	bridge *Bridge
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewServiceWindow returns a handler serving transfers against bridge.
func NewServiceWindow(bridge *Bridge) *ServiceWindow {
	return &ServiceWindow{bridge: bridge}
}

// wireRequest is an inbound "request-selection" or "property-deleted"
// frame from the requester side of the protocol.
type wireRequest struct {
	Type      string `json:"type"`
	Selection string `json:"selection"`
}

func (h *ServiceWindow) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		elog.Errorf("clipboard: failed to upgrade service window connection: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	ack := make(chan struct{}, 1)
	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() { closeOnce.Do(func() { close(done) }) }

	var writeMu sync.Mutex
	send := func(msg Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}
	waitAck := func(timeout time.Duration) bool {
		select {
		case <-ack:
			return true
		case <-time.After(timeout):
			return false
		case <-done:
			return false
		}
	}

	go h.pinger(conn, ticker, done, &writeMu)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			closeDone()
			return
		}
		var req wireRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		switch req.Type {
		case "request-selection":
			if err := h.bridge.Export(Selection(req.Selection), send, waitAck); err != nil {
				elog.Debugf("clipboard: export of %s failed: %v", req.Selection, err)
				closeDone()
				return
			}
		case "property-deleted":
			select {
			case ack <- struct{}{}:
			default:
			}
		}
	}
}

func (h *ServiceWindow) pinger(conn *websocket.Conn, ticker *time.Ticker, done chan struct{}, writeMu *sync.Mutex) {
	for {
		select {
		case <-ticker.C:
			writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
