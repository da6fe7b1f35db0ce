package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/linesmerrill/festival-registration-api/models"
)

const (
	// EventRegistrantCreated is sent to the dashboard for every new registrant
	EventRegistrantCreated = "registrant_created"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type feedMessage struct {
	Event string                   `json:"event"`
	Data  models.RegistrantSummary `json:"data"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// LiveFeed pushes new registrants to connected admin dashboards
type LiveFeed struct {
	upgrader websocket.Upgrader
	clients  map[*feedClient]struct{}
	mutex    sync.Mutex
	closed   bool
}

// NewLiveFeed returns a feed accepting websocket connections from the given
// origins, or from any origin when none are set
func NewLiveFeed(origins []string) *LiveFeed {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}

	return &LiveFeed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				return err == nil && allowed[u.Scheme+"://"+u.Host]
			},
		},
		clients: make(map[*feedClient]struct{}),
	}
}

// ServeHTTP upgrades the request and streams registrant events until the
// dashboard disconnects
func (f *LiveFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Warnw("websocket upgrade error", "error", err)
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
	f.mutex.Lock()
	if f.closed {
		f.mutex.Unlock()
		conn.Close()
		return
	}
	f.clients[c] = struct{}{}
	count := len(f.clients)
	f.mutex.Unlock()
	zap.S().Infow("dashboard connected to live feed", "clients", count)

	go f.writePump(c)
	f.readPump(c)
}

// readPump drains control frames and notices when the dashboard goes away
func (f *LiveFeed) readPump(c *feedClient) {
	defer f.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

// writePump is the only writer of c.conn
func (f *LiveFeed) writePump(c *feedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zap.S().Warnw("error sending live feed event", "error", err)
				f.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				f.remove(c)
				return
			}
		}
	}
}

func (f *LiveFeed) remove(c *feedClient) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

// Publish broadcasts a new registrant to every connected dashboard. Slow
// dashboards are dropped rather than allowed to hold up a finalize.
func (f *LiveFeed) Publish(reg models.Registrant) {
	msg, err := json.Marshal(feedMessage{Event: EventRegistrantCreated, Data: reg.Summary()})
	if err != nil {
		zap.S().Errorw("failed to encode live feed event", "error", err)
		return
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()
	for c := range f.clients {
		select {
		case c.send <- msg:
		default:
			zap.S().Warn("live feed client too slow, disconnecting")
			delete(f.clients, c)
			close(c.send)
		}
	}
}

// Clients returns the number of connected dashboards
func (f *LiveFeed) Clients() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.clients)
}

// Close disconnects every dashboard and refuses new ones
func (f *LiveFeed) Close() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.closed = true
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
	}
}
