// Package ws pushes published results to browser dashboards over websockets.
//
// The hub keeps the latest message of each type and replays it to clients as
// they connect, so a dashboard opened between refreshes is never blank.
// Region colors are held back from a client until it reports map_rendered.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/okian/tallymap/internal/domain/model"
	"github.com/okian/tallymap/internal/domain/types"
	"github.com/okian/tallymap/pkg/logger"
	"github.com/okian/tallymap/pkg/metrics"
)

const (
	defaultMaxClients = 1_000
	maxInboundBytes   = 4 << 10
)

// replayOrder is the order cached messages are sent to a new client.
var replayOrder = []MessageType{TypeTotals, TypeShares, TypeUpdated, TypeStatus}

type client struct {
	w        *clientWriter
	mapReady bool
}

// Hub is a Display that fans results out to websocket clients.
type Hub struct {
	clock      clockwork.Clock
	log        logger.Logger
	labels     model.Labels
	maxClients int
	upgrader   websocket.Upgrader

	mu            sync.Mutex
	clients       map[*client]struct{}
	latest        map[MessageType][]byte
	onMapRendered func(ctx context.Context)
	rendered      bool
	closed        bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithClock sets the clock driving keepalive pings.
func WithClock(c clockwork.Clock) Option {
	return func(h *Hub) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithLabels sets the party labels sent along with totals.
func WithLabels(l model.Labels) Option {
	return func(h *Hub) {
		h.labels = l
	}
}

// WithMaxClients caps concurrent connections.
func WithMaxClients(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxClients = n
		}
	}
}

// WithCheckOrigin overrides the upgrader origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// NewHub returns a hub with no clients.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clock:      clockwork.NewRealClock(),
		log:        logger.Nop(),
		maxClients: defaultMaxClients,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		clients: make(map[*client]struct{}),
		latest:  make(map[MessageType][]byte),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnMapRendered registers fn to run the first time any client reports that
// its map is rendered.
func (h *Hub) OnMapRendered(fn func(ctx context.Context)) {
	h.mu.Lock()
	h.onMapRendered = fn
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.admit(); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Debug(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}
	conn.SetReadLimit(maxInboundBytes)

	c, err := h.register(conn)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer h.unregister(c)

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Debug(ctx, "ignoring malformed client message", logger.Error(err))
			continue
		}
		if msg.Type == TypeMapRendered {
			h.mapRendered(ctx, c)
		}
	}
}

func (h *Hub) admit() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if len(h.clients) >= h.maxClients {
		return ErrTooManyClients
	}
	return nil
}

func (h *Hub) register(conn *websocket.Conn) (*client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	c := &client{w: newClientWriter(conn, h.clock)}
	h.clients[c] = struct{}{}
	for _, t := range replayOrder {
		if msg, ok := h.latest[t]; ok {
			h.queue(c, t, msg)
		}
	}
	metrics.UpdateWSClients(len(h.clients))
	h.log.Debug(context.Background(), "websocket client connected", logger.Int("clients", len(h.clients)))
	return c, nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		metrics.UpdateWSClients(n)
	}
	c.w.stop()
}

// mapRendered marks c ready for colors, sends it the cached colors and fires
// the first-render callback outside the lock.
func (h *Hub) mapRendered(ctx context.Context, c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok || c.mapReady {
		h.mu.Unlock()
		return
	}
	c.mapReady = true
	if msg, ok := h.latest[TypeRegions]; ok {
		h.queue(c, TypeRegions, msg)
	}
	var fire func(context.Context)
	if !h.rendered {
		h.rendered = true
		fire = h.onMapRendered
	}
	h.mu.Unlock()

	if fire != nil {
		h.log.Info(ctx, "first dashboard map rendered")
		fire(ctx)
	}
}

// publish caches msg and queues it to every client that accepts it.
func (h *Hub) publish(ctx context.Context, t MessageType, data any) {
	msg, err := encode(t, data)
	if err != nil {
		h.log.Error(ctx, "encode websocket message", logger.String("type", string(t)), logger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest[t] = msg
	for c := range h.clients {
		if t == TypeRegions && !c.mapReady {
			continue
		}
		h.queue(c, t, msg)
	}
}

func (h *Hub) queue(c *client, t MessageType, msg []byte) {
	if c.w.enqueue(msg) {
		metrics.RecordWSMessage(string(t))
	}
}

func (h *Hub) SetTotals(ctx context.Context, demUnits, repUnits int) {
	h.publish(ctx, TypeTotals, totalsData{
		DemLabel: h.labels.Dem,
		RepLabel: h.labels.Rep,
		DemUnits: demUnits,
		RepUnits: repUnits,
	})
}

func (h *Hub) SetShares(ctx context.Context, demPct, repPct float64) {
	h.publish(ctx, TypeShares, sharesData{DemPct: demPct, RepPct: repPct})
}

func (h *Hub) ColorRegions(ctx context.Context, regions map[string]model.Category) {
	out := make(map[string]string, len(regions))
	for k, v := range regions {
		out[k] = string(v)
	}
	h.publish(ctx, TypeRegions, regionsData{Regions: out})
}

func (h *Hub) SetLastUpdate(ctx context.Context, at time.Time) {
	h.publish(ctx, TypeUpdated, updatedData{At: at.UTC()})
}

// SetStatus pushes the latest refresh outcome.
func (h *Hub) SetStatus(ctx context.Context, status types.Status) {
	h.publish(ctx, TypeStatus, status)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.w.stop()
	}
	metrics.UpdateWSClients(0)
}
