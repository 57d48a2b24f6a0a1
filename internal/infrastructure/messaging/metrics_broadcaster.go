// Package messaging provides real-time fan-out of team metrics updates to
// connected websocket clients.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teampulsehq/teampulse-go/internal/domain/metrics"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
)

// Client represents a single connected metrics dashboard client.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// MetricsUpdate is the payload pushed to clients whenever the team snapshot
// is rebuilt.
type MetricsUpdate struct {
	Type           string                 `json:"type"` // always "team_metrics"
	TeamMembers    []string               `json:"teamMembers"`
	TotalMetrics   int                    `json:"totalMetrics"`
	AggregatedKPIs metrics.KPI            `json:"aggregatedKPIs"`
	IndividualKPIs map[string]metrics.KPI `json:"individualKPIs"`
	ComputedAt     time.Time              `json:"computedAt"`
}

// MetricsBroadcaster manages connected clients and pushes snapshot updates.
type MetricsBroadcaster struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	updates    chan []byte
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewMetricsBroadcaster creates a new broadcaster instance.
func NewMetricsBroadcaster(logger *logging.ChanneledLogger) *MetricsBroadcaster {
	return &MetricsBroadcaster{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		updates:    make(chan []byte, 8),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *MetricsBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.Stream().Info("Metrics stream client registered", "clients", count)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.Stream().Info("Metrics stream client unregistered", "clients", count)

		case message := <-b.updates:
			b.mu.RLock()
			for client := range b.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer, drop the frame rather than block the loop
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Register queues a client for registration.
func (b *MetricsBroadcaster) Register(client *Client) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *MetricsBroadcaster) Unregister(client *Client) {
	b.unregister <- client
}

// BroadcastSnapshot pushes the aggregate view of a freshly built snapshot to
// all connected clients.
func (b *MetricsBroadcaster) BroadcastSnapshot(snapshot *metrics.TeamSnapshot) {
	update := MetricsUpdate{
		Type:           "team_metrics",
		TeamMembers:    snapshot.TeamMembers,
		TotalMetrics:   snapshot.TotalMetrics,
		AggregatedKPIs: snapshot.AggregatedKPIs,
		IndividualKPIs: snapshot.IndividualKPIs,
		ComputedAt:     snapshot.BuiltAt,
	}

	message, err := json.Marshal(update)
	if err != nil {
		b.logger.Stream().Error("Failed to marshal metrics update", "error", err.Error())
		return
	}

	select {
	case b.updates <- message:
	default:
		b.logger.Stream().Warn("Metrics update channel full, dropping broadcast")
	}
}

// ClientCount reports the number of connected clients.
func (b *MetricsBroadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
