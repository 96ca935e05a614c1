package realtime

import (
	"errors"
	"sync"

	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that subscribers must implement
type ClientInterface interface {
	ID() string
	Topics() []string
	Send(data []byte) error
	Close() error
}

// Hub tracks websocket subscribers by topic. It is safe for concurrent use.
type Hub struct {
	topics map[string]map[string]ClientInterface
	mu     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[string]ClientInterface)}
}

// Register subscribes client to each of its topics.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range client.Topics() {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[string]ClientInterface)
		}
		h.topics[topic][client.ID()] = client
	}
	logger.Debugf("realtime client %s subscribed to %v", client.ID(), client.Topics())
}

// Unregister removes a client from every topic it subscribed to.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, topic := range client.Topics() {
		clients, ok := h.topics[topic]
		if !ok {
			continue
		}
		delete(clients, client.ID())
		if len(clients) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Broadcast sends event to every subscriber of its topic without blocking
// the caller on slow clients.
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		logger.Errorf("realtime: failed to serialize event for %s: %v", event.Topic, err)
		return
	}

	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.topics[event.Topic]))
	for _, c := range h.topics[event.Topic] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Send(data); err != nil {
			logger.Warnf("realtime: failed to send %s to client %s: %v", event.Topic, c.ID(), err)
		}
	}
}

// SubscriberCount returns the number of clients subscribed to topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
