package realtime

import (
	"context"

	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
)

// Notifier bumps topic versions and pushes invalidations to subscribers.
type Notifier struct {
	versions VersionStore
	hub      *Hub
}

var _ Publisher = (*Notifier)(nil)

func NewNotifier(versions VersionStore, hub *Hub) *Notifier {
	return &Notifier{versions: versions, hub: hub}
}

// Publish never fails the calling mutation: the write has already been
// applied, so version or push errors are only logged.
func (n *Notifier) Publish(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		v, err := n.versions.Bump(ctx, topic)
		if err != nil {
			logger.Warnf("realtime: %v", err)
			continue
		}
		metrics.RealtimePublishes.WithLabelValues(TopicKind(topic)).Inc()
		if n.hub != nil {
			n.hub.Broadcast(Invalidate(topic, v))
		}
	}
}

// Version returns the current version of topic.
func (n *Notifier) Version(ctx context.Context, topic string) (int64, error) {
	return n.versions.Get(ctx, topic)
}
