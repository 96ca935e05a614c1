package webhook

import (
	"context"

	"github.com/blesswrld/codesync/backend/go-services/internal/users"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
	"github.com/blesswrld/codesync/backend/go-services/pkg/metrics"
)

// UserSync is the identity sync surface webhook events are applied to.
type UserSync interface {
	SyncUser(ctx context.Context, in users.SyncUserInput) (string, error)
	UpdateFromWebhook(ctx context.Context, identity string, u users.WebhookUpdate) error
	DeleteFromWebhook(ctx context.Context, identity string) error
}

// Processor applies verified events to the user directory.
type Processor struct {
	users UserSync
}

func NewProcessor(u UserSync) *Processor {
	return &Processor{users: u}
}

// Handle applies ev. Unknown event types are acknowledged and ignored.
func (p *Processor) Handle(ctx context.Context, ev *Event) error {
	var err error
	switch ev.Type {
	case EventUserCreated:
		_, err = p.users.SyncUser(ctx, ev.Data.SyncInput())
	case EventUserUpdated:
		err = p.users.UpdateFromWebhook(ctx, ev.Data.ID, ev.Data.Update())
	case EventUserDeleted:
		err = p.users.DeleteFromWebhook(ctx, ev.Data.ID)
	default:
		logger.Debugf("webhook: ignoring event type %s", ev.Type)
		metrics.WebhookEvents.WithLabelValues(ev.Type, "ignored").Inc()
		return nil
	}
	if err != nil {
		logger.Errorf("webhook: %s for %s failed: %v", ev.Type, ev.Data.ID, err)
		metrics.WebhookEvents.WithLabelValues(ev.Type, "error").Inc()
		return err
	}
	metrics.WebhookEvents.WithLabelValues(ev.Type, "ok").Inc()
	return nil
}
