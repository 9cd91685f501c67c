// Package notification publishes outbound notification events to NATS.
// Delivery is fire-and-forget: a template worker elsewhere renders and sends
// the actual message, and a dead broker never fails the operation that
// triggered the event.
package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/middleware"
)

const subjectPrefix = "notifications."

type NatsPublisher struct {
	conn *nats.Conn
}

// NewNatsPublisher connects to the broker. The connection retries in the
// background, so a broker outage at startup does not block the service.
func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: conn}, nil
}

var _ portssvc.Notifier = (*NatsPublisher)(nil)

type notificationEvent struct {
	TemplateKey string         `json:"templateKey"`
	Recipient   string         `json:"recipient"`
	Data        map[string]any `json:"data,omitempty"`
	EmittedAt   time.Time      `json:"emittedAt"`
}

// Notify publishes one event. Failures are logged and swallowed.
func (p *NatsPublisher) Notify(ctx context.Context, templateKey, recipient string, data map[string]any) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := json.Marshal(notificationEvent{
		TemplateKey: templateKey,
		Recipient:   recipient,
		Data:        data,
		EmittedAt:   time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("Failed to marshal notification event", slog.String("template", templateKey), slog.String("error", err.Error()))
		return
	}

	if err := p.conn.Publish(subjectPrefix+templateKey, payload); err != nil {
		logger.Warn("Failed to publish notification event", slog.String("template", templateKey), slog.String("error", err.Error()))
	}
}

// Close drains the connection so queued events flush before shutdown.
func (p *NatsPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NoopNotifier is used when no broker is configured.
type NoopNotifier struct{}

var _ portssvc.Notifier = NoopNotifier{}

func (NoopNotifier) Notify(ctx context.Context, templateKey, recipient string, data map[string]any) {
	middleware.GetLoggerFromCtx(ctx).Debug("Notification skipped, no broker configured", slog.String("template", templateKey))
}
