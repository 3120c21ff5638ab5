package service

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects for record lifecycle events.
const (
	SubjectTreeCreated = "trees.events.created"
	SubjectTreeUpdated = "trees.events.updated"
	SubjectTreeDeleted = "trees.events.deleted"
)

// EventPublisher publishes record lifecycle events to NATS. A nil publisher
// is a no-op, so deployments without a broker keep working.
type EventPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewEventPublisher creates an event publisher.
func NewEventPublisher(nc *nats.Conn, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{nc: nc, logger: logger}
}

// Publish sends one event. Publishing is best-effort: a broker failure is
// logged but never fails the originating request.
func (p *EventPublisher) Publish(subject string, payload interface{}) {
	if p == nil || p.nc == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("marshal event payload", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("publish event", zap.String("subject", subject), zap.Error(err))
	}
}
