package service

import (
	"context"

	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"
)

// AuditService consumes every domain event off the bus and writes it to the
// structured audit log. A durable consumer means events published while the
// worker was down are replayed on restart.
type AuditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewAuditService(subscriber *pktNats.Subscriber, log logger.ILogger) *AuditService {
	return &AuditService{
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *AuditService) Start() error {
	return s.subscriber.Subscribe("events.>", "audit-log", func(ctx context.Context, event events.Event) error {
		s.logger.Info("Audit", event.EventType(), event.Payload())
		return nil
	})
}
