package service

import (
	"context"
	"log/slog"

	"github.com/Strob0t/SecTrack/internal/port/messagequeue"
)

// AuditService consumes every checklist event from the queue and writes it
// to the structured log, leaving operators a durable trail of task, phase
// and project transitions.
type AuditService struct {
	queue messagequeue.Queue
	log   *slog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(queue messagequeue.Queue, log *slog.Logger) *AuditService {
	return &AuditService{queue: queue, log: log}
}

// Subscribe starts consuming checklist events. The returned function
// cancels the consumer.
func (s *AuditService) Subscribe(ctx context.Context) (func(), error) {
	return s.queue.Subscribe(ctx, messagequeue.SubjectAllEvents, s.record)
}

func (s *AuditService) record(_ context.Context, subject string, data []byte) error {
	s.log.Info("checklist event", "subject", subject, "size", len(data))
	return nil
}
