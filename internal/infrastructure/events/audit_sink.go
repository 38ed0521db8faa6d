package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
)

// AuditSink writes every domain event to the structured log, giving the
// service an append-only audit trail of identity changes.
type AuditSink struct {
	log zerolog.Logger
}

func NewAuditSink(log zerolog.Logger) *AuditSink {
	return &AuditSink{log: log}
}

func (s *AuditSink) Handle(_ context.Context, event domain.Event) error {
	s.log.Info().
		Str("event", event.Name()).
		Str("aggregate_id", event.AggregateID()).
		Time("occurred_at", event.OccurredAt()).
		Msg("domain event")
	return nil
}
