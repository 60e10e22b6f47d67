// Package audit delivers audit events: one audit_log row per event and,
// when configured, one line in a rotated JSON file.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// Sink implements service.Auditor. Delivery failures are logged and never
// reach the caller.
type Sink struct {
	repo   repo.AuditRepo
	file   *logrus.Logger
	logger *slog.Logger
	now    func() time.Time
}

var _ service.Auditor = (*Sink)(nil)

// NewSink returns a Sink writing to r. file may be nil.
func NewSink(r repo.AuditRepo, file *logrus.Logger, logger *slog.Logger) *Sink {
	return &Sink{repo: r, file: file, logger: logger, now: time.Now}
}

// Record stores one event.
func (s *Sink) Record(ctx context.Context, actor domain.Claims, action, detail string) {
	e := domain.AuditEvent{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Detail:     detail,
		At:         s.now().UTC(),
	}

	// The request may already be finishing; the row is written regardless.
	if err := s.repo.Insert(context.WithoutCancel(ctx), e); err != nil {
		s.logger.ErrorContext(ctx, "audit: insert event", "action", action, "error", err)
	}

	if s.file != nil {
		s.file.WithFields(logrus.Fields{
			"event_id":    e.ID.String(),
			"actor_id":    e.ActorID,
			"actor_email": e.ActorEmail,
			"action":      e.Action,
		}).WithTime(e.At).Info(e.Detail)
	}
}
