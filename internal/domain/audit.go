package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent records one successful mutation or report generation.
// ActorID is zero when the actor is unknown.
type AuditEvent struct {
	ID         uuid.UUID
	ActorID    int64
	ActorEmail string
	Action     string
	Detail     string
	At         time.Time
}
