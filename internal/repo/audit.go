package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// AuditRepo persists audit events to the audit_log table.
type AuditRepo interface {
	Insert(ctx context.Context, e domain.AuditEvent) error
}

type pgAuditRepo struct {
	db db
}

// NewAuditRepo constructs an AuditRepo backed by the provided db connection.
func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

func (r *pgAuditRepo) Insert(ctx context.Context, e domain.AuditEvent) error {
	const q = `
		INSERT INTO audit_log (id, user_id, actor_email, action, details, created_at)
		VALUES (@id, @user_id, @actor_email, @action, @details, @created_at)`

	var userID *int64
	if e.ActorID != 0 {
		userID = &e.ActorID
	}

	args := pgx.NamedArgs{
		"id":          e.ID,
		"user_id":     userID,
		"actor_email": e.ActorEmail,
		"action":      e.Action,
		"details":     e.Detail,
		"created_at":  e.At,
	}
	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.AuditRepo.Insert: %w", err)
	}
	return nil
}
