package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// SweepTransition returns the state a reservation should have on day today.
// Once the trip date is today or earlier, pending becomes cancelled, approved
// becomes completed, and the reservation date is anchored to the eve of the
// trip. changed is false when r is already in that state, which makes the
// sweep idempotent.
func SweepTransition(r domain.Reservation, today time.Time) (next domain.Reservation, changed bool) {
	if r.TripDate.After(today) {
		return r, false
	}
	next = r
	switch r.Status {
	case domain.StatusPending:
		next.Status = domain.StatusCancelled
	case domain.StatusApproved:
		next.Status = domain.StatusCompleted
	}
	next.ReservationDate = r.TripDate.AddDate(0, 0, -1)
	changed = next.Status != r.Status || !next.ReservationDate.Equal(r.ReservationDate)
	return next, changed
}

// Sweep advances every due reservation by SweepTransition. Rows are written
// one at a time, each guarded by its previously read status, so a row edited
// concurrently is skipped rather than overwritten. A failing row is logged
// and counted; it never stops the batch. Only a failure to list due rows is
// returned.
func (s *ReservationService) Sweep(ctx context.Context, logger *slog.Logger) (domain.SweepResult, error) {
	today := dateOf(s.now())
	due, err := s.reservations.ListDue(ctx, today)
	if err != nil {
		return domain.SweepResult{}, err
	}

	var result domain.SweepResult
	for _, r := range due {
		next, changed := SweepTransition(r, today)
		if !changed {
			continue
		}
		applied, err := s.reservations.ApplySweep(ctx, next, r.Status)
		if err != nil {
			result.Failed++
			logger.Error("sweep: update reservation", "id", r.ID, "error", err)
			continue
		}
		if !applied {
			logger.Debug("sweep: reservation changed concurrently, skipped", "id", r.ID)
			continue
		}
		switch {
		case r.Status == domain.StatusPending:
			result.Cancelled++
		case r.Status == domain.StatusApproved:
			result.Completed++
		default:
			result.Normalized++
		}
	}
	return result, nil
}

// Sweeper runs ReservationService.Sweep once at start and then on every tick.
type Sweeper struct {
	svc      *ReservationService
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper constructs a Sweeper. interval must be positive.
func NewSweeper(svc *ReservationService, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. A run in progress finishes its batch
// before Run observes the cancellation.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

// runOnce is not cancellable; a started batch always runs to the end.
func (w *Sweeper) runOnce() {
	start := time.Now()
	result, err := w.svc.Sweep(context.Background(), w.logger)
	if err != nil {
		w.logger.Error("sweep: list due reservations", "error", err)
		return
	}
	w.logger.Info("sweep finished",
		"cancelled", result.Cancelled,
		"completed", result.Completed,
		"normalized", result.Normalized,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
