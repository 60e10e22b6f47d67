package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepTransition(t *testing.T) {
	today := day(2030, 5, 10)
	tests := []struct {
		name        string
		in          domain.Reservation
		wantStatus  domain.Status
		wantResDate time.Time
		wantChanged bool
	}{
		{
			name:        "future trip untouched",
			in:          domain.Reservation{TripDate: day(2030, 5, 11), ReservationDate: day(2030, 5, 1), Status: domain.StatusPending},
			wantStatus:  domain.StatusPending,
			wantResDate: day(2030, 5, 1),
		},
		{
			name:        "pending due today is cancelled",
			in:          domain.Reservation{TripDate: today, ReservationDate: day(2030, 5, 1), Status: domain.StatusPending},
			wantStatus:  domain.StatusCancelled,
			wantResDate: day(2030, 5, 9),
			wantChanged: true,
		},
		{
			name:        "approved in the past is completed",
			in:          domain.Reservation{TripDate: day(2030, 4, 1), ReservationDate: day(2030, 3, 1), Status: domain.StatusApproved},
			wantStatus:  domain.StatusCompleted,
			wantResDate: day(2030, 3, 31),
			wantChanged: true,
		},
		{
			name:        "terminal status only re-anchored",
			in:          domain.Reservation{TripDate: day(2030, 4, 1), ReservationDate: day(2030, 1, 1), Status: domain.StatusCancelled},
			wantStatus:  domain.StatusCancelled,
			wantResDate: day(2030, 3, 31),
			wantChanged: true,
		},
		{
			name:        "already swept",
			in:          domain.Reservation{TripDate: day(2030, 4, 1), ReservationDate: day(2030, 3, 31), Status: domain.StatusCompleted},
			wantStatus:  domain.StatusCompleted,
			wantResDate: day(2030, 3, 31),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := service.SweepTransition(tc.in, today)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantResDate, got.ReservationDate)
			assert.Equal(t, tc.wantChanged, changed)
			assert.True(t, got.TripDate.After(got.ReservationDate))
		})
	}
}

// sweepStore keeps rows in memory and mimics the repo's due query and
// status-guarded write.
type sweepStore struct {
	rows    map[int64]domain.Reservation
	failIDs map[int64]bool
}

func (s *sweepStore) repo() *mockReservationRepo {
	return &mockReservationRepo{
		listDue: func(_ context.Context, today time.Time) ([]domain.Reservation, error) {
			var out []domain.Reservation
			for _, r := range s.rows {
				if r.TripDate.After(today) {
					continue
				}
				if _, changed := service.SweepTransition(r, today); changed {
					out = append(out, r)
				}
			}
			return out, nil
		},
		applySweep: func(_ context.Context, r domain.Reservation, from domain.Status) (bool, error) {
			if s.failIDs[r.ID] {
				return false, errors.New("connection reset")
			}
			if s.rows[r.ID].Status != from {
				return false, nil
			}
			s.rows[r.ID] = r
			return true, nil
		},
	}
}

func TestReservationService_Sweep(t *testing.T) {
	store := &sweepStore{rows: map[int64]domain.Reservation{
		1: {ID: 1, TripDate: day(2030, 5, 1), ReservationDate: day(2030, 4, 1), Status: domain.StatusPending},
		2: {ID: 2, TripDate: day(2030, 5, 2), ReservationDate: day(2030, 4, 1), Status: domain.StatusApproved},
		3: {ID: 3, TripDate: day(2030, 5, 3), ReservationDate: day(2030, 4, 1), Status: domain.StatusCancelled},
		4: {ID: 4, TripDate: day(2030, 6, 1), ReservationDate: day(2030, 4, 1), Status: domain.StatusPending},
	}}
	svc := service.NewReservationService(store.repo(), anyUser(), anyTrip(), &recordingAuditor{}, fixedClock(day(2030, 5, 10)))
	ctx := context.Background()

	got, err := svc.Sweep(ctx, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{Cancelled: 1, Completed: 1, Normalized: 1}, got)
	assert.Equal(t, domain.StatusCancelled, store.rows[1].Status)
	assert.Equal(t, domain.StatusCompleted, store.rows[2].Status)
	assert.Equal(t, day(2030, 5, 2), store.rows[3].ReservationDate)
	assert.Equal(t, domain.StatusPending, store.rows[4].Status, "future trip untouched")

	again, err := svc.Sweep(ctx, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{}, again, "a second run changes nothing")
}

func TestReservationService_Sweep_FailingRowDoesNotStopBatch(t *testing.T) {
	store := &sweepStore{
		rows: map[int64]domain.Reservation{
			1: {ID: 1, TripDate: day(2030, 5, 1), ReservationDate: day(2030, 4, 1), Status: domain.StatusPending},
			2: {ID: 2, TripDate: day(2030, 5, 1), ReservationDate: day(2030, 4, 1), Status: domain.StatusPending},
		},
		failIDs: map[int64]bool{1: true},
	}
	svc := service.NewReservationService(store.repo(), anyUser(), anyTrip(), &recordingAuditor{}, fixedClock(day(2030, 5, 10)))

	got, err := svc.Sweep(context.Background(), discardLogger())

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Failed)
	assert.Equal(t, int64(1), got.Cancelled)
	assert.Equal(t, domain.StatusCancelled, store.rows[2].Status)
}

func TestReservationService_Sweep_ConcurrentEditSkipped(t *testing.T) {
	repo := &mockReservationRepo{
		listDue: func(_ context.Context, _ time.Time) ([]domain.Reservation, error) {
			return []domain.Reservation{{ID: 1, TripDate: day(2030, 5, 1), Status: domain.StatusPending}}, nil
		},
		applySweep: func(_ context.Context, _ domain.Reservation, _ domain.Status) (bool, error) { return false, nil },
	}
	svc := service.NewReservationService(repo, anyUser(), anyTrip(), &recordingAuditor{}, fixedClock(day(2030, 5, 10)))

	got, err := svc.Sweep(context.Background(), discardLogger())

	require.NoError(t, err)
	assert.Equal(t, domain.SweepResult{}, got)
}

func TestReservationService_Sweep_ListError(t *testing.T) {
	repo := &mockReservationRepo{
		listDue: func(_ context.Context, _ time.Time) ([]domain.Reservation, error) {
			return nil, errors.New("db down")
		},
	}
	svc := service.NewReservationService(repo, anyUser(), anyTrip(), &recordingAuditor{}, fixedClock(day(2030, 5, 10)))

	_, err := svc.Sweep(context.Background(), discardLogger())

	assert.Error(t, err)
}

func TestSweeper_RunsImmediatelyAndStops(t *testing.T) {
	calls := make(chan struct{}, 8)
	repo := &mockReservationRepo{
		listDue: func(_ context.Context, _ time.Time) ([]domain.Reservation, error) {
			calls <- struct{}{}
			return nil, nil
		},
	}
	svc := service.NewReservationService(repo, anyUser(), anyTrip(), &recordingAuditor{}, fixedClock(day(2030, 5, 10)))
	sweeper := service.NewSweeper(svc, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not run at start")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
