package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/repository"
)

// fakeStore keeps bookings in memory and applies the same rules as the
// real repository: only pendiente rows match the expiry query and only
// pendiente rows are cancelled.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[uint64]*model.Booking
	findErr  error
}

func (s *fakeStore) estado(id uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Estado
}

func newFakeStore(bs ...*model.Booking) *fakeStore {
	s := &fakeStore{bookings: map[uint64]*model.Booking{}}
	for _, b := range bs {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeStore) FindExpiredPending(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	var expired []model.Booking
	for _, b := range s.bookings {
		if b.Estado == model.BookingPending && b.CreatedAt.Before(cutoff) {
			expired = append(expired, *b)
		}
	}
	return expired, nil
}

func (s *fakeStore) CancelBatch(_ context.Context, ids []uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if b, ok := s.bookings[id]; ok && b.Estado == model.BookingPending {
			b.Estado = model.BookingCancelled
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) PendingCreatedAt(_ context.Context, id uint64) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok || b.Estado != model.BookingPending {
		return time.Time{}, repository.ErrBookingNotFound
	}
	return b.CreatedAt, nil
}

type fakeNotifier struct {
	cancelled []model.Booking
}

func (n *fakeNotifier) BookingsCancelled(_ context.Context, bs []model.Booking) {
	n.cancelled = append(n.cancelled, bs...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestSweepCancelsOnlyExpiredPending(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(
		&model.Booking{ID: 1, Estado: model.BookingPending, CreatedAt: now.Add(-6 * time.Minute)},
		&model.Booking{ID: 2, Estado: model.BookingPending, CreatedAt: now.Add(-2 * time.Minute)},
		&model.Booking{ID: 3, Estado: model.BookingConfirmed, CreatedAt: now.Add(-2 * time.Hour)},
		&model.Booking{ID: 4, Estado: model.BookingCancelled, CreatedAt: now.Add(-1 * time.Hour)},
	)
	notifier := &fakeNotifier{}
	s := New(store, 5*time.Minute, time.Minute, WithClock(fixedClock(now)), WithNotifier(notifier))

	res := s.Sweep(context.Background())
	if !res.Success {
		t.Fatalf("sweep failed: %s", res.Error)
	}
	if res.Cancelled != 1 {
		t.Fatalf("cancelled = %d, want 1", res.Cancelled)
	}
	if len(res.IDs) != 1 || res.IDs[0] != 1 {
		t.Fatalf("cancelled ids = %v, want [1]", res.IDs)
	}
	if store.bookings[1].Estado != model.BookingCancelled {
		t.Fatalf("booking 1 estado = %q, want cancelada", store.bookings[1].Estado)
	}
	if store.bookings[2].Estado != model.BookingPending {
		t.Fatalf("booking 2 should stay pending, got %q", store.bookings[2].Estado)
	}
	if store.bookings[3].Estado != model.BookingConfirmed {
		t.Fatalf("confirmed booking must never be swept, got %q", store.bookings[3].Estado)
	}
	if len(notifier.cancelled) != 1 || notifier.cancelled[0].ID != 1 {
		t.Fatalf("notifier should receive booking 1, got %v", notifier.cancelled)
	}
}

func TestSweepExactGraceBoundaryIsNotExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	// created_at must be strictly older than now-grace to match.
	store := newFakeStore(
		&model.Booking{ID: 1, Estado: model.BookingPending, CreatedAt: now.Add(-5 * time.Minute)},
	)
	s := New(store, 5*time.Minute, time.Minute, WithClock(fixedClock(now)))
	res := s.Sweep(context.Background())
	if res.Cancelled != 0 {
		t.Fatalf("booking created exactly at the cutoff must not be cancelled, got %d", res.Cancelled)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(
		&model.Booking{ID: 7, Estado: model.BookingPending, CreatedAt: now.Add(-10 * time.Minute)},
	)
	s := New(store, 5*time.Minute, time.Minute, WithClock(fixedClock(now)))

	first := s.Sweep(context.Background())
	if first.Cancelled != 1 {
		t.Fatalf("first sweep cancelled = %d, want 1", first.Cancelled)
	}
	second := s.Sweep(context.Background())
	if !second.Success || second.Cancelled != 0 {
		t.Fatalf("second sweep should find nothing, got %+v", second)
	}
}

func TestSweepSurvivesStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.findErr = errors.New("connection refused")
	s := New(store, 5*time.Minute, time.Minute)
	res := s.Sweep(context.Background())
	if res.Success {
		t.Fatal("sweep should report failure")
	}
	if res.Error == "" {
		t.Fatal("failure result should carry the error message")
	}
}

func TestTimeRemaining(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := newFakeStore(
		&model.Booking{ID: 1, Estado: model.BookingPending, CreatedAt: created},
		&model.Booking{ID: 2, Estado: model.BookingConfirmed, CreatedAt: created},
	)

	// Two minutes in: three minutes left, not expired.
	s := New(store, 5*time.Minute, time.Minute, WithClock(fixedClock(created.Add(2*time.Minute))))
	rem, err := s.TimeRemaining(context.Background(), 1)
	if err != nil || rem == nil {
		t.Fatalf("expected a countdown, got rem=%v err=%v", rem, err)
	}
	if rem.Minutes != 3 || rem.Expired {
		t.Fatalf("at T+2m want 3 minutes left and not expired, got %+v", rem)
	}
	if rem.Seconds != 180 {
		t.Fatalf("at T+2m want 180 seconds left, got %d", rem.Seconds)
	}
	if rem.PctElapsed != 40 {
		t.Fatalf("at T+2m want 40%% elapsed, got %v", rem.PctElapsed)
	}

	// Six minutes in: expired, percentage capped at 100.
	s = New(store, 5*time.Minute, time.Minute, WithClock(fixedClock(created.Add(6*time.Minute))))
	rem, err = s.TimeRemaining(context.Background(), 1)
	if err != nil || rem == nil {
		t.Fatalf("expected a countdown, got rem=%v err=%v", rem, err)
	}
	if !rem.Expired || rem.Minutes != 0 || rem.Seconds != 0 {
		t.Fatalf("at T+6m want expired with zero remaining, got %+v", rem)
	}
	if rem.PctElapsed != 100 {
		t.Fatalf("pct elapsed should cap at 100, got %v", rem.PctElapsed)
	}

	// Non-pending bookings have no countdown.
	rem, err = s.TimeRemaining(context.Background(), 2)
	if rem != nil || err != nil {
		t.Fatalf("confirmed booking should yield no countdown, got rem=%v err=%v", rem, err)
	}
}

func TestStartRunsEagerSweepAndStops(t *testing.T) {
	now := time.Now().UTC()
	store := newFakeStore(
		&model.Booking{ID: 1, Estado: model.BookingPending, CreatedAt: now.Add(-time.Hour)},
	)
	s := New(store, 5*time.Minute, time.Hour)
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if store.estado(1) == model.BookingCancelled {
			break
		}
		select {
		case <-deadline:
			t.Fatal("eager sweep did not cancel the stale booking")
		case <-time.After(10 * time.Millisecond):
		}
	}
	s.Stop()
	// Stop twice is safe.
	s.Stop()
}
