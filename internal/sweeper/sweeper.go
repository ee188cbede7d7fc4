// Package sweeper enforces a lease on pending bookings: a reserva left in
// pendiente past a fixed grace period (payment never confirmed) is
// automatically cancelled so its slot frees up.  The sweeper is an
// injectable service with an explicit Start/Stop lifecycle rather than a
// process-wide timer: it runs once eagerly on Start, then on a ticker,
// and can also be invoked on demand through Sweep (the HTTP trigger).
// Overlapping sweeps are harmless because the cancel statement only
// touches rows still in pendiente.
package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/court-reservation/internal/model"
)

// Store is the slice of the booking repository the sweeper needs.
// *repository.BookingRepo satisfies it; tests supply an in-memory fake.
type Store interface {
	FindExpiredPending(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	CancelBatch(ctx context.Context, ids []uint64) (int64, error)
	PendingCreatedAt(ctx context.Context, id uint64) (time.Time, error)
}

// Notifier receives the IDs of bookings a sweep cancelled so dependent
// views can refresh.  Publishing failures are the notifier's problem; the
// sweeper never blocks on it.
type Notifier interface {
	BookingsCancelled(ctx context.Context, bookings []model.Booking)
}

// Result is the outcome of one sweep, also the JSON body of the HTTP
// trigger response.  Infrastructure failures surface as Success=false
// rather than an error so a scheduled caller's timer is never broken by
// a transient outage.
type Result struct {
	Success   bool     `json:"success"`
	Cancelled int      `json:"cancelled"`
	IDs       []uint64 `json:"ids,omitempty"`
	Message   string   `json:"message,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Remaining describes how much of a pending booking's grace period is
// left.  It is only meaningful while the booking stays pendiente.
type Remaining struct {
	Minutes    int     `json:"minutos_restantes"`
	Seconds    int     `json:"segundos_restantes"`
	Expired    bool    `json:"vencida"`
	PctElapsed float64 `json:"porcentaje_transcurrido"`
}

// Sweeper periodically cancels pending bookings older than Grace.
type Sweeper struct {
	store    Store
	notifier Notifier
	grace    time.Duration
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// Option customizes a Sweeper.
type Option func(*Sweeper)

// WithNotifier wires a change-feed notifier for cancelled bookings.
func WithNotifier(n Notifier) Option {
	return func(s *Sweeper) { s.notifier = n }
}

// WithClock overrides the time source; tests use it to move the clock.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// New builds a Sweeper.  grace is how long a booking may stay pendiente
// (the business rule is five minutes); interval is the ticker period for
// the background loop.
func New(store Store, grace, interval time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		grace:    grace,
		interval: interval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background loop: one eager sweep, then one per
// interval until Stop is called or ctx is cancelled.  Calling Start
// twice is a no-op while the loop is running.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})
	go s.run(loopCtx)
}

// Stop halts the background loop and waits for it to exit.  An in-flight
// sweep finishes first.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, stopped := s.cancel, s.stopped
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-stopped
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.stopped)
	log.Printf("sweeper: started (grace=%s interval=%s)", s.grace, s.interval)

	// Eager first pass so stale rows left over from a previous process
	// do not wait a full interval.
	s.logResult(s.Sweep(ctx))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("sweeper: stopped")
			return
		case <-ticker.C:
			s.logResult(s.Sweep(ctx))
		}
	}
}

func (s *Sweeper) logResult(res Result) {
	switch {
	case !res.Success:
		log.Printf("sweeper: sweep failed: %s", res.Error)
	case res.Cancelled > 0:
		log.Printf("sweeper: cancelled %d expired pending booking(s): %v", res.Cancelled, res.IDs)
	}
}

// Sweep runs one check-and-cancel pass.  It selects pendiente bookings
// created before now-grace, cancels them in a single batch and notifies
// the change feed.  With nothing to do it reports success with zero
// cancellations.
func (s *Sweeper) Sweep(ctx context.Context) Result {
	cutoff := s.now().Add(-s.grace)
	expired, err := s.store.FindExpiredPending(ctx, cutoff)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if len(expired) == 0 {
		return Result{Success: true, Cancelled: 0, Message: "no hay reservas pendientes vencidas"}
	}

	ids := make([]uint64, 0, len(expired))
	for _, b := range expired {
		ids = append(ids, b.ID)
	}
	n, err := s.store.CancelBatch(ctx, ids)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if s.notifier != nil && n > 0 {
		s.notifier.BookingsCancelled(ctx, expired)
	}
	return Result{
		Success:   true,
		Cancelled: int(n),
		IDs:       ids,
		Message:   "se cancelaron reservas pendientes que excedieron el tiempo límite",
	}
}

// TimeRemaining reports how much grace time a pending booking has left.
// It returns (nil, nil) when the booking is missing or no longer
// pendiente, mirroring the repository's not-found result: the countdown
// simply has nothing to show.
func (s *Sweeper) TimeRemaining(ctx context.Context, bookingID uint64) (*Remaining, error) {
	created, err := s.store.PendingCreatedAt(ctx, bookingID)
	if err != nil {
		return nil, nil
	}
	elapsed := s.now().Sub(created)
	remaining := s.grace - elapsed
	if remaining < 0 {
		remaining = 0
	}
	pct := float64(elapsed) / float64(s.grace) * 100
	if pct > 100 {
		pct = 100
	}
	return &Remaining{
		Minutes:    int(remaining / time.Minute),
		Seconds:    int(remaining / time.Second),
		Expired:    remaining == 0,
		PctElapsed: pct,
	}, nil
}
