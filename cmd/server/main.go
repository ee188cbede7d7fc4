package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/court-reservation/internal/config"
	"github.com/iliyamo/court-reservation/internal/database"
	"github.com/iliyamo/court-reservation/internal/handler"
	mw "github.com/iliyamo/court-reservation/internal/middleware"
	"github.com/iliyamo/court-reservation/internal/model"
	"github.com/iliyamo/court-reservation/internal/queue"
	"github.com/iliyamo/court-reservation/internal/repository"
	"github.com/iliyamo/court-reservation/internal/router"
	publisher "github.com/iliyamo/court-reservation/internal/service"
	"github.com/iliyamo/court-reservation/internal/sweeper"
)

// feedNotifier forwards sweeper cancellations to the booking change feed.
type feedNotifier struct{}

func (feedNotifier) BookingsCancelled(ctx context.Context, bookings []model.Booking) {
	for _, b := range bookings {
		ev := queue.BookingChangedEvent{
			Action:     queue.ActionUpdate,
			BookingID:  b.ID,
			Fecha:      b.Fecha,
			HoraInicio: b.HoraInicio,
			HoraFin:    b.HoraFin,
			Estado:     model.BookingCancelled,
			CustomerID: b.CustomerID,
			CourtID:    b.CourtID,
			Costo:      b.Costo,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		}
		_ = publisher.PublishBookingChanged(ctx, ev)
	}
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional; rate limiting and caching degrade to no-ops
	// when it is unreachable.
	rdb := config.NewRedisClient()

	courts := repository.NewCourtRepo(db)
	customers := repository.NewCustomerRepo(db)
	bookings := repository.NewBookingRepo(db)
	stats := repository.NewStatsRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	sw := sweeper.New(bookings, cfg.PendingGrace, cfg.SweepInterval,
		sweeper.WithNotifier(feedNotifier{}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sw.Start(ctx)
	defer sw.Stop()

	// Change-feed consumer tails booking.changed into logs/bookings.log.
	go func() {
		if err := queue.StartBookingFeedConsumer(); err != nil {
			log.Printf("booking-feed: consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterDashboard(e, router.Dashboard{
		Courts:    handler.NewCourtHandler(courts),
		Customers: handler.NewCustomerHandler(customers),
		Bookings:  handler.NewBookingHandler(bookings, courts, customers, publisher.PublishBookingChanged),
		Sweep:     handler.NewSweepHandler(sw),
		Stats:     handler.NewStatsHandler(stats),
		RateLimit: mw.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     mw.NewRedisCache(config.LoadCacheConfig(), rdb),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
