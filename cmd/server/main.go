package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/frontofhouse/reservations/internal/booking"
	"github.com/frontofhouse/reservations/internal/config"
	"github.com/frontofhouse/reservations/internal/database"
	"github.com/frontofhouse/reservations/internal/handler"
	"github.com/frontofhouse/reservations/internal/middleware"
	"github.com/frontofhouse/reservations/internal/queue"
	"github.com/frontofhouse/reservations/internal/repository"
	"github.com/frontofhouse/reservations/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	ctx := context.Background()
	if err := database.Migrate(ctx, db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate schema")
	}
	if err := database.Seed(ctx, db); err != nil {
		logrus.WithError(err).Fatal("failed to seed tables")
	}

	svc := booking.NewService(
		repository.NewReservationRepo(db),
		repository.NewTableRepo(db),
		cfg.RestaurantHours(),
	)

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; response cache and rate limiting disabled")
	}
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterReservations(e, handler.NewReservationHandler(svc))
	router.RegisterTables(e, handler.NewTableHandler(svc))

	// Seating events are appended to logs/seating.log in the background.
	go func() {
		if err := queue.StartSeatingConsumer(); err != nil {
			logrus.WithError(err).Error("seating consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
