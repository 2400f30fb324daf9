package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/poojapath/puja-booking/internal/config"
	"github.com/poojapath/puja-booking/internal/database"
	"github.com/poojapath/puja-booking/internal/handler"
	"github.com/poojapath/puja-booking/internal/logger"
	"github.com/poojapath/puja-booking/internal/middleware"
	"github.com/poojapath/puja-booking/internal/queue"
	"github.com/poojapath/puja-booking/internal/repository"
	"github.com/poojapath/puja-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	customers := repository.NewCustomerRepo(db)
	types := repository.NewPujaTypeRepo(db)
	bookings := repository.NewBookingRepo(db)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		CustomerAuth: handler.NewCustomerAuthHandler(cfg, customers),
		Customers:    handler.NewCustomerHandler(customers),
		Types:        handler.NewPujaTypeHandler(types),
		Bookings:     handler.NewBookingHandler(bookings, types, customers),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(rateCfg, rdb))

	router.Register(e, h, cfg, cacheCfg, rdb)

	// Lifecycle events land in logs/booking.log; the consumer reconnects
	// on its own and never brings the server down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			logger.Log.Error("booking consumer stopped", "error", err)
		}
	}()

	addr := ":" + cfg.Port
	logger.Log.Info("server starting", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
