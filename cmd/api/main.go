package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-movie-ticket-booking/internal/api"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/api/handler"
	apimiddleware "github.com/sanosuguru/go-movie-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/application"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/config"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/catalog"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/hold"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/seat"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/ticket"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/infrastructure/memory"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sanosuguru/go-movie-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-movie-ticket-booking/internal/worker"
)

func main() {
	cfg := config.Load()

	logger.Set(logger.NewLogger(os.Getenv("APP_ENV")))
	defer logger.Sync()

	m := metrics.Init()

	// ストア構築（postgres / memory）
	var (
		txManager   transaction.Manager
		registry    seat.Registry
		holdRepo    hold.Repository
		ticketRepo  ticket.Repository
		catalogRepo catalog.Repository
	)
	switch cfg.Booking.Store {
	case "memory":
		logger.Info("インメモリストアで起動（開発用）")
		cat := memory.NewCatalog()
		seedDemoCatalog(cat)
		txManager = memory.NewTxManager()
		registry = memory.NewSeatRegistry()
		holdRepo = memory.NewHoldRepository()
		ticketRepo = memory.NewTicketRepository()
		catalogRepo = cat
	default:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			logger.Fatal("データベース接続失敗", zap.Error(err))
		}
		defer db.Close()

		if err := postgres.RunMigrations(db.DB, "migrations"); err != nil {
			logger.Fatal("マイグレーション失敗", zap.Error(err))
		}

		txManager = postgres.NewTxManager(db)
		registry = postgres.NewSeatStateRepository(db)
		holdRepo = postgres.NewHoldRepository(db)
		ticketRepo = postgres.NewTicketRepository(db)
		catalogRepo = postgres.NewCatalogRepository(db)
	}

	// Redis（任意。接続できなければ分散ロックとキャッシュなしで動く）
	var (
		lockManager *redisinfra.LockManager
		cache       *redisinfra.AvailabilityCache
	)
	redisClient, err := redisinfra.NewClient(&redisinfra.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("Redis接続失敗。分散ロックとキャッシュなしで続行", zap.Error(err))
	} else {
		defer redisClient.Close()
		lockManager = redisinfra.NewLockManager(redisClient, m)
		cache = redisinfra.NewAvailabilityCache(redisClient)
	}

	// RabbitMQ（任意。URL未設定ならイベント発行なし）
	var publisher application.TicketEventPublisher
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewTicketPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			logger.Warn("RabbitMQ接続失敗。イベント発行なしで続行", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
		}
	}

	// サービス構築
	bookingService := application.NewBookingService(
		txManager, registry, holdRepo, ticketRepo, catalogRepo,
		lockManager, cache, publisher, m, cfg.Booking.HoldDuration,
	)
	ticketService := application.NewTicketService(ticketRepo)

	// 期限切れホールドスイーパー起動
	sweeper := worker.NewHoldSweeper(bookingService, cfg.Booking.SweepInterval)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	go sweeper.Start(sweeperCtx)

	// Echo セットアップ
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	apimiddleware.SetupMiddleware(e)
	e.Use(apimiddleware.PrometheusMiddleware(m))

	reservationHandler := handler.NewReservationHandler(bookingService)
	seatHandler := handler.NewSeatHandler(bookingService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	healthHandler := handler.NewHealthHandler()

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.Check)
	v1.GET("/shows/:show_id/seats", seatHandler.GetSeatMap)
	v1.GET("/shows/:show_id/availability", seatHandler.GetAvailability)
	v1.POST("/shows/:show_id/reservations", reservationHandler.Reserve)
	v1.POST("/reservations/:hold_id/confirm", reservationHandler.Confirm)
	v1.DELETE("/reservations/:hold_id", reservationHandler.Cancel)
	v1.GET("/tickets", ticketHandler.GetUserTickets)
	v1.GET("/tickets/:id", ticketHandler.GetByID)
	v1.GET("/shows/:show_id/tickets", ticketHandler.GetShowTickets)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), apimiddleware.MetricsBasicAuth())

	// サーバー起動
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("シャットダウン開始")

	sweeperCancel()
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("サーバーシャットダウンエラー", zap.Error(err))
	}

	logger.Info("シャットダウン完了")
}

// seedDemoCatalog はインメモリ起動時のデモ用カタログを登録する
func seedDemoCatalog(cat *memory.Catalog) {
	cat.AddShow(&catalog.Show{
		ID:         "show-demo",
		HallID:     "hall-1",
		MovieID:    "movie-demo",
		StartAt:    time.Now().Add(24 * time.Hour),
		PriceCents: 1500,
	})
	for _, row := range []string{"A", "B", "C"} {
		for _, col := range []string{"1", "2", "3", "4", "5"} {
			cat.AddHallSeat(&catalog.HallSeat{
				ID:     row + col,
				HallID: "hall-1",
				Row:    row,
				Col:    col,
			})
		}
	}
}
