package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/honeynil/KeecashLedger/internal/api"
	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/fee"
	"github.com/honeynil/KeecashLedger/internal/handler"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/bridgecard"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/coinlayer"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/kafka"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/redis"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/triplea"
	"github.com/honeynil/KeecashLedger/internal/observability"
	core "github.com/honeynil/KeecashLedger/internal/repository/postgres"
	service "github.com/honeynil/KeecashLedger/internal/services"
	"github.com/honeynil/KeecashLedger/internal/webhook"
	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Конфигурация (.env подхватывается внутри)
	cfg := config.Load()

	// Инициализируем логи, метрики, трейсы
	shutdown, err := observability.Setup(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up observability", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())

	// Подключаемся к Postgres
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		slog.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		slog.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Репозитории
	userRepo := core.NewPostgresUserRepository(db)
	transactionRepo := core.NewPostgresTransactionRepository(db)
	feeRepo := core.NewPostgresFeeRepository(db)
	cardRepo := core.NewPostgresCardRepository(db)
	beneficiaryRepo := core.NewPostgresBeneficiaryRepository(db)
	notificationRepo := core.NewPostgresNotificationRepository(db)

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	// Провайдеры
	tripleA := triplea.NewClient(cfg.TripleA, redisClient)
	issuer := bridgecard.NewClient(cfg.Bridgecard)
	rates := coinlayer.NewClient(cfg.Coinlayer, redisClient)

	// Сервисы
	calc := fee.NewCalculator(feeRepo, fee.Config{DefaultReferralPercent: cfg.DefaultReferralPercent})
	ledgerSvc := service.NewLedgerService(transactionRepo)
	walletSvc := service.NewWalletService(userRepo, transactionRepo, beneficiaryRepo, calc, tripleA, rates, redisClient, producer, cfg.LockTTL)
	cardSvc := service.NewCardService(userRepo, cardRepo, transactionRepo, calc, issuer, redisClient, producer, cfg.LockTTL)
	reconciliationSvc := service.NewReconciliationService(userRepo, cardRepo, transactionRepo, calc, tripleA, producer)

	// Kafka-консьюмер уведомлений
	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, notificationRepo)
	go consumer.Consume(ctx)
	defer consumer.Close()

	h := handler.NewHandler(ledgerSvc, walletSvc, cardSvc, reconciliationSvc,
		webhook.NewVerifier(cfg.TripleA.NotifySecret, cfg.TripleA.SignatureTolerance), cfg.Bridgecard.WebhookSecret)
	router := api.SetupRouter(h, redisClient, cfg.JWTSecret)

	// Запускаем сервер
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
