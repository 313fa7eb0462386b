package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/cancel_booking"
	checkConflictHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/check_conflict"
	createBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/get_booking"
	recommendationsHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/recommendations"
	searchAvailabilityHandler "github.com/m04kA/SMC-RoomBookingService/internal/api/handlers/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/lock"
	bookingRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/booking"
	roomRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/room"
	statsRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/stats"
	userServiceClient "github.com/m04kA/SMC-RoomBookingService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/SMC-RoomBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/conflict"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/ranking"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/timewindow"
	checkConflictUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/check_conflict"
	createBookingUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_booking"
	rankCandidatesUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/rank_candidates"
	searchAvailabilityUC "github.com/m04kA/SMC-RoomBookingService/internal/usecase/search_availability"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RoomBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbObserver       dbmetrics.Observer
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbObserver = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка только переносит транзакцию через контекст
	wrappedDB := dbmetrics.WrapWithDefault(db, dbObserver, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировки комнат в Redis (если включены)
	var roomLocker createBookingUC.RoomLocker = lock.NopLocker{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, bookings rely on database locks: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		cancel()

		roomLocker = lock.NewRoomLocker(redisClient, cfg.Redis.LockTTLDuration())
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	roomRepository := roomRepo.NewRepository(wrappedDB)
	statsRepository := statsRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	normalizer, err := timewindow.NewNormalizerFromName(cfg.Booking.Timezone)
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}
	evaluator := conflict.NewEvaluator(normalizer)
	funnel := ranking.NewFunnel(
		ranking.WithPreScoreCap(cfg.Scoring.PreScoreCap),
		ranking.WithAgents(cfg.Scoring.Agents()...),
	)
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	log.Info("Booking core initialized (timezone=%s)", cfg.Booking.Timezone)

	// Инициализируем use cases
	searchAvailabilityUseCase := searchAvailabilityUC.NewUseCase(
		roomRepository,
		bookingRepository,
		userClient,
		normalizer,
		evaluator,
		metricsCollector,
		searchAvailabilityUC.Options{
			DefaultPageSize: cfg.Booking.DefaultPageSize,
			MaxPageSize:     cfg.Booking.MaxPageSize,
			BatchSize:       cfg.Booking.BatchSize,
			Workers:         cfg.Booking.SearchWorkers,
		},
		log,
	)

	rankCandidatesUseCase := rankCandidatesUC.NewUseCase(
		userClient,
		statsRepository,
		funnel,
		rankCandidatesUC.Options{
			RecencyWindow: cfg.Booking.RecencyWindow(),
			PreScoreCap:   cfg.Scoring.PreScoreCap,
		},
		log,
	)

	checkConflictUseCase := checkConflictUC.NewUseCase(
		roomRepository,
		bookingRepository,
		normalizer,
		evaluator,
		metricsCollector,
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		roomRepository,
		userClient,
		normalizer,
		evaluator,
		roomLocker,
		txMgr,
		metricsCollector,
		createBookingUC.Options{
			AdvanceBookingDays: cfg.Booking.AdvanceBookingDays,
			OccurrencePreview:  cfg.Booking.OccurrencePreview,
		},
		log,
	)

	// Инициализируем handlers
	searchAvailability := searchAvailabilityHandler.NewHandler(searchAvailabilityUseCase, log)
	recommendations := recommendationsHandler.NewHandler(searchAvailabilityUseCase, rankCandidatesUseCase, log)
	checkConflict := checkConflictHandler.NewHandler(checkConflictUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		// Metrics endpoint (публичный, без аутентификации)
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Проверка пересечений без записи
	api.HandleFunc("/rooms/{roomId}/conflicts", checkConflict.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		protected.Use(limiter.Middleware)
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// --- Поиск ---
	// Свободные комнаты на все запрошенные окна
	protected.HandleFunc("/rooms/availability", searchAvailability.Handle).Methods(http.MethodPost)

	// Свободные комнаты, упорядоченные для заявителя
	protected.HandleFunc("/rooms/recommendations", recommendations.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// Создание бронирования (одно или несколько окон атомарно)
	protected.HandleFunc("/rooms/{roomId}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
