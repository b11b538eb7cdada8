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

	cancelAppointmentHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/cancel_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/get_available_slots"
	listAppointmentsHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/list_appointments"
	listSessionAppointmentsHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/list_session_appointments"
	processMessageHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/process_message"
	retrySyncHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/retry_sync"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AssistantBooking/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-AssistantBooking/internal/api/middleware"
	"github.com/m04kA/SMC-AssistantBooking/internal/config"
	agentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/agent"
	appointmentRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/schedule"
	syncTaskRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/synctask"
	tenantRepo "github.com/m04kA/SMC-AssistantBooking/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/calendar"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/eventbus"
	"github.com/m04kA/SMC-AssistantBooking/internal/integrations/mailer"
	appointmentsService "github.com/m04kA/SMC-AssistantBooking/internal/service/appointments"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/availability"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/distributor"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/marker"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/reservation"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/syncdispatch"
	"github.com/m04kA/SMC-AssistantBooking/internal/service/validator"
	getAvailableSlotsUC "github.com/m04kA/SMC-AssistantBooking/internal/usecase/get_available_slots"
	processMessageUC "github.com/m04kA/SMC-AssistantBooking/internal/usecase/process_message"
	retrySyncUC "github.com/m04kA/SMC-AssistantBooking/internal/usecase/retry_sync"
	"github.com/m04kA/SMC-AssistantBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/logger"
	"github.com/m04kA/SMC-AssistantBooking/pkg/metrics"
	"github.com/m04kA/SMC-AssistantBooking/pkg/txmanager"
)

const (
	defaultEventTries = 3
	retryInterval     = 200 * time.Millisecond
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
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

	log.Info("Starting SMC-AssistantBooking...")
	log.Info("Configuration loaded from %s", configPath)

	loc, err := cfg.Business.Location()
	if err != nil {
		log.Fatal("Failed to load business timezone: %v", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без коллектора обёртка не пишет метрики, но переносит транзакции через контекст
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	tenantRepository := tenantRepo.NewRepository(wrappedDB)
	agentRepository := agentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, loc)
	syncTaskRepository := syncTaskRepo.NewRepository(wrappedDB)

	// Внешние интеграции: неинициализированная интеграция остается nil, её задача пропускается
	var calendarClient syncdispatch.CalendarClient
	if cfg.Calendar.URL != "" {
		calendarClient = calendar.NewClient(cfg.Calendar.URL, time.Duration(cfg.Calendar.Timeout)*time.Second)
		log.Info("Calendar client initialized (url=%s, timeout=%ds)", cfg.Calendar.URL, cfg.Calendar.Timeout)
	}

	var mailClient syncdispatch.Mailer
	if cfg.SMTP.Host != "" {
		mailClient = mailer.New(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		log.Info("SMTP mailer initialized (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	}

	var eventPublisher syncdispatch.EventPublisher
	if cfg.Events.Enabled {
		publisher, err := eventbus.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		defer publisher.Close()
		eventPublisher = publisher
		log.Info("Event publisher initialized (exchange=%s)", cfg.Events.Exchange)
	}

	// Сервисы
	extractor, err := marker.NewExtractor(cfg.Business.MarkerOpen, cfg.Business.MarkerClose)
	if err != nil {
		log.Fatal("Failed to initialize marker extractor: %v", err)
	}
	requestValidator := validator.NewService(loc, validator.RealClock{})
	availabilitySvc := availability.NewService(scheduleRepository, appointmentRepository, &availability.RealTimeProvider{})
	distributorSvc := distributor.NewService(agentRepository, appointmentRepository, availabilitySvc, log)
	reservationSvc := reservation.NewService(appointmentRepository, tenantRepository, txMgr, log)
	syncSvc := syncdispatch.NewService(
		calendarClient,
		mailClient,
		eventPublisher,
		appointmentRepository,
		syncTaskRepository,
		metricsCollector,
		&syncdispatch.RealTimeProvider{},
		syncdispatch.Config{
			Calendar: syncdispatch.RetryPolicy{
				Timeout:         time.Duration(cfg.Calendar.Timeout) * time.Second,
				MaxTries:        uint(cfg.Calendar.MaxRetries) + 1,
				InitialInterval: retryInterval,
			},
			Email: syncdispatch.RetryPolicy{
				Timeout:         time.Duration(cfg.SMTP.Timeout) * time.Second,
				MaxTries:        uint(cfg.SMTP.MaxRetries) + 1,
				InitialInterval: retryInterval,
			},
			Events: syncdispatch.RetryPolicy{
				Timeout:         time.Duration(cfg.Events.Timeout) * time.Second,
				MaxTries:        defaultEventTries,
				InitialInterval: retryInterval,
			},
		},
		log,
	)
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, syncTaskRepository, log)

	// Use cases
	processMessageUseCase := processMessageUC.NewUseCase(
		extractor,
		requestValidator,
		tenantRepository,
		agentRepository,
		distributorSvc,
		availabilitySvc,
		reservationSvc,
		syncSvc,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		tenantRepository,
		agentRepository,
		availabilitySvc,
		&getAvailableSlotsUC.RealTimeProvider{},
		log,
	)
	retrySyncUseCase := retrySyncUC.NewUseCase(
		appointmentRepository,
		tenantRepository,
		agentRepository,
		syncSvc,
		log,
	)

	// Handlers
	processMessage := processMessageHandler.NewHandler(processMessageUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, loc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, loc, log)
	listSessionAppointments := listSessionAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	retrySync := retrySyncHandler.NewHandler(retrySyncUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	if cfg.RateLimit.Enabled {
		limiter, closeLimiter := newLimiter(cfg.RateLimit)
		defer closeLimiter()
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.FailOpen, log))
		log.Info("Rate limiting enabled (limit=%d per %ds, redis=%t)",
			cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.RateLimit.RedisAddr != "")
	}

	// --- Сообщения ассистента ---
	api.HandleFunc("/tenants/{tenantId}/messages", processMessage.Handle).Methods(http.MethodPost)

	// --- Расписание ---
	api.HandleFunc("/tenants/{tenantId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи ---
	api.HandleFunc("/tenants/{tenantId}/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/tenants/{tenantId}/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/tenants/{tenantId}/sessions/{sessionRef}/appointments", listSessionAppointments.Handle).Methods(http.MethodGet)

	// --- Синхронизация ---
	api.HandleFunc("/appointments/{appointmentId}/sync", retrySync.Handle).Methods(http.MethodPost)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

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

// newLimiter выбирает Redis, если задан адрес, иначе ограничитель в памяти
func newLimiter(cfg config.RateLimitConfig) (middleware.Limiter, func()) {
	window := time.Duration(cfg.Window) * time.Second
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryLimiter(cfg.Limit, window), func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return middleware.NewRedisLimiter(rdb, cfg.Limit, window, "assistant-booking"), func() { _ = rdb.Close() }
}
