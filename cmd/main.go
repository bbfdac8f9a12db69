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

	bookSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/book_slot"
	cancelBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_booking"
	createLocationHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_location"
	deleteBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_booking"
	getLocationHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_location"
	getLocationBookingsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_location_bookings"
	getPublishedCalendarHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_published_calendar"
	getUserBookingsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_user_bookings"
	locationStatusHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/location_status"
	publishCalendarHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/publish_calendar"
	releaseSlotHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/release_slot"
	transitionBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/transition_booking"
	updateBookingHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_booking"
	updateLocationConfigHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_location_config"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/booking"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	slotledgerRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/slotledger"
	catalogServiceClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/catalogservice"
	notifyServiceClient "github.com/m04kA/SMC-ScheduleService/internal/integrations/notifyservice"
	bookingsService "github.com/m04kA/SMC-ScheduleService/internal/service/bookings"
	locationsService "github.com/m04kA/SMC-ScheduleService/internal/service/locations"
	reservationService "github.com/m04kA/SMC-ScheduleService/internal/service/reservation"
	statusService "github.com/m04kA/SMC-ScheduleService/internal/service/status"
	createBookingUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
	getPublishedCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_published_calendar"
	publishCalendarUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/publish_calendar"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-ScheduleService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		locationRepository *locationRepo.Repository
		ledgerRepository   *slotledgerRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager
	var conflictMetrics reservationService.ConflictMetrics

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		locationRepository = locationRepo.NewRepository(wrappedDB)
		ledgerRepository = slotledgerRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		conflictMetrics = metricsCollector
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		locationRepository = locationRepo.NewRepository(db)
		ledgerRepository = slotledgerRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	coordinator := reservationService.NewService(ledgerRepository, conflictMetrics, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		locationRepository,
		coordinator,
		notifyClient,
		txMgr,
		log,
	)
	locationSvc := locationsService.NewService(locationRepository, txMgr, log)
	statusSvc := statusService.NewService(locationRepository, &statusService.RealTimeProvider{}, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		locationRepository,
		coordinator,
		catalogClient,
		notifyClient,
		txMgr,
		log,
	)
	publishCalendarUseCase := publishCalendarUC.NewUseCase(locationRepository, ledgerRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(locationRepository, log)
	getPublishedCalendarUseCase := getPublishedCalendarUC.NewUseCase(locationRepository, ledgerRepository, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	transitionBooking := transitionBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	bookSlot := bookSlotHandler.NewHandler(coordinator, log)
	releaseSlot := releaseSlotHandler.NewHandler(coordinator, log)
	publishCalendar := publishCalendarHandler.NewHandler(publishCalendarUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getPublishedCalendar := getPublishedCalendarHandler.NewHandler(getPublishedCalendarUseCase, log)
	getLocationBookings := getLocationBookingsHandler.NewHandler(bookingSvc, log)
	createLocation := createLocationHandler.NewHandler(locationSvc, log)
	getLocation := getLocationHandler.NewHandler(locationSvc, log)
	updateLocationConfig := updateLocationConfigHandler.NewHandler(locationSvc, log)
	locationStatus := locationStatusHandler.NewHandler(statusSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Превью доступных слотов по конфигурации расписания
	api.HandleFunc("/locations/{locationId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Текущий статус локации
	api.HandleFunc("/locations/{locationId}/status",
		locationStatus.HandleGet).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Локации ---
	protected.HandleFunc("/locations", createLocation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/locations/{locationId}", getLocation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/config", updateLocationConfig.Handle).Methods(http.MethodPut)

	// Публикация календаря слотов в ledger
	protected.HandleFunc("/locations/{locationId}/available-slots", publishCalendar.Handle).Methods(http.MethodPost)

	// Владельческий просмотр: опубликованный ledger и бронирования на дату
	protected.HandleFunc("/locations/{locationId}/calendar", getPublishedCalendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/locations/{locationId}/bookings", getLocationBookings.Handle).Methods(http.MethodGet)

	// Прямое управление слотами
	protected.HandleFunc("/locations/{locationId}/book-slot", bookSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/locations/{locationId}/release-slot", releaseSlot.Handle).Methods(http.MethodPost)

	// Статус локации в реальном времени
	protected.HandleFunc("/locations/{locationId}/status", locationStatus.HandleUpdate).Methods(http.MethodPatch)
	protected.HandleFunc("/locations/{locationId}/toggle-open", locationStatus.HandleToggleOpen).Methods(http.MethodPatch)
	protected.HandleFunc("/locations/{locationId}/wait-time", locationStatus.HandleWaitTime).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/confirm", transitionBooking.HandleConfirm).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/start", transitionBooking.HandleStart).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/complete", transitionBooking.HandleComplete).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/can-cancel", cancelBooking.HandleEligibility).Methods(http.MethodGet)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
