package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	calculateBuildScheduleHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/calculate_build_schedule"
	exportWorkshopHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/export_workshop"
	getBuildScheduleHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_build_schedule"
	getCalendarHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_calendar"
	getMembersHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_members"
	getSyncTaskHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_sync_task"
	getWorkloadHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_workload"
	getWorkshopWorkloadHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/get_workshop_workload"
	resetBuildScheduleHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/reset_build_schedule"
	startSyncTaskHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/start_sync_task"
	updateBuildScheduleHandler "github.com/m04kA/SMC-WorkloadService/internal/api/handlers/update_build_schedule"
	"github.com/m04kA/SMC-WorkloadService/internal/api/middleware"
	"github.com/m04kA/SMC-WorkloadService/internal/config"
	"github.com/m04kA/SMC-WorkloadService/internal/export"
	overrideRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/override"
	productRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/product"
	snapshotRepo "github.com/m04kA/SMC-WorkloadService/internal/infra/storage/snapshot"
	"github.com/m04kA/SMC-WorkloadService/internal/integrations/currentrms"
	buildScheduleService "github.com/m04kA/SMC-WorkloadService/internal/service/buildschedule"
	changesService "github.com/m04kA/SMC-WorkloadService/internal/service/changes"
	opportunitiesService "github.com/m04kA/SMC-WorkloadService/internal/service/opportunities"
	exportWorkshopUC "github.com/m04kA/SMC-WorkloadService/internal/usecase/export_workshop"
	getCalendarUC "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_calendar"
	getWorkloadUC "github.com/m04kA/SMC-WorkloadService/internal/usecase/get_workload"
	syncWorkshopUC "github.com/m04kA/SMC-WorkloadService/internal/usecase/sync_workshop"
	"github.com/m04kA/SMC-WorkloadService/internal/worker"
	"github.com/m04kA/SMC-WorkloadService/pkg/dbmetrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/logger"
	"github.com/m04kA/SMC-WorkloadService/pkg/metrics"
	"github.com/m04kA/SMC-WorkloadService/pkg/migrations"
	"github.com/m04kA/SMC-WorkloadService/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-WorkloadService...")
	log.Info("Configuration loaded from %s", *configPath)

	// Инициализируем метрики (если включены).
	// nil коллектор допустим: все методы записи метрик его проверяют
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if cfg.Database.AutoMigrate {
		if err := migrations.Up(db, log.Named("migrations")); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}
	if version, err := migrations.Version(db); err != nil {
		log.Warn("Failed to read schema version: %v", err)
	} else {
		log.Info("Database schema version: %d", version)
	}

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	// Инициализируем клиента Current RMS
	crmClient := currentrms.NewClient(currentrms.Options{
		BaseURL:        cfg.CurrentRMS.URL,
		Subdomain:      cfg.CurrentRMS.Subdomain,
		AuthToken:      cfg.CurrentRMS.AuthToken,
		Timeout:        time.Duration(cfg.CurrentRMS.Timeout) * time.Second,
		PerPage:        cfg.CurrentRMS.PerPage,
		MaxRetries:     cfg.CurrentRMS.MaxRetries,
		RetryBaseDelay: time.Duration(cfg.CurrentRMS.RetryBaseDelayMs) * time.Millisecond,
	}, log.Named("currentrms"), metricsCollector)
	log.Info("Current RMS client initialized (url=%s, subdomain=%s, timeout=%ds)",
		cfg.CurrentRMS.URL, cfg.CurrentRMS.Subdomain, cfg.CurrentRMS.Timeout)

	// Инициализируем репозитории
	overrideRepository := overrideRepo.NewRepository(wrappedDB)
	snapshotRepository := snapshotRepo.NewRepository(wrappedDB)
	productRepository := productRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	loc := cfg.Workload.Location()

	// Инициализируем сервисы
	opportunitiesSvc := opportunitiesService.NewService(crmClient, log)
	changesSvc := changesService.NewService(snapshotRepository, metricsCollector, log)
	buildScheduleSvc := buildScheduleService.NewService(
		overrideRepository,
		snapshotRepository,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	getWorkloadUseCase := getWorkloadUC.NewUseCase(opportunitiesSvc, metricsCollector, log)
	getCalendarUseCase := getCalendarUC.NewUseCase(opportunitiesSvc, loc, log)
	syncWorkshopUseCase := syncWorkshopUC.NewUseCase(
		crmClient,
		opportunitiesSvc,
		productRepository,
		overrideRepository,
		changesSvc,
		txMgr,
		metricsCollector,
		syncWorkshopUC.Options{
			ProductGroup:       cfg.CurrentRMS.ProductGroup,
			ExcludedProductIDs: cfg.CurrentRMS.ExcludedProductIDs,
			ScenicTag:          cfg.Workload.ScenicTag,
			Concurrency:        cfg.Workload.SyncConcurrency,
			Location:           loc,
		},
		log,
	)
	exportWorkshopUseCase := exportWorkshopUC.NewUseCase(
		snapshotRepository,
		export.Options{OpportunityURL: cfg.CurrentRMS.OpportunityURL},
		loc,
		log,
	)

	// Фоновые задачи живут до остановки сервиса
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	workerLog := log.Named("worker")
	tasks := worker.NewRegistry(workerCtx, syncWorkshopUseCase, time.Duration(cfg.Sync.TaskTTL)*time.Second, workerLog)

	var scheduler *worker.Scheduler
	if cfg.Sync.Enabled {
		scheduler = worker.NewScheduler(syncWorkshopUseCase, worker.SchedulerOptions{
			Interval:   time.Duration(cfg.Sync.Interval) * time.Second,
			Jitter:     time.Duration(cfg.Sync.JitterSec) * time.Second,
			Days:       cfg.Sync.Days,
			RunOnStart: true,
		}, workerLog)
		go scheduler.Run(workerCtx)
	}

	// Инициализируем handlers
	getWorkload := getWorkloadHandler.NewHandler(getWorkloadUseCase, cfg.Workload.WorkloadDays, log)
	getCalendar := getCalendarHandler.NewHandler(getCalendarUseCase, cfg.Workload.CalendarDays, log)
	getWorkshopWorkload := getWorkshopWorkloadHandler.NewHandler(syncWorkshopUseCase, cfg.Workload.WorkshopDays, log)
	exportWorkshop := exportWorkshopHandler.NewHandler(exportWorkshopUseCase, cfg.Workload.WorkshopDays, log)
	startSyncTask := startSyncTaskHandler.NewHandler(tasks, cfg.Workload.WorkshopDays, log)
	getSyncTask := getSyncTaskHandler.NewHandler(tasks, log)
	getBuildSchedule := getBuildScheduleHandler.NewHandler(buildScheduleSvc, log)
	updateBuildSchedule := updateBuildScheduleHandler.NewHandler(buildScheduleSvc, log)
	resetBuildSchedule := resetBuildScheduleHandler.NewHandler(buildScheduleSvc, log)
	calculateBuildSchedule := calculateBuildScheduleHandler.NewHandler(buildScheduleSvc, log)
	getMembers := getMembersHandler.NewHandler(crmClient, log)

	// Настраиваем роутер
	r := mux.NewRouter()

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

	// Светофор загрузки склада и календарь выездов
	api.HandleFunc("/workload", getWorkload.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar", getCalendar.Handle).Methods(http.MethodGet)
	api.HandleFunc("/members", getMembers.Handle).Methods(http.MethodGet)

	// Загрузка цеха
	api.HandleFunc("/workshop-workload", getWorkshopWorkload.Handle).Methods(http.MethodGet)
	api.HandleFunc("/workshop-workload/export.xlsx", exportWorkshop.Handle).Methods(http.MethodGet)
	api.HandleFunc("/workshop-workload/tasks/{taskId}", getSyncTask.Handle).Methods(http.MethodGet)

	// Параметры сборки
	api.HandleFunc("/opportunities/{opportunityId:[0-9]+}/build-schedule",
		getBuildSchedule.Handle).Methods(http.MethodGet)
	api.HandleFunc("/build-schedule/calculate", calculateBuildSchedule.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Запуск фоновой синхронизации
	protected.HandleFunc("/workshop-workload/tasks", startSyncTask.Handle).Methods(http.MethodPost)

	// Изменение параметров сборки
	protected.HandleFunc("/opportunities/{opportunityId:[0-9]+}/build-schedule",
		updateBuildSchedule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/opportunities/{opportunityId:[0-9]+}/build-schedule",
		resetBuildSchedule.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем фоновую синхронизацию и ждем запущенные задачи
	stopWorkers()
	tasks.Close()
	if scheduler != nil {
		<-scheduler.Done()
	}
	log.Info("Background workers stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
