package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-management/config"
	deliveryHttp "hospital-management/internal/delivery/http"
	"hospital-management/internal/delivery/http/handler"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/infrastructure/cache"
	"hospital-management/internal/infrastructure/database"
	"hospital-management/internal/infrastructure/messaging"
	"hospital-management/internal/infrastructure/storage"
	"hospital-management/internal/repository"
	"hospital-management/internal/service"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/jwt"
	"hospital-management/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// ServeOptions selects what one process runs.
type ServeOptions struct {
	Services    []string
	AutoMigrate bool
}

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	services  []string
	publisher *messaging.KafkaPublisher
	consumer  *messaging.KafkaConsumer
	writer    *service.NotificationWriter
}

// NewLogger configures the process logger from APP_ENV and LOG_LEVEL.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// New creates a new App instance with all dependencies initialized
func New(cfg *config.Config, log *logrus.Logger, opts ServeOptions) (*App, error) {
	app := &App{
		Config:   cfg,
		Log:      log,
		services: deliveryHttp.ResolveServices(opts.Services),
	}
	if len(app.services) == 0 {
		return nil, fmt.Errorf("no known service in %v, choose from %v or all", opts.Services, config.ServiceNames)
	}

	if opts.AutoMigrate {
		if err := migrateUp(cfg.DB); err != nil {
			return nil, err
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	var objectStorage storage.ObjectStorage
	if cfg.Storage.Bucket != "" {
		objectStorage, err = storage.NewS3Storage(context.Background(), cfg.Storage)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to init object storage: %w", err)
		}
		log.Infof("Attachment storage: s3 bucket %s", cfg.Storage.Bucket)
	} else {
		log.Warn("S3_BUCKET not set, attachment uploads are disabled")
	}

	router, err := app.initializeRouter(db, redisClient, objectStorage)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

func migrateUp(cfg config.DBConfig) error {
	migrator, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// initializeRouter wires repositories, services, usecases and handlers.
func (app *App) initializeRouter(db *gorm.DB, redisClient *redis.Client, objectStorage storage.ObjectStorage) (http.Handler, error) {
	cfg := app.Config
	log := app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	tokenStore := cache.NewRedisTokenStore(redisClient)
	listCache := cache.NewRedisCache(redisClient, "hms:")

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	departmentRepo := repository.NewDepartmentRepository()
	specialtyRepo := repository.NewSpecialtyRepository()
	roomRepo := repository.NewRoomRepository()
	doctorRepo := repository.NewDoctorRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	patientRepo := repository.NewPatientRepository()
	receptionistRepo := repository.NewReceptionistRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	paymentRepo := repository.NewPaymentRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	reviewRepo := repository.NewReviewRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditRepo := repository.NewAuditLogRepository()
	sequenceRepo := repository.NewSequenceRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditRepo)
	exportService := service.NewExportService()
	app.writer = service.NewNotificationWriter(db, log, notificationRepo)

	var publisher service.NotificationPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		app.publisher = messaging.NewKafkaPublisher(cfg.Kafka)
		publisher = app.publisher
		if lo.Contains(app.services, "notification") {
			app.consumer = messaging.NewKafkaConsumer(cfg.Kafka, log)
		}
		log.Infof("Notification events go to kafka topic %s", cfg.Kafka.NotificationTopic)
	} else {
		publisher = service.NewDirectPublisher(app.writer)
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, patientRepo, doctorRepo, receptionistRepo, sequenceRepo, auditService, jwtService, tokenStore)
	departmentUsecase := usecase.NewDepartmentUsecase(db, log, departmentRepo, specialtyRepo, roomRepo, auditService, listCache)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, doctorRepo, scheduleRepo, departmentRepo, specialtyRepo, appointmentRepo, sequenceRepo, auditService, tokenStore)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, userRepo, appointmentRepo, sequenceRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, doctorRepo, scheduleRepo, roomRepo, sequenceRepo, auditService, publisher)
	receptionistUsecase := usecase.NewReceptionistUsecase(db, log, userRepo, receptionistRepo, departmentRepo, patientRepo, doctorRepo, appointmentRepo, scheduleRepo, paymentRepo, sequenceRepo, auditService, publisher)
	paymentUsecase := usecase.NewPaymentUsecase(db, log, paymentRepo, appointmentRepo, sequenceRepo, auditService, publisher)
	recordUsecase := usecase.NewMedicalRecordUsecase(db, log, recordRepo, patientRepo, doctorRepo, appointmentRepo, sequenceRepo, auditService, objectStorage)
	reviewUsecase := usecase.NewReviewUsecase(db, log, reviewRepo, appointmentRepo, patientRepo, doctorRepo, auditService)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo, userRepo, publisher)
	reportUsecase := usecase.NewReportUsecase(db, log, appointmentRepo, paymentRepo, exportService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Department:     handler.NewDepartmentHandler(departmentUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorUsecase, customValidator),
		DoctorSchedule: handler.NewDoctorScheduleHandler(doctorUsecase, customValidator),
		Review:         handler.NewReviewHandler(reviewUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase, customValidator),
		MedicalRecord:  handler.NewMedicalRecordHandler(recordUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Receptionist:   handler.NewReceptionistHandler(receptionistUsecase, customValidator),
		Notification:   handler.NewNotificationHandler(notificationUsecase, customValidator),
		Payment:        handler.NewPaymentHandler(paymentUsecase, customValidator),
		Report:         handler.NewReportHandler(reportUsecase),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, log)
	return router.Setup(app.services), nil
}

// Run starts the HTTP server and the notification consumer, and blocks until
// SIGINT or SIGTERM.
func (app *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumerDone := make(chan struct{})
	if app.consumer != nil {
		go func() {
			defer close(consumerDone)
			app.Log.Info("Notification consumer started")
			if err := app.consumer.Run(ctx, app.writer.Persist); err != nil {
				app.Log.Errorf("Notification consumer stopped: %+v", err)
			}
		}()
	} else {
		close(consumerDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		app.Log.WithFields(logrus.Fields{
			"port":     app.Config.App.Port,
			"env":      app.Config.App.Env,
			"services": app.services,
		}).Info("Server starting")
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
		app.Log.Info("Shutting down server...")
	case err := <-serverErr:
		runErr = fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := app.Server.Shutdown(shutdownCtx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	cancel()
	<-consumerDone
	app.Close()

	app.Log.Info("Server shutdown complete")
	return runErr
}

// Close closes all connections (database, redis, kafka).
func (app *App) Close() {
	if app.consumer != nil {
		if err := app.consumer.Close(); err != nil {
			app.Log.Warnf("Failed to close kafka consumer: %v", err)
		}
	}
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.Log.Warnf("Failed to close kafka publisher: %v", err)
		}
	}

	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
