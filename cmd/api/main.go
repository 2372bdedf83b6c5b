package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harborcare/opdflow/internal/adapters/database"
	"github.com/harborcare/opdflow/internal/adapters/events"
	"github.com/harborcare/opdflow/internal/api/handlers"
	"github.com/harborcare/opdflow/internal/api/routes"
	"github.com/harborcare/opdflow/internal/application/services"
	"github.com/harborcare/opdflow/internal/domain/providers"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/redis"
	"github.com/harborcare/opdflow/internal/infrastructure/observability"
	"github.com/harborcare/opdflow/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - queue operations work without live updates
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize event bus for real-time queue updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters

	queueAdapter := database.NewQueueAdapter(pgClient)
	patientAdapter := database.NewPatientAdapter(pgClient)
	doctorAdapter := database.NewDoctorAdapter(pgClient)
	departmentAdapter := database.NewDepartmentAdapter(pgClient)

	unitOfWork := database.NewUnitOfWork(pgClient)

	// Initialize services

	clock := providers.SystemClock{}

	scorer := services.NewPriorityScorer()
	tokenIssuer := services.NewTokenIssuer(departmentAdapter, queueAdapter, clock)
	estimator := services.NewWaitTimeEstimator(queueAdapter, doctorAdapter, clock, cfg.Queue.DefaultAverageConsultationMinutes)

	queueService := services.NewQueueService(
		unitOfWork,
		queueAdapter,
		patientAdapter,
		doctorAdapter,
		departmentAdapter,
		scorer,
		tokenIssuer,
		estimator,
		eventBus,
		clock,
		metrics,
		cfg.Queue.DefaultAverageConsultationMinutes,
	)

	// Initialize handlers

	patientHandler := handlers.NewPatientHandler(queueService)
	doctorHandler := handlers.NewDoctorHandler(queueService)

	var sseHandler *handlers.SSEHandler
	if eventBus != nil {
		sseHandler = handlers.NewSSEHandler(eventBus)
	}

	// Set up router

	router := routes.NewRouter(
		patientHandler,
		doctorHandler,
		sseHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server. WriteTimeout stays unset because the doctor queue
	// stream holds its connection open indefinitely.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
