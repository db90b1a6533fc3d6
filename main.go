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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-rajatverma/doorward/audit"
	"github.com/dev-rajatverma/doorward/config"
	"github.com/dev-rajatverma/doorward/controller"
	"github.com/dev-rajatverma/doorward/controlplane"
	"github.com/dev-rajatverma/doorward/dao"
	"github.com/dev-rajatverma/doorward/db"
	"github.com/dev-rajatverma/doorward/directory"
	"github.com/dev-rajatverma/doorward/engine"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/router"
	"github.com/dev-rajatverma/doorward/service"
	"github.com/dev-rajatverma/doorward/util"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize backing stores in parallel; both must be up before the
	// engine takes traffic.
	var g errgroup.Group
	g.Go(db.InitSQL)
	g.Go(db.InitRedis)
	if err := g.Wait(); err != nil {
		logger.Fatal("Failed to initialize backing stores", zap.Error(err))
	}
	defer db.CloseSQL()
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Initialize services and utilities
	validationUtil := util.NewValidationUtil()
	notificationService := util.NewNotificationService()
	auditRepository, err := audit.NewElasticsearchRepository(config.GetString("elasticsearch.url"))
	if err != nil {
		logger.Fatal("Failed to initialize audit repository", zap.Error(err))
	}
	auditService := audit.NewService(auditRepository)

	// Initialize the control plane client and its collaborators
	cpClient := controlplane.NewClient(controlplane.Config{
		BaseURL:    config.GetString("controlplane.baseURL"),
		APIKey:     config.GetString("controlplane.apiKey"),
		APIVersion: config.GetString("controlplane.apiVersion"),
		Timeout:    config.GetDuration("controlplane.timeout"),
	})
	stateReader := controlplane.NewStateReader(cpClient)
	directoryService := directory.NewService(cpClient)

	// Initialize DAOs
	subjectDAO := dao.NewSubjectDAO(db.SQLDB)
	relationDAO := dao.NewRelationDAO(db.SQLDB, auditService)

	// Initialize the reconciliation engine
	orchestrator := engine.NewOrchestrator(
		cpClient,
		subjectDAO,
		relationDAO,
		stateReader,
		directoryService,
		&engine.TCPSender{},
		engine.RedisLeaser{},
		engine.Options{
			VerifyAttempts:    config.GetInt("engine.verifyAttempts"),
			VerifyDelay:       config.GetDuration("engine.verifyDelay"),
			CaptureAttempts:   config.GetInt("engine.captureAttempts"),
			CaptureDelay:      config.GetDuration("engine.captureDelay"),
			OperationDeadline: config.GetDuration("engine.operationDeadline"),
			SubjectLeaseTTL:   config.GetDuration("engine.subjectLeaseTTL"),
		},
	)

	// Initialize services
	services, err := service.InitializeServices(orchestrator, auditService, validationUtil, notificationService, eventBus)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize controllers
	controllers := controller.InitializeControllers(services)

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engineRouter := router.SetupRouter(controllers, 100, time.Minute) // 100 requests per minute

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engineRouter,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
