package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edupay/internal/application/reconcile"
	apptransition "edupay/internal/application/transition"
	"edupay/internal/common/configs"
	"edupay/internal/common/health"
	"edupay/internal/common/logger"
	"edupay/internal/common/metrics"
	"edupay/internal/infrastructure/backend"
	"edupay/internal/infrastructure/entitystore"
	"edupay/internal/infrastructure/faultlog"
	"edupay/internal/infrastructure/gateway"
	httphandler "edupay/internal/infrastructure/http"
	"edupay/internal/infrastructure/mock"
	"edupay/internal/infrastructure/push"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	l := logger.NewConsoleLogger()
	collector := metrics.NewInMemoryCollector()

	accountID := configs.GetAccountID()
	if accountID == "" {
		l.Error("ACCOUNT_ID is required")
		os.Exit(1)
	}

	// Warm-start persistence and fault log share one connection
	dbURL := configs.GetDatabaseURL()
	db, err := initPostgreSQL(dbURL)
	if err != nil {
		l.Error("Failed to initialize database", logger.Field{Key: "error", Value: err})
		os.Exit(1)
	}
	defer db.Close()

	snapshotStore, err := entitystore.NewPostgresSnapshotStore(dbURL)
	if err != nil {
		l.Error("Failed to initialize snapshot store", logger.Field{Key: "error", Value: err})
		os.Exit(1)
	}
	defer snapshotStore.Close()

	faultLog := faultlog.NewDBFaultLog(db)

	reconciler := reconcile.NewReconciler(snapshotStore, l, collector)
	if err := reconciler.WarmStart(context.Background(), accountID); err != nil {
		l.Warn("Warm start failed, continuing with empty entity map", logger.Field{Key: "error", Value: err})
	}

	backendClient := backend.NewHTTPClient(configs.GetBackendBaseURL())

	// The real checkout widget is vendor-hosted; the mock stands in for
	// local runs.
	widgetLoader := mock.NewMockWidgetLoader(mock.NewMockCheckoutWidget())
	gatewayAdapter := gateway.NewAdapter(widgetLoader, l)

	orchestrator := apptransition.NewOrchestrator(
		backendClient,
		gatewayAdapter,
		reconciler,
		faultLog,
		l,
		collector,
		configs.GetVerifyTimeout(),
	)

	// Scoped push subscription: started here, released on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := push.NewKafkaStream(configs.TopicEntityEvents)
	listener := push.NewListener(stream, reconciler, accountID, push.NewDeadLetterBuffer(), l, collector)
	if err := listener.Start(ctx); err != nil {
		l.Error("Failed to start push listener", logger.Field{Key: "error", Value: err})
		os.Exit(1)
	}

	sessionHandler := httphandler.NewSessionHandler(orchestrator)
	router := setupRouter(sessionHandler)

	server := &http.Server{
		Addr:    ":" + configs.PortSessionService,
		Handler: router,
	}

	l.Info("Starting session service",
		logger.Field{Key: "port", Value: configs.PortSessionService},
		logger.Field{Key: "account_id", Value: accountID})

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("Server failed", logger.Field{Key: "error", Value: err})
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down session service...")

	if err := listener.Stop(); err != nil {
		l.Warn("Failed to stop push listener", logger.Field{Key: "error", Value: err})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("Server forced to shutdown", logger.Field{Key: "error", Value: err})
	}
}

func initPostgreSQL(connString string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func setupRouter(sessionHandler *httphandler.SessionHandler) *gin.Engine {
	router := gin.Default()

	checker := health.NewStaticHealthChecker()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, checker.Check(c.Request.Context()))
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/transitions", sessionHandler.InitiateTransition)
		v1.GET("/entities/:id", sessionHandler.GetEntity)
		v1.GET("/entities/:id/phase", sessionHandler.GetPhase)
		v1.POST("/entities/:id/cancel", sessionHandler.CancelEntity)
	}

	return router
}
