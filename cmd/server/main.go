package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aicuratorhub/curatorhub-admin/internal/api"
	"github.com/aicuratorhub/curatorhub-admin/internal/app"
	"github.com/aicuratorhub/curatorhub-admin/internal/config"
	"github.com/aicuratorhub/curatorhub-admin/internal/middleware"
)

func main() {
	// --- 1. Environment ---
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Println("Warning: error loading .env file:", err)
		}
	}

	// --- 2. Configuration and logger ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: failed to load configuration: %v", err)
	}
	zapLogger, err := config.NewLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Configuration loaded",
		zap.String("env", appConfig.Env),
		zap.String("store", appConfig.StoreBackend),
	)

	// --- 3. Store, topology and services ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(initCtx, appConfig, zapLogger)
	cancelInit()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: failed to initialize services", zap.Error(err))
	}
	application.Services.Registry.Start()
	zapLogger.Info("Services initialized", zap.Int("caches", len(application.Services.Registry.Names())))

	// --- 4. Gin engine and middleware ---
	if strings.EqualFold(appConfig.GinMode, gin.ReleaseMode) {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig.ClientURL))
		zapLogger.Info("CORS enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS skipped: CLIENT_URL is not configured")
	}

	// --- 5. Routes ---
	var conn api.StoreConnection
	if provider := application.Provider(); provider != nil {
		conn = provider
	}
	api.SetupRoutes(router, application.Services, conn, zapLogger)

	// --- 6. HTTP server ---
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", appConfig.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 7. Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := application.Close(); err != nil {
		zapLogger.Error("Failed to release resources", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
