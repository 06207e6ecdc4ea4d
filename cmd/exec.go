package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"poap-system/config"
	"poap-system/handlers"
	"poap-system/internal/services/ledger/aptos"
	"poap-system/internal/services/ledger/wallet"
	"poap-system/models"
	"poap-system/monitoring"
	"poap-system/security"
	"poap-system/services"
	"poap-system/utils"
)

func Start() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	// Redis backs the rate limiter only; ledger state is never cached.
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// PubNub is optional; without keys, notifications are disabled.
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	ledgerClient, err := aptos.New(&aptos.Config{
		NodeURL:       cfg.NodeURL,
		ModuleAddress: cfg.ModuleAddress,
		ModuleName:    cfg.ModuleName,
	})
	if err != nil {
		return err
	}

	walletBridge, err := wallet.New(&wallet.Config{
		BridgeURL: cfg.WalletBridgeURL,
	})
	if err != nil {
		return err
	}

	// Initialize the session and services
	session := models.NewSession()
	notifyService := services.NewNotifyService(pn)
	claimService := services.NewClaimService(cfg, ledgerClient, walletBridge, session, notifyService)

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(session, claimService)
	eventHandler := handlers.NewEventHandler(session, claimService)
	badgeHandler := handlers.NewBadgeHandler(session)
	claimHandler := handlers.NewClaimHandler(claimService)

	rateLimiter := security.NewRateLimiter(redisClient, cfg.WriteRateLimit, cfg.WriteRateWindow)

	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	// Register routes
	e := echo.New()

	e.POST("/api/wallet/connect", walletHandler.Connect)
	e.POST("/api/wallet/disconnect", walletHandler.Disconnect)

	e.GET("/api/events", eventHandler.ListEvents)
	e.POST("/api/events", eventHandler.CreateEvent, rateLimiter.WriteRateLimit())

	e.GET("/api/badges", badgeHandler.ListBadges)

	e.POST("/api/claims", claimHandler.Claim, rateLimiter.WriteRateLimit())
	e.GET("/api/operations", claimHandler.GetOperations)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		if err := ledgerClient.Health(ctx); err != nil {
			return c.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.JSON(503, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
		return c.JSON(200, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: e,
	}

	go handleShutdown(srv)

	log.Printf("Listening on :%s (node: %s, module: %s::%s)", cfg.Port, cfg.NodeURL, cfg.ModuleAddress, cfg.ModuleName)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleShutdown drains the server on SIGINT/SIGTERM.
func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
