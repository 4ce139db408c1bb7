package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appledger "github.com/rentworks/backend/internal/application/ledger"
	apprental "github.com/rentworks/backend/internal/application/rental"
	appreport "github.com/rentworks/backend/internal/application/report"
	"github.com/rentworks/backend/internal/infrastructure/cache"
	"github.com/rentworks/backend/internal/infrastructure/config"
	"github.com/rentworks/backend/internal/infrastructure/logger"
	"github.com/rentworks/backend/internal/infrastructure/persistence"
	"github.com/rentworks/backend/internal/infrastructure/stats"
	"github.com/rentworks/backend/internal/interfaces/http/handler"
	"github.com/rentworks/backend/internal/interfaces/http/middleware"
	"github.com/rentworks/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	snapshotCache, err := cache.NewSnapshotCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize snapshot cache", zap.Error(err))
	}

	// Repositories
	agreementRepo := persistence.NewGormAgreementRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	mappingRepo := persistence.NewGormAccountMappingRepository(db.DB)
	salesRepo := persistence.NewGormSalesRepository(db.DB)

	// Application services
	mappingService := appledger.NewMappingService(accountRepo, mappingRepo)
	agreementService := apprental.NewAgreementService(agreementRepo, itemRepo, mappingService, snapshotCache, log)
	itemService := apprental.NewItemService(itemRepo)

	var statsProvider appreport.StatsProvider
	if client := stats.NewClient(&cfg.Stats, log); client != nil {
		statsProvider = client
	}
	financeService := appreport.NewCustomerFinanceService(statsProvider, salesRepo, agreementRepo, snapshotCache, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(db, cfg.App.Name)).
		Register(handler.NewLedgerHandler(mappingService)).
		Register(handler.NewRentalHandler(agreementService, itemService)).
		Register(handler.NewReportHandler(financeService)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		go runOverdueSweep(ctx, agreementService, cfg.Sweep.Interval, log)
	}

	go func() {
		log.Info("Server starting",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", cfg.App.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// runOverdueSweep periodically marks active agreements with slipped
// schedules overdue.
func runOverdueSweep(ctx context.Context, agreements *apprental.AgreementService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			marked, err := agreements.RefreshOverdueStatuses(ctx, time.Now())
			if err != nil {
				log.Warn("overdue sweep failed", zap.Error(err))
				continue
			}
			if marked > 0 {
				log.Info("overdue sweep completed", zap.Int("marked", marked))
			}
		}
	}
}
