package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/config"
	"github.com/kutoka/fairoils-bi/internal/repository/mongodb"
	"github.com/kutoka/fairoils-bi/internal/repository/sheets"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
	"github.com/kutoka/fairoils-bi/internal/scheduler"
	"github.com/kutoka/fairoils-bi/internal/server/handlers"
	"github.com/kutoka/fairoils-bi/internal/server/router"
	dashboardsvc "github.com/kutoka/fairoils-bi/internal/service/dashboard"
	exportsvc "github.com/kutoka/fairoils-bi/internal/service/export"
	"github.com/kutoka/fairoils-bi/internal/service/insights"
	recordssvc "github.com/kutoka/fairoils-bi/internal/service/records"
	reportingsvc "github.com/kutoka/fairoils-bi/internal/service/reporting"
	whatsappsvc "github.com/kutoka/fairoils-bi/internal/service/whatsapp"
	whatsappclient "github.com/kutoka/fairoils-bi/pkg/clients/whatsapp"
	"github.com/kutoka/fairoils-bi/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Digest.Location()
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	store, err := newStore(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init warehouse", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	// Sinks stay nil interfaces when disabled so the services skip them.
	var sinks reportingsvc.Sinks
	var snapshots handlers.SnapshotLister
	var scorecards handlers.ScorecardLister
	var messaging whatsappsvc.MessagingService

	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewSnapshotRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		sinks.Snapshots = mongoRepo
		snapshots = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, snapshot history disabled")
	}

	if cfg.Sheets.SpreadsheetID != "" {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		scorecardSheet := sheets.NewScorecardSheet(sheetsRepo, logger.Named(baseLogger, "repo.scorecards"))
		headerCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if _, err := scorecardSheet.EnsureHeader(headerCtx); err != nil {
			baseLogger.Warn("failed to check scorecard header", zap.Error(err))
		}
		cancel()
		sinks.Scorecards = scorecardSheet
		scorecards = scorecardSheet
	} else {
		baseLogger.Warn("spreadsheet id missing, scorecard export disabled")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messaging = whatsappsvc.NewMetaWhatsAppService(whatsClient, logger.Named(baseLogger, "svc.whatsapp"))
		sinks.Messenger = messaging
		sinks.Recipient = cfg.WhatsApp.Recipient
	} else {
		baseLogger.Warn("whatsapp access token missing, digest messages disabled")
	}

	recordsSvc := recordssvc.NewService(store, logger.Named(baseLogger, "svc.records"))
	dashboardSvc := dashboardsvc.NewService(store, loc, logger.Named(baseLogger, "svc.dashboard"))
	insightsProvider := insights.NewLocalProvider(logger.Named(baseLogger, "svc.insights"))
	exportSvc := exportsvc.NewService(store, logger.Named(baseLogger, "svc.export"))
	reportingSvc := reportingsvc.NewService(dashboardSvc, insightsProvider, sinks, logger.Named(baseLogger, "svc.reporting"))

	engine := router.New(router.Handlers{
		Records:   handlers.NewRecordsHandler(recordsSvc, logger.Named(baseLogger, "handlers.records")),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, insightsProvider, logger.Named(baseLogger, "handlers.dashboard")),
		Export:    handlers.NewExportHandler(exportSvc, logger.Named(baseLogger, "handlers.export")),
		Digest:    handlers.NewDigestHandler(reportingSvc, snapshots, scorecards, messaging, logger.Named(baseLogger, "handlers.digest")),
	}, router.NewRegistry(), logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Digest, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (warehouse.Repository, error) {
	if cfg.Store.Driver == config.DriverBigQuery {
		return warehouse.NewBigQueryRepository(ctx, cfg.BigQuery, logger.Named(baseLogger, "repo.bigquery"))
	}
	if cfg.Store.SeedData {
		baseLogger.Info("using in-memory warehouse with demo data")
		return warehouse.NewSeededMemoryRepository(), nil
	}
	return warehouse.NewMemoryRepository(), nil
}
