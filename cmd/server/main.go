package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"agrismart/internal/config"
	"agrismart/internal/repository/mongodb"
	"agrismart/internal/repository/sheets"
	"agrismart/internal/scheduler"
	"agrismart/internal/server/handlers"
	"agrismart/internal/server/router"
	authsvc "agrismart/internal/service/auth"
	dashboardsvc "agrismart/internal/service/dashboard"
	recordssvc "agrismart/internal/service/records"
	reportsvc "agrismart/internal/service/report"
	"agrismart/pkg/clients/identity"
	"agrismart/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	var baseLogger *zap.Logger
	if cfg.Server.Debug {
		baseLogger = logger.Must(logger.NewDebug())
	} else {
		baseLogger = logger.Must(logger.New())
	}
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init record store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close record store connection", zap.Error(err))
		}
	}()

	farmerRepo := mongodb.NewFarmerRepository(store)
	cropRepo := mongodb.NewCropRepository(store)
	saleRepo := mongodb.NewSaleRepository(store)
	snapshotRepo := mongodb.NewSnapshotRepository(store)

	recordsService := recordssvc.NewService(farmerRepo, cropRepo, saleRepo, baseLogger.Named("svc.records"))
	dashboardService := dashboardsvc.NewService(recordsService, snapshotRepo, baseLogger.Named("svc.dashboard"))

	// The sheet mirror is optional; snapshots still land in the store
	// without it.
	var exporter sheets.Exporter
	if cfg.Sheets.Enabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("sheets snapshot export enabled")
	} else {
		baseLogger.Warn("sheets credentials missing, snapshot export disabled")
	}

	reportService := reportsvc.NewService(recordsService, snapshotRepo, exporter, baseLogger.Named("svc.report"))

	identityClient := identity.NewClient(cfg.Auth)
	authService := authsvc.NewService(identityClient, cfg.Auth.DemoLoginEnabled, baseLogger.Named("svc.auth"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, baseLogger.Named("handlers.auth")),
		Farmers:   handlers.NewFarmerHandler(recordsService, baseLogger.Named("handlers.farmers")),
		Crops:     handlers.NewCropHandler(recordsService, baseLogger.Named("handlers.crops")),
		Sales:     handlers.NewSaleHandler(recordsService, baseLogger.Named("handlers.sales")),
		Dashboard: handlers.NewDashboardHandler(dashboardService, baseLogger.Named("handlers.dashboard")),
	}, cfg.Server.Debug, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		// No write timeout: the snapshot stream endpoints hold their
		// response open for the life of the subscription.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
