package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/auth"
	"github.com/mamadbah2/revente/internal/config"
	"github.com/mamadbah2/revente/internal/domain/gains"
	"github.com/mamadbah2/revente/internal/domain/sale"
	"github.com/mamadbah2/revente/internal/repository/drive"
	"github.com/mamadbah2/revente/internal/repository/mongodb"
	"github.com/mamadbah2/revente/internal/scheduler"
	"github.com/mamadbah2/revente/internal/server/handlers"
	"github.com/mamadbah2/revente/internal/server/router"
	reportingsvc "github.com/mamadbah2/revente/internal/service/reporting"
	salessvc "github.com/mamadbah2/revente/internal/service/sales"
	stocksvc "github.com/mamadbah2/revente/internal/service/stock"
	whatsappclient "github.com/mamadbah2/revente/pkg/clients/whatsapp"
	"github.com/mamadbah2/revente/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	driveRepo, err := drive.NewGoogleDriveRepository(context.Background(), cfg.Drive, logger.Named(baseLogger, "repo.drive"))
	if err != nil {
		baseLogger.Fatal("failed to init drive repository", zap.Error(err))
	}

	var archive mongodb.Repository
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, statistics archive disabled")
	}

	calc := gains.NewCalculator(cfg.Sales.TaxRate)
	workflow := sale.NewWorkflow(calc, sale.Policy{AcceptUnknownAccounts: cfg.Sales.AcceptUnknownAccounts})

	stockSvc := stocksvc.NewService(driveRepo, calc, cfg.Location(), logger.Named(baseLogger, "svc.stock"))
	salesSvc := salessvc.NewService(driveRepo, workflow, logger.Named(baseLogger, "svc.sales"))
	reportingSvc := reportingsvc.NewService(driveRepo, archive, logger.Named(baseLogger, "svc.reporting"))

	engine := router.New(router.Handlers{
		Articles: handlers.NewArticleHandler(stockSvc, salesSvc, logger.Named(baseLogger, "handlers.articles")),
		Accounts: handlers.NewAccountHandler(salesSvc, logger.Named(baseLogger, "handlers.accounts")),
		Stats:    handlers.NewStatsHandler(reportingSvc, logger.Named(baseLogger, "handlers.stats")),
	}, auth.NewAllowList(cfg.Auth.AllowedEmails), logger.Named(baseLogger, "router"))

	var sender whatsappclient.Sender
	if cfg.WhatsApp.Enabled() {
		sender = whatsappclient.NewClient(cfg.WhatsApp)
	} else {
		baseLogger.Warn("whatsapp token missing, weekly digest will only be archived")
	}

	sched := scheduler.NewScheduler(*cfg, reportingSvc, sender, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
