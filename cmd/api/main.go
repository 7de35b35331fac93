package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpadp "loan-registry/internal/adapter/http"
	appmw "loan-registry/internal/adapter/middleware"
	"loan-registry/internal/adapter/repository/gormdb"
	"loan-registry/internal/config"
	"loan-registry/internal/domain/loan"
	"loan-registry/internal/infrastructure/cache"
	"loan-registry/internal/infrastructure/db"
	"loan-registry/internal/logger"
	escrowuc "loan-registry/internal/usecase/escrow"
	loanuc "loan-registry/internal/usecase/loan"
	"loan-registry/internal/usecase/query"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.LogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	if err := gormdb.Migrate(gdb); err != nil {
		return err
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	tx := gormdb.NewGormUoW(gdb)
	policy := loan.Policy{
		RequireDistinctAssets: cfg.RequireDistinctAssets,
		AllowSelfFunding:      cfg.AllowSelfFunding,
	}
	registry := loanuc.NewUsecase(tx, policy, zl.Named("registry"))
	accounts := escrowuc.NewUsecase(tx, gormdb.NewBalanceRepository(gdb), zl.Named("escrow"))
	facade := query.NewFacade(gormdb.NewLoanRepository(gdb), gormdb.NewJournalRepository(gdb))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("account", appmw.AccountFrom(c)),
			}
			if v.Error != nil {
				zl.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zl.Info("request", fields...)
			return nil
		},
	}))

	httpadp.Register(e,
		httpadp.NewHandler(),
		httpadp.NewLoanHandler(registry, facade),
		httpadp.NewAccountHandler(accounts),
		appmw.Identity(cfg.JWTSecret),
		appmw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), zl.Named("idempotency")),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		zl.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		zl.Info("shutting down")
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
