package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/employee-roster/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-roster/internal/adapters/repository/memory"
	"github.com/ogurasousui/employee-roster/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-roster/internal/core/employee"
	"github.com/ogurasousui/employee-roster/internal/platform/config"
	pg "github.com/ogurasousui/employee-roster/internal/platform/db/postgres"
	"github.com/ogurasousui/employee-roster/internal/platform/logger"
	"github.com/ogurasousui/employee-roster/internal/platform/server"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	var (
		repo  employee.Repository
		tx    employee.TransactionManager
		store handler.Pinger
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		mem := memory.NewEmployeeRepository()
		repo, store = mem, mem
	default:
		pool, err := pg.NewPool(ctx, cfg.Database, zl)
		if err != nil {
			return fmt.Errorf("initialize database pool: %w", err)
		}
		defer pool.Close()

		repo = postgres.NewEmployeeRepository(pool)
		tx = pg.NewTransactionManager(pool, zl)
		store = pool
	}
	zl.Info("employee store ready", zap.String("driver", string(cfg.Store.Driver)))

	svc := employee.NewService(repo, nil, tx,
		employee.WithLogger(zl),
		employee.WithMaxPageSize(cfg.Query.MaxPageSize),
	)

	router := handler.NewRouter(
		handler.NewEmployeeHandler(svc, zl, cfg.Query.DefaultPageSize),
		handler.NewHealthHandler(store, zl),
		zl,
	)

	srv := server.New(cfg.Server.HTTPAddr, cfg.Server.GRPCAddr, router,
		server.WithLogger(zl),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)
	return srv.Run(ctx)
}
