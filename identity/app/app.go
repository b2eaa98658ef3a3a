package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Astemirdum/library-loans/identity/config"
	"github.com/Astemirdum/library-loans/identity/internal/handler"
	"github.com/Astemirdum/library-loans/identity/internal/repository"
	"github.com/Astemirdum/library-loans/identity/internal/service"
	"github.com/Astemirdum/library-loans/identity/migrations"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	"github.com/Astemirdum/library-loans/pkg/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "identity")
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %w", err)
	}
	h := handler.New(service.NewService(repo, log), log)

	srv := server.NewServer(cfg.Server.Config(), h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(srv.Run)
	gg.Go(func() error {
		<-ctx.Done()
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	err = gg.Wait()
	log.Info("Graceful shutdown finished")
	return err
}
