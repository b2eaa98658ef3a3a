package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Astemirdum/library-loans/catalog/config"
	"github.com/Astemirdum/library-loans/catalog/internal/handler"
	"github.com/Astemirdum/library-loans/catalog/internal/repository"
	"github.com/Astemirdum/library-loans/catalog/internal/service"
	"github.com/Astemirdum/library-loans/catalog/migrations"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	"github.com/Astemirdum/library-loans/pkg/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run serves the catalog until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "catalog")
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %w", err)
	}
	svc := service.NewService(repo, log)

	gg, ctx := errgroup.WithContext(ctx)
	if cfg.Kafka.Enabled() {
		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.CatalogConsumerGroup)
		if err != nil {
			return fmt.Errorf("kafka.NewConsumer %w", err)
		}
		gg.Go(func() error {
			return kafka.Consume(ctx, consumer, handler.NewConsumer(svc.ReplayRelease, log), log, kafka.HoldReleaseTopic)
		})
	} else {
		log.Warn("kafka is not configured, queued hold releases are not consumed")
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server.Config(), h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	gg.Go(srv.Run)
	gg.Go(func() error {
		<-ctx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	err = gg.Wait()
	log.Info("Graceful shutdown finished")
	return err
}
