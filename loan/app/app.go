package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Astemirdum/library-loans/loan/config"
	"github.com/Astemirdum/library-loans/loan/internal/handler"
	"github.com/Astemirdum/library-loans/loan/internal/repository"
	"github.com/Astemirdum/library-loans/loan/internal/service"
	"github.com/Astemirdum/library-loans/loan/migrations"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/kafka"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/postgres"
	"github.com/Astemirdum/library-loans/pkg/server"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run serves the loan ledger until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "loan")
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %w", err)
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka.NewProducer %w", err)
		}
		defer producer.Close()
	} else {
		log.Warn("kafka is not configured, hold releases are not queued when the catalog is down")
	}

	catalog := client.NewCatalogClient(cfg.Catalog.Config(cfg.ClientTimeout), cfg.Breaker, log)
	identity := client.NewIdentityClient(cfg.Identity.Config(cfg.ClientTimeout), cfg.Breaker, log)
	svc := service.NewService(repo, catalog, identity, kafka.NewEnqueuer(producer), cfg.LoanPeriod, log)

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server.Config(), h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	gg, ctx := errgroup.WithContext(ctx)
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
