package app

import (
	"context"
	"net"
	"time"

	"github.com/Astemirdum/library-loans/gateway/config"
	"github.com/Astemirdum/library-loans/gateway/internal/handler"
	"github.com/Astemirdum/library-loans/pkg/client"
	"github.com/Astemirdum/library-loans/pkg/logger"
	"github.com/Astemirdum/library-loans/pkg/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Run serves the public API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "gateway")

	catalog := client.NewCatalogClient(cfg.Catalog.Config(cfg.ClientTimeout), cfg.Breaker, log)
	loans := client.NewLoanClient(cfg.Loan.Config(cfg.ClientTimeout), cfg.Breaker, log)
	requests := client.NewRequestClient(cfg.Request.Config(cfg.ClientTimeout), cfg.Breaker, log)
	identity := client.NewIdentityClient(cfg.Identity.Config(cfg.ClientTimeout), cfg.Breaker, log)
	h := handler.New(catalog, loans, requests, identity, log)

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

	err := gg.Wait()
	log.Info("Graceful shutdown finished")
	return err
}
