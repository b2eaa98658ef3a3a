// Command monolith runs every service of the library in one process. Each service keeps its
// own schema and port, so the deployment differs from the split one only in packaging.
package main

import (
	"context"
	stdLog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalog "github.com/Astemirdum/library-loans/catalog/app"
	catalogcfg "github.com/Astemirdum/library-loans/catalog/config"
	gateway "github.com/Astemirdum/library-loans/gateway/app"
	gatewaycfg "github.com/Astemirdum/library-loans/gateway/config"
	identity "github.com/Astemirdum/library-loans/identity/app"
	identitycfg "github.com/Astemirdum/library-loans/identity/config"
	loan "github.com/Astemirdum/library-loans/loan/app"
	loancfg "github.com/Astemirdum/library-loans/loan/config"
	request "github.com/Astemirdum/library-loans/request/app"
	requestcfg "github.com/Astemirdum/library-loans/request/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return catalog.Run(ctx, catalogcfg.NewConfig(catalogcfg.WithWriteTimeout(time.Minute)))
	})
	gg.Go(func() error {
		return identity.Run(ctx, identitycfg.NewConfig())
	})
	gg.Go(func() error {
		return loan.Run(ctx, loancfg.NewConfig())
	})
	gg.Go(func() error {
		return request.Run(ctx, requestcfg.NewConfig())
	})
	gg.Go(func() error {
		return gateway.Run(ctx, gatewaycfg.NewConfig(gatewaycfg.WithLogLevel(zapcore.InfoLevel)))
	})

	if err := gg.Wait(); err != nil {
		stdLog.Fatal("monolith: ", err)
	}
}
