package main

import (
	"context"
	stdLog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Astemirdum/library-loans/gateway/app"
	"github.com/Astemirdum/library-loans/gateway/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		stdLog.Fatal("gateway: ", err)
	}
}
