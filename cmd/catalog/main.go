package main

import (
	"context"
	"time"

	"github.com/satvikfoods/catalog/config"
	"github.com/satvikfoods/catalog/internal/app"
	"github.com/satvikfoods/catalog/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	catalogService := app.New(sigCtx, cfg)

	catalogService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	catalogService.Close(ctx)
}
