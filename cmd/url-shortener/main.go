package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vadimbarashkov/inmem-url-shortener/internal/app"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	cfg := config.Default()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
	}

	return app.Run(ctx, cfg)
}
