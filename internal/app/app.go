package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/config"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/shortcode"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/usecase"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/inmem-url-shortener/internal/adapter/delivery/http"
)

const serviceName = "url-shortener"

// NewLogger builds the request logger described by cfg.
func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		LogLevel: cfg.Log.SlogLevel(),
		JSON:     cfg.Log.JSON,
		Concise:  cfg.Log.Concise,
		Tags:     map[string]string{"env": cfg.Env},
		Writer:   os.Stdout,
	})
}

// NewHandler assembles the store, generator, use case and router.
func NewHandler(cfg *config.Config, logger *httplog.Logger) http.Handler {
	urlRepo := memory.NewURLRepository()
	urlUseCase := usecase.NewURLUseCase(urlRepo, shortcode.NewGenerator(), logger.Logger)

	return delivery.NewRouter(logger, urlUseCase, cfg.BaseURL)
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        NewHandler(cfg, logger),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Env)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
