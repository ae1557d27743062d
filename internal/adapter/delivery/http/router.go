// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/validation"
	"github.com/vadimbarashkov/inmem-url-shortener/pkg/middleware/recoverer"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
// baseURL prefixes returned short URLs; when empty it is derived from each request.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, baseURL string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	h := newURLHandler(urlUseCase, newValidate(), baseURL)

	r.Get("/", handleHome)
	r.Get("/api/health", h.health)
	r.Post("/api/shorten", h.shortenURL)
	r.Get("/api/stats/{shortCode}", h.getURLStats)
	r.Get("/{shortCode}", h.resolveShortCode)

	return r
}

func newValidate() *validator.Validate {
	validate := validator.New()

	if err := validation.RegisterValidations(validate); err != nil {
		panic(err)
	}

	return validate
}
