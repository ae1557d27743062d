package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vadimbarashkov/inmem-url-shortener/internal/entity"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/shortcode"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/validation"
)

const maxRetries = 5

type urlRepository interface {
	Insert(shortCode, originalURL string) bool
	Lookup(shortCode string) (string, bool)
	RecordVisit(shortCode string) bool
	Stats(shortCode string) (*entity.URL, bool)
	ExistingCodes() map[string]struct{}
	Count() int
}

type codeGenerator interface {
	Generate(length int, avoid map[string]struct{}) (string, error)
}

type URLUseCase struct {
	urlRepo   urlRepository
	generator codeGenerator
	logger    *slog.Logger
}

func NewURLUseCase(urlRepo urlRepository, generator codeGenerator, logger *slog.Logger) *URLUseCase {
	return &URLUseCase{
		urlRepo:   urlRepo,
		generator: generator,
		logger:    logger,
	}
}

// ShortenURL stores originalURL under a freshly generated short code. A code
// that loses the insert race is replaced by a new one, up to maxRetries times.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	if !validation.IsValidURL(originalURL) {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidURL)
	}

	var genErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		shortCode, err := uc.generator.Generate(shortcode.DefaultLength, uc.urlRepo.ExistingCodes())
		if err != nil {
			uc.logger.ErrorContext(ctx, "failed to generate short code",
				slog.String("op", op), slog.Int("attempt", attempt), slog.Any("err", err))
			genErr = err
			continue
		}

		if uc.urlRepo.Insert(shortCode, originalURL) {
			url, ok := uc.urlRepo.Stats(shortCode)
			if !ok {
				return nil, fmt.Errorf("%s: inserted short code %q vanished", op, shortCode)
			}

			uc.logger.InfoContext(ctx, "url shortened",
				slog.String("short_code", shortCode), slog.String("url", originalURL))

			return url, nil
		}

		uc.logger.WarnContext(ctx, "short code collision",
			slog.String("op", op), slog.String("short_code", shortCode), slog.Int("attempt", attempt))
	}

	if genErr != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(entity.ErrCollisionExhausted, genErr))
	}

	return nil, fmt.Errorf("%s: %w", op, entity.ErrCollisionExhausted)
}

// ResolveShortCode returns the URL stored under shortCode and records a visit.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	if strings.TrimSpace(shortCode) == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidShortCode)
	}

	originalURL, ok := uc.urlRepo.Lookup(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, missingCodeError(shortCode))
	}

	if !uc.urlRepo.RecordVisit(shortCode) {
		uc.logger.ErrorContext(ctx, "failed to record visit",
			slog.String("op", op), slog.String("short_code", shortCode))
	}

	return &entity.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
	}, nil
}

// GetURLStats returns the stored record for shortCode without recording a visit.
func (uc *URLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	if strings.TrimSpace(shortCode) == "" {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidShortCode)
	}

	url, ok := uc.urlRepo.Stats(shortCode)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, missingCodeError(shortCode))
	}

	return url, nil
}

// TotalURLs returns the number of stored short codes.
func (uc *URLUseCase) TotalURLs(ctx context.Context) int {
	return uc.urlRepo.Count()
}

// missingCodeError tells a malformed code apart from an unknown one.
func missingCodeError(shortCode string) error {
	if !validation.IsValidShortCode(shortCode) {
		return entity.ErrInvalidShortCode
	}
	return entity.ErrURLNotFound
}
