// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a stored short code mapping,
// along with its click statistics, and the error kinds shared by all layers.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrInvalidURL is returned when a URL is not an acceptable http(s) target.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidShortCode is returned when a short code is not well-formed.
	ErrInvalidShortCode = errors.New("invalid short code format")
	// ErrURLNotFound is returned when a well-formed short code has no stored URL.
	ErrURLNotFound = errors.New("url not found")
	// ErrCollisionExhausted is returned when every attempt to insert a fresh short code collided.
	ErrCollisionExhausted = errors.New("maximum retries exceeded for generating short code")
)

// URL represents a shortened URL.
type URL struct {
	ShortCode   string    // ShortCode is the generated code used to shorten the original URL.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	URLStats              // URLStats contains statistics about the URL.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was stored.
}

// URLStats contains statistics related to a shortened URL.
type URLStats struct {
	Clicks       int64      // Clicks is the number of times the shortened URL has been visited.
	LastAccessed *time.Time // LastAccessed is the time of the latest visit, nil until the first one.
}
