// Package memory provides the in-process storage for short code mappings.
package memory

import (
	"sync"
	"time"

	"github.com/vadimbarashkov/inmem-url-shortener/internal/entity"
)

type urlRecord struct {
	originalURL  string
	clicks       int64
	createdAt    time.Time
	lastAccessed *time.Time
}

func (u *urlRecord) toEntity(shortCode string) *entity.URL {
	url := &entity.URL{
		ShortCode:   shortCode,
		OriginalURL: u.originalURL,
		URLStats: entity.URLStats{
			Clicks: u.clicks,
		},
		CreatedAt: u.createdAt,
	}

	if u.lastAccessed != nil {
		t := *u.lastAccessed
		url.LastAccessed = &t
	}

	return url
}

// URLRepository maps short codes to URL records. A single mutex guards the
// whole map and no method calls another while holding it. Records are never
// replaced or removed once inserted.
type URLRepository struct {
	mu   sync.Mutex
	urls map[string]*urlRecord
	now  func() time.Time
}

// NewURLRepository returns an empty repository.
func NewURLRepository() *URLRepository {
	return &URLRepository{
		urls: make(map[string]*urlRecord),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Insert stores originalURL under shortCode unless the code is taken.
// It reports whether the record was inserted.
func (r *URLRepository) Insert(shortCode, originalURL string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.urls[shortCode]; ok {
		return false
	}

	r.urls[shortCode] = &urlRecord{
		originalURL: originalURL,
		createdAt:   r.now(),
	}

	return true
}

// Lookup returns the URL stored under shortCode without touching its stats.
func (r *URLRepository) Lookup(shortCode string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.urls[shortCode]
	if !ok {
		return "", false
	}

	return u.originalURL, true
}

// RecordVisit increments the click counter of shortCode and stamps its last
// access time. It reports whether the record exists.
func (r *URLRepository) RecordVisit(shortCode string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.urls[shortCode]
	if !ok {
		return false
	}

	now := r.now()
	u.clicks++
	u.lastAccessed = &now

	return true
}

// Stats returns a copy of the record stored under shortCode.
func (r *URLRepository) Stats(shortCode string) (*entity.URL, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.urls[shortCode]
	if !ok {
		return nil, false
	}

	return u.toEntity(shortCode), true
}

// ExistingCodes returns a snapshot of every short code in use.
func (r *URLRepository) ExistingCodes() map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	codes := make(map[string]struct{}, len(r.urls))
	for code := range r.urls {
		codes[code] = struct{}{}
	}

	return codes
}

// Count returns the number of stored records.
func (r *URLRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.urls)
}
