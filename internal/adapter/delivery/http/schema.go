package http

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/entity"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/validation"
)

const serviceName = "URL Shortener API"

// shortenRequest represents the body of a request to shorten a URL.
type shortenRequest struct {
	URL string `json:"url" validate:"shortenable_url"`
}

// shortenResponse represents the structure for a response containing a new short code.
type shortenResponse struct {
	ShortCode string `json:"short_code"`
	ShortURL  string `json:"short_url"`
}

// urlStatsResponse represents the structure for a response containing URL statistics.
type urlStatsResponse struct {
	URL       string    `json:"url"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"created_at"`
}

// toURLStatsResponse converts an entity.URL to a urlStatsResponse.
func toURLStatsResponse(url *entity.URL) urlStatsResponse {
	return urlStatsResponse{
		URL:       url.OriginalURL,
		Clicks:    url.Clicks,
		CreatedAt: url.CreatedAt,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message,omitempty"`
	TotalURLs *int   `json:"total_urls,omitempty"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Error string `json:"error"`
}

// Predefined error responses for common scenarios.
var (
	contentTypeResponse = errorResponse{
		Error: "Content-Type must be application/json",
	}

	invalidJSONResponse = errorResponse{
		Error: "Invalid JSON format",
	}

	emptyRequestBodyResponse = errorResponse{
		Error: "Request body is required",
	}

	missingURLResponse = errorResponse{
		Error: "Missing 'url' field in request body",
	}

	invalidURLResponse = errorResponse{
		Error: "Invalid URL format",
	}

	generationFailedResponse = errorResponse{
		Error: "Unable to generate short code, please try again",
	}

	invalidShortCodeResponse = errorResponse{
		Error: "Invalid short code format",
	}

	shortCodeNotFoundResponse = errorResponse{
		Error: "Short code not found",
	}

	endpointNotFoundResponse = errorResponse{
		Error: "Endpoint not found",
	}

	methodNotAllowedResponse = errorResponse{
		Error: "Method not allowed",
	}

	serverErrorResponse = errorResponse{
		Error: "Internal server error",
	}
)

// validationErrorResponse picks the response for the first failed rule.
func validationErrorResponse(err error) errorResponse {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return invalidJSONResponse
	}

	switch errs[0].Tag() {
	case validation.ShortenableURLTag:
		return invalidURLResponse
	default:
		return invalidJSONResponse
	}
}
