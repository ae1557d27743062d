package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/entity"
)

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	GetURLStats(ctx context.Context, shortCode string) (*entity.URL, error)
	TotalURLs(ctx context.Context) int
}

func handleHome(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Status:  "healthy",
		Service: serviceName,
	})
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, endpointNotFoundResponse)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, methodNotAllowedResponse)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	baseURL  string
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, baseURL string) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if baseURL != "" {
		baseURL = strings.TrimSuffix(baseURL, "/") + "/"
	}

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		baseURL:  baseURL,
	}
}

// shortURL joins the public base with shortCode. Without a configured base the
// request's own scheme and host are used.
func (h *urlHandler) shortURL(r *http.Request, shortCode string) string {
	if h.baseURL != "" {
		return h.baseURL + shortCode
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return scheme + "://" + r.Host + "/" + shortCode
}

func (h *urlHandler) health(w http.ResponseWriter, r *http.Request) {
	total := h.useCase.TotalURLs(r.Context())

	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Status:    "ok",
		Message:   serviceName + " is running",
		TotalURLs: &total,
	})
}

var (
	errEmptyBody   = errors.New("request body is empty")
	errInvalidJSON = errors.New("request body is not a single JSON document")
	errMissingURL  = errors.New("request body has no url field")
)

// isJSONRequest accepts application/json and application/*+json, ignoring case and parameters.
func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	if mediaType == "application/json" {
		return true
	}

	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}

// decodeShortenRequest reads exactly one JSON document from body. Empty
// documents ({}, [], null, "", 0, false) count as a missing body, and a url
// value that is not a string is kept as an empty string so it fails URL validation.
func decodeShortenRequest(body io.Reader) (shortenRequest, error) {
	var raw json.RawMessage

	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return shortenRequest{}, errEmptyBody
		}
		return shortenRequest{}, errInvalidJSON
	}

	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return shortenRequest{}, errInvalidJSON
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return shortenRequest{}, errInvalidJSON
	}

	if isEmptyDocument(doc) {
		return shortenRequest{}, errEmptyBody
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return shortenRequest{}, errMissingURL
	}

	value, ok := fields["url"]
	if !ok {
		return shortenRequest{}, errMissingURL
	}

	url, _ := value.(string)

	return shortenRequest{URL: url}, nil
}

func isEmptyDocument(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case float64:
		return v == 0
	case bool:
		return !v
	default:
		return false
	}
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	if !isJSONRequest(r) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, contentTypeResponse)
		return
	}

	req, err := decodeShortenRequest(r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)

		switch {
		case errors.Is(err, errEmptyBody):
			render.JSON(w, r, emptyRequestBodyResponse)
		case errors.Is(err, errMissingURL):
			render.JSON(w, r, missingURLResponse)
		default:
			render.JSON(w, r, invalidJSONResponse)
		}
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			httplog.LogEntrySetField(r.Context(), "invalid_field", slog.StringValue(errs[0].Field()))
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	url, err := h.useCase.ShortenURL(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidURL) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, invalidURLResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		if errors.Is(err, entity.ErrCollisionExhausted) {
			render.JSON(w, r, generationFailedResponse)
			return
		}

		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, shortenResponse{
		ShortCode: url.ShortCode,
		ShortURL:  h.shortURL(r, url.ShortCode),
	})
}

func (h *urlHandler) resolveShortCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.ResolveShortCode(r.Context(), shortCode)
	if err != nil {
		h.renderLookupError(w, r, err)
		return
	}

	http.Redirect(w, r, url.OriginalURL, http.StatusFound)
}

func (h *urlHandler) getURLStats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	url, err := h.useCase.GetURLStats(r.Context(), shortCode)
	if err != nil {
		h.renderLookupError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLStatsResponse(url))
}

// renderLookupError answers 404 for malformed and unknown codes alike.
func (h *urlHandler) renderLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidShortCode):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, invalidShortCodeResponse)
	case errors.Is(err, entity.ErrURLNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, shortCodeNotFoundResponse)
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}
