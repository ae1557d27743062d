package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/vadimbarashkov/inmem-url-shortener/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/shortcode"
	"github.com/vadimbarashkov/inmem-url-shortener/internal/usecase"
)

type APITestSuite struct {
	suite.Suite
	logger *httplog.Logger
	server *httptest.Server
	e      *httpexpect.Expect
}

func (suite *APITestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *APITestSuite) SetupSubTest() {
	uc := usecase.NewURLUseCase(
		memory.NewURLRepository(),
		shortcode.NewGenerator(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	suite.server = httptest.NewServer(NewRouter(suite.logger, uc, ""))
	suite.T().Cleanup(func() {
		suite.server.Close()
	})

	suite.e = newExpect(suite.T(), suite.server.URL)
}

func (suite *APITestSuite) shorten(url string) string {
	resp := suite.e.POST("/api/shorten").
		WithJSON(map[string]string{"url": url}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()

	shortCode := resp.Value("short_code").String().Raw()
	shortURL := resp.Value("short_url").String().Raw()

	suite.Len(shortCode, shortcode.DefaultLength)
	suite.True(strings.HasSuffix(shortURL, shortCode), "short_url %q does not end with %q", shortURL, shortCode)

	return shortCode
}

func (suite *APITestSuite) TestShortenAndRedirect() {
	suite.Run("redirects to the original url", func() {
		for _, u := range []string{
			"https://www.example.com/very/long/url",
			"http://localhost:5000/a?b=c&d=e",
			"http://127.0.0.1:8080/",
			"HTTPS://EXAMPLE.ORG/Path",
		} {
			shortCode := suite.shorten(u)

			suite.e.GET("/" + shortCode).
				Expect().
				Status(http.StatusFound).
				Header("Location").IsEqual(u)
		}
	})

	suite.Run("invalid url", func() {
		suite.e.POST("/api/shorten").
			WithJSON(map[string]string{"url": "not-a-url"}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			Value("error").String().Contains("Invalid URL")
	})

	suite.Run("unknown and malformed codes", func() {
		suite.e.GET("/abcdef").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			Value("error").String().Contains("not found")

		suite.e.GET("/ab").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Invalid short code format")

		suite.e.GET("/%20%20%20").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Invalid short code format")
	})
}

func (suite *APITestSuite) TestStats() {
	suite.Run("counts visits", func() {
		shortCode := suite.shorten("https://example.com")

		for i := 0; i < 5; i++ {
			suite.e.GET("/" + shortCode).
				Expect().
				Status(http.StatusFound)
		}

		for i := 0; i < 2; i++ {
			resp := suite.e.GET("/api/stats/" + shortCode).
				Expect().
				Status(http.StatusOK).
				JSON().Object()

			resp.HasValue("url", "https://example.com")
			resp.HasValue("clicks", 5)
			resp.ContainsKey("created_at")
			resp.NotContainsKey("last_accessed")
		}
	})

	suite.Run("unknown and malformed codes", func() {
		suite.e.GET("/api/stats/abcdef").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Short code not found")

		suite.e.GET("/api/stats/ab").
			Expect().
			Status(http.StatusNotFound).
			JSON().Object().
			HasValue("error", "Invalid short code format")
	})

	suite.Run("health reports stored urls", func() {
		suite.shorten("https://example.com/1")
		suite.shorten("https://example.com/2")

		suite.e.GET("/api/health").
			Expect().
			Status(http.StatusOK).
			JSON().Object().
			HasValue("total_urls", 2)
	})
}

func (suite *APITestSuite) TestConcurrentShorten() {
	suite.Run("distinct codes", func() {
		const n = 5

		codes := make([]string, n)
		client := suite.server.Client()

		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				body := fmt.Sprintf(`{"url": "https://example.com/page/%d"}`, i)

				resp, err := client.Post(suite.server.URL+"/api/shorten", "application/json", strings.NewReader(body))
				if err != nil {
					return err
				}
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusCreated {
					return fmt.Errorf("request %d: unexpected status %d", i, resp.StatusCode)
				}

				var out struct {
					ShortCode string `json:"short_code"`
				}
				if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
					return err
				}

				codes[i] = out.ShortCode
				return nil
			})
		}
		suite.Require().NoError(g.Wait())

		seen := make(map[string]bool, n)
		for i, shortCode := range codes {
			suite.False(seen[shortCode], "duplicate short code %q", shortCode)
			seen[shortCode] = true

			suite.e.GET("/" + shortCode).
				Expect().
				Status(http.StatusFound).
				Header("Location").IsEqual(fmt.Sprintf("https://example.com/page/%d", i))
		}
	})
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
