package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"quote-search/credentials"
	"quote-search/quote"
)

const (
	DefaultBaseURL = "https://query1.finance.yahoo.com"
	DefaultHomeURL = "https://finance.yahoo.com"

	// APIKeyCredential is the credential name looked up for the optional
	// API key header.
	APIKeyCredential = "QUOTESEARCH_API_KEY"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// YahooSource reads the Yahoo chart and quote endpoints.
type YahooSource struct {
	baseURL     string
	homeURL     string
	proxyPrefix string
	apiKeyName  string
	apiKeyHdr   string
	useCrumb    bool

	httpClient HTTPClient
	limiter    *rate.Limiter
	creds      credentials.Provider
	log        zerolog.Logger

	mu    sync.Mutex
	crumb string
}

// YahooOption is a configuration option for YahooSource.
type YahooOption func(*YahooSource)

// WithBaseURL sets the API base URL.
func WithBaseURL(baseURL string) YahooOption {
	return func(s *YahooSource) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithProxy routes every request through a pass-through proxy. The escaped
// target URL is appended to prefix, e.g. "https://api.allorigins.win/raw?url=".
func WithProxy(prefix string) YahooOption {
	return func(s *YahooSource) {
		s.proxyPrefix = prefix
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c HTTPClient) YahooOption {
	return func(s *YahooSource) {
		s.httpClient = c
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64, burst int) YahooOption {
	return func(s *YahooSource) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCredentials sends the credential named key, when present, in header.
func WithCredentials(p credentials.Provider, key, header string) YahooOption {
	return func(s *YahooSource) {
		s.creds = p
		s.apiKeyName = key
		s.apiKeyHdr = header
	}
}

// WithCrumb performs the cookie and crumb handshake before the first fetch
// and appends the crumb to every request.
func WithCrumb(homeURL string) YahooOption {
	return func(s *YahooSource) {
		s.useCrumb = true
		if homeURL != "" {
			s.homeURL = homeURL
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) YahooOption {
	return func(s *YahooSource) {
		s.log = log
	}
}

// NewYahooSource returns a YahooSource with the given options applied.
func NewYahooSource(opts ...YahooOption) *YahooSource {
	jar, _ := cookiejar.New(nil)
	s := &YahooSource{
		baseURL:    DefaultBaseURL,
		homeURL:    DefaultHomeURL,
		apiKeyName: APIKeyCredential,
		apiKeyHdr:  "X-API-KEY",
		httpClient: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the upstream URL for symbol on endpoint, before proxying.
func (s *YahooSource) URL(symbol string, endpoint Endpoint) string {
	switch endpoint {
	case Fallback:
		return fmt.Sprintf("%s/v7/finance/quote?symbols=%s", s.baseURL, url.QueryEscape(symbol))
	default:
		return fmt.Sprintf("%s/v8/finance/chart/%s?range=7d&interval=1d", s.baseURL, url.PathEscape(symbol))
	}
}

// Fetch performs a single GET. There are no retries.
func (s *YahooSource) Fetch(ctx context.Context, symbol string, endpoint Endpoint) (quote.Payload, error) {
	target := s.URL(symbol, endpoint)

	if s.useCrumb {
		crumb, err := s.ensureCrumb(ctx)
		if err != nil {
			return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Err: err}
		}
		target += "&crumb=" + url.QueryEscape(crumb)
	}

	body, status, err := s.get(ctx, target, true)
	if err != nil {
		return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Err: err}
	}
	if status < 200 || status > 299 {
		s.log.Warn().Str("symbol", symbol).Stringer("endpoint", endpoint).Int("status", status).Msg("upstream returned non-success status")
		return nil, &RetrievalError{Endpoint: endpoint, Symbol: symbol, Status: status}
	}

	p, err := quote.Decode(body)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Stringer("endpoint", endpoint).Msg("undecodable upstream body")
		return nil, err
	}
	s.log.Debug().Str("symbol", symbol).Stringer("endpoint", endpoint).Int("bytes", len(body)).Msg("fetched payload")
	return p, nil
}

func (s *YahooSource) get(ctx context.Context, target string, withKey bool) ([]byte, int, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	if s.proxyPrefix != "" {
		target = s.proxyPrefix + url.QueryEscape(target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if withKey && s.creds != nil && s.apiKeyHdr != "" {
		if key, err := s.creds.GetCredential(s.apiKeyName); err == nil {
			req.Header.Set(s.apiKeyHdr, key)
		}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// ensureCrumb fetches a session cookie from the home page and then the
// crumb tied to it. The crumb is reused for the life of the source.
func (s *YahooSource) ensureCrumb(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.crumb != "" {
		return s.crumb, nil
	}

	if _, _, err := s.get(ctx, s.homeURL, false); err != nil {
		return "", fmt.Errorf("get cookie: %w", err)
	}

	body, status, err := s.get(ctx, s.baseURL+"/v1/test/getcrumb", false)
	if err != nil {
		return "", fmt.Errorf("get crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" || strings.Contains(crumb, "html") {
		return "", errors.New("invalid crumb received")
	}

	s.crumb = crumb
	return crumb, nil
}
