package browser

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/dealer-scout/internal/resilience"
)

const maxBodyBytes = 2 * 1024 * 1024

const defaultUserAgent = "Mozilla/5.0 (compatible; DealerScout/1.0)"

// HTTPAccessor implements PageAccessor over net/http. One accessor serves
// one dealership; navigations on it run sequentially.
type HTTPAccessor struct {
	baseURL   string
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
	log       *zap.Logger
	debugDir  string

	current *Page
}

// AccessorOptions configures an HTTPAccessor.
type AccessorOptions struct {
	PageTimeout   time.Duration
	DelayBetween  time.Duration // minimum gap between page fetches
	RetryAttempts int
	UserAgent     string
	DebugHTMLDir  string // when set, fetched HTML is saved here

	// Transport overrides the default HTTP transport (proxies, custom TLS).
	Transport http.RoundTripper
}

// NewHTTPAccessor creates an accessor bound to a dealership root URL.
func NewHTTPAccessor(baseURL string, opts AccessorOptions, log *zap.Logger) *HTTPAccessor {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	limit := rate.Inf
	if opts.DelayBetween > 0 {
		limit = rate.Every(opts.DelayBetween)
	}

	retry := resilience.DefaultRetryConfig()
	if opts.RetryAttempts > 0 {
		retry.MaxAttempts = opts.RetryAttempts
	}
	retry.OnRetry = resilience.RetryLogger(log, "navigate")

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	return &HTTPAccessor{
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		limiter:   rate.NewLimiter(limit, 1),
		retry:     retry,
		log:       log,
		debugDir:  opts.DebugHTMLDir,
		client: &http.Client{
			Timeout:   opts.PageTimeout,
			Transport: transport,
		},
	}
}

// SetMinDelay raises the inter-page delay, used when robots.txt declares a
// crawl-delay larger than the configured default.
func (a *HTTPAccessor) SetMinDelay(d time.Duration) {
	if d > 0 {
		a.limiter.SetLimit(rate.Every(d))
	}
}

func (a *HTTPAccessor) BaseURL() string { return a.baseURL }
func (a *HTTPAccessor) Current() *Page  { return a.current }

// Navigate fetches the URL with retry and backoff. 404s are not retried;
// transient statuses are. On success the fetched page becomes current.
func (a *HTTPAccessor) Navigate(ctx context.Context, targetURL string) (*Page, error) {
	page, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*Page, error) {
		return a.fetch(ctx, targetURL)
	})
	if err != nil {
		a.log.Debug("navigation failed",
			zap.String("url", targetURL),
			zap.Error(err),
		)
		return nil, err
	}

	a.current = page
	a.saveDebugHTML(page)
	return page, nil
}

func (a *HTTPAccessor) fetch(ctx context.Context, targetURL string) (*Page, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "browser: politeness delay")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "browser: create request")
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "browser: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "browser: read body")
	}

	if resp.StatusCode >= 400 {
		err := eris.Errorf("browser: status %d for %s", resp.StatusCode, targetURL)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Page{
		URL:        finalURL,
		HTML:       string(body),
		StatusCode: resp.StatusCode,
	}, nil
}

func (a *HTTPAccessor) saveDebugHTML(page *Page) {
	if a.debugDir == "" || page == nil {
		return
	}
	name := strings.NewReplacer("https://", "", "http://", "", "/", "_", "?", "_").Replace(page.URL)
	if len(name) > 120 {
		name = name[:120]
	}
	path := filepath.Join(a.debugDir, name+".html")
	if err := os.WriteFile(path, []byte(page.HTML), 0o644); err != nil {
		a.log.Debug("debug html save failed", zap.String("path", path), zap.Error(err))
	}
}
