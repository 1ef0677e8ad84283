package browser

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"
)

// RobotsChecker checks robots.txt before scraping a site. A missing file or
// any fetch error degrades to allowed — politeness never aborts a run.
type RobotsChecker struct {
	userAgent string
	client    *http.Client
	log       *zap.Logger

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData // keyed by scheme://host; nil entry means no usable robots.txt
}

// NewRobotsChecker creates a checker identifying as userAgent.
func NewRobotsChecker(userAgent string, log *zap.Logger) *RobotsChecker {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &RobotsChecker{
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log,
		cache:     make(map[string]*robotstxt.RobotsData),
	}
}

// IsAllowed reports whether the URL may be fetched and any crawl-delay the
// site declares. When respect is false the check is bypassed entirely.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string, respect bool) (bool, time.Duration) {
	if !respect {
		return true, 0
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true, 0
	}
	origin := u.Scheme + "://" + u.Host

	data := r.robotsFor(ctx, origin)
	if data == nil {
		return true, 0
	}

	group := data.FindGroup(r.userAgent)
	if group == nil {
		return true, 0
	}

	allowed := group.Test(u.Path)
	if !allowed {
		r.log.Warn("robots.txt disallows url",
			zap.String("url", rawURL),
			zap.String("user_agent", r.userAgent),
		)
	}
	return allowed, group.CrawlDelay
}

func (r *RobotsChecker) robotsFor(ctx context.Context, origin string) *robotstxt.RobotsData {
	r.mu.Lock()
	if data, ok := r.cache[origin]; ok {
		r.mu.Unlock()
		return data
	}
	r.mu.Unlock()

	data := r.fetch(ctx, origin)

	r.mu.Lock()
	r.cache[origin] = data
	r.mu.Unlock()
	return data
}

func (r *RobotsChecker) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	robotsURL := origin + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("robots.txt fetch failed", zap.String("url", robotsURL), zap.Error(err))
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		r.log.Debug("robots.txt parse failed", zap.String("url", robotsURL), zap.Error(err))
		return nil
	}
	return data
}

// ClearCache drops all cached robots.txt entries.
func (r *RobotsChecker) ClearCache() {
	r.mu.Lock()
	r.cache = make(map[string]*robotstxt.RobotsData)
	r.mu.Unlock()
}
