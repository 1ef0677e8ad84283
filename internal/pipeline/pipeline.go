// Package pipeline drives the batch run: politeness checks, per-dealership
// sequential extraction, evidence assembly, checkpointing, and report output.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/checkpoint"
	"github.com/sells-group/dealer-scout/internal/config"
	"github.com/sells-group/dealer-scout/internal/county"
	"github.com/sells-group/dealer-scout/internal/extract"
	"github.com/sells-group/dealer-scout/internal/model"
	"github.com/sells-group/dealer-scout/internal/normalize"
	"github.com/sells-group/dealer-scout/internal/patterns"
	"github.com/sells-group/dealer-scout/internal/report"
)

// Orchestrator runs the full extraction pipeline over a URL list. All field
// extractors for one dealership run sequentially on one browsing context;
// dealerships run concurrently up to the pool bound.
type Orchestrator struct {
	cfg    *config.Config
	log    *zap.Logger
	pool   *browser.Pool
	robots *browser.RobotsChecker

	checkpoints *checkpoint.Manager
	writer      *report.Writer
	counties    *county.Service // nil when census lookup is disabled

	address  *extract.AddressExtractor
	phone    *extract.PhoneExtractor
	hours    *extract.HoursExtractor
	urls     *extract.URLDiscoverer
	provider *extract.ProviderDetector
	credit   *extract.CreditAppProviderDetector

	// serializes checkpoint mutation and report appends across dealer goroutines
	mu sync.Mutex
}

// New wires an orchestrator from configuration and collaborators.
func New(
	cfg *config.Config,
	checkpoints *checkpoint.Manager,
	writer *report.Writer,
	counties *county.Service,
	fingerprints *extract.FingerprintRegistry,
	log *zap.Logger,
) *Orchestrator {
	opts := browser.AccessorOptions{
		PageTimeout:   time.Duration(cfg.Scrape.PageTimeoutMs) * time.Millisecond,
		DelayBetween:  time.Duration(cfg.Scrape.DelayBetweenPagesSec * float64(time.Second)),
		RetryAttempts: cfg.Scrape.RetryAttempts,
		UserAgent:     cfg.Scrape.UserAgent,
	}
	if cfg.Debug.Mode && cfg.Debug.SaveHTML {
		opts.DebugHTMLDir = cfg.Debug.HTMLDir
	}

	return &Orchestrator{
		cfg:         cfg,
		log:         log,
		pool:        browser.NewPool(cfg.Scrape.MaxConcurrent, opts, log),
		robots:      browser.NewRobotsChecker(cfg.Scrape.UserAgent, log),
		checkpoints: checkpoints,
		writer:      writer,
		counties:    counties,
		address:     extract.NewAddressExtractor(log),
		phone:       extract.NewPhoneExtractor(log),
		hours:       extract.NewHoursExtractor(log),
		urls:        extract.NewURLDiscoverer(log),
		provider:    extract.NewProviderDetector(fingerprints, log),
		credit:      extract.NewCreditAppProviderDetector(fingerprints, log),
	}
}

// Summary reports what a run did.
type Summary struct {
	RunID     string
	Total     int
	Completed int
	Failed    int
	Elapsed   time.Duration
}

// Run processes every pending URL. Per-dealership faults become checkpoint
// "failed" entries and the batch continues; only context cancellation or a
// checkpoint persistence failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context, urls []string) (Summary, error) {
	runID := uuid.NewString()
	started := time.Now()

	if len(urls) > 0 {
		if err := o.checkpoints.AddPending(urls); err != nil {
			return Summary{}, eris.Wrap(err, "pipeline: queue urls")
		}
	}
	pending := o.checkpoints.Pending()

	o.log.Info("run started",
		zap.String("run_id", runID),
		zap.String("session_id", o.checkpoints.SessionID()),
		zap.Int("pending", len(pending)),
	)

	var completed, failed int
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Scrape.MaxConcurrent)

	for _, raw := range pending {
		raw := raw
		g.Go(func() error {
			dealer, err := o.processDealer(gctx, raw)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				o.log.Warn("dealer failed", zap.String("url", raw), zap.Error(err))
				o.mu.Lock()
				defer o.mu.Unlock()
				failed++
				return o.checkpoints.MarkFailed(raw, err.Error())
			}

			o.mu.Lock()
			defer o.mu.Unlock()
			if err := o.writer.AppendDealer(dealer); err != nil {
				o.log.Error("report append failed", zap.String("url", raw), zap.Error(err))
				failed++
				return o.checkpoints.MarkFailed(raw, err.Error())
			}
			completed++
			return o.checkpoints.MarkCompleted(raw, 1)
		})
	}

	err := g.Wait()

	if cleanupErr := o.checkpoints.CleanupOld(o.cfg.Checkpoint.Retention); cleanupErr != nil {
		o.log.Warn("checkpoint cleanup failed", zap.Error(cleanupErr))
	}

	summary := Summary{
		RunID:     runID,
		Total:     len(pending),
		Completed: completed,
		Failed:    failed,
		Elapsed:   time.Since(started),
	}
	o.log.Info("run finished",
		zap.String("run_id", runID),
		zap.Int("total", summary.Total),
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, err
}

// processDealer runs the sequential extraction pipeline for one dealership.
// A panic in any extractor is contained to this dealer.
func (o *Orchestrator) processDealer(ctx context.Context, rawURL string) (dealer *model.DealerData, err error) {
	defer func() {
		if r := recover(); r != nil {
			dealer = nil
			err = eris.Errorf("pipeline: panic processing %s: %v", rawURL, r)
		}
	}()
	dealerURL := normalize.DealerURL(rawURL)

	allowed, crawlDelay := o.robots.IsAllowed(ctx, dealerURL, o.cfg.Scrape.RespectRobotsTxt)
	if !allowed {
		return nil, eris.Errorf("pipeline: robots.txt disallows %s", dealerURL)
	}

	accessor, release, err := o.pool.Acquire(ctx, dealerURL)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: acquire context")
	}
	defer release()

	configured := time.Duration(o.cfg.Scrape.DelayBetweenPagesSec * float64(time.Second))
	if crawlDelay > configured {
		accessor.SetMinDelay(crawlDelay)
	}

	started := time.Now()
	page, err := accessor.Navigate(ctx, dealerURL)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: homepage fetch %s", dealerURL)
	}

	dealer = &model.DealerData{
		Website:  dealerURL,
		Name:     dealerNameFromTitle(page.HTML),
		Evidence: &model.Evidence{},
	}

	o.extractFields(ctx, accessor, dealer)

	dealer.Evidence.CapturedTimestamp = o.writer.Template().Timestamp()
	dealer.ProcessedAt = time.Now()
	dealer.ProcessingSecs = time.Since(started).Seconds()
	return dealer, nil
}

// extractFields runs every field extractor in order against one accessor.
// Individual misses are recorded as notes, never failures.
func (o *Orchestrator) extractFields(ctx context.Context, accessor *browser.HTTPAccessor, dealer *model.DealerData) {
	note := func(field, reason string) {
		if reason != "" {
			dealer.Evidence.Notes = append(dealer.Evidence.Notes, field+": "+reason)
		}
	}

	addrResult := o.address.Extract(ctx, accessor)
	if addrResult.Success() {
		dealer.Address = addrResult.Value
		dealer.Evidence.GoogleMapsAddress = addrResult.Evidence
	} else {
		note("address", addrResult.Err)
	}

	if o.counties != nil && dealer.Address != nil {
		dealer.County = o.counties.Lookup(ctx, county.LookupRequest{
			Street: dealer.Address.Street,
			City:   dealer.Address.City,
			State:  dealer.Address.State,
			Zip:    dealer.Address.Zip,
		})
		dealer.Evidence.CountyVerification = dealer.County.VerificationURL
	}

	phoneResult := o.phone.Extract(ctx, accessor)
	if phoneResult.Success() {
		dealer.Phone = phoneResult.Value
		dealer.Evidence.HomepagePhone = phoneResult.Evidence
	} else {
		note("phone", phoneResult.Err)
	}

	hoursResult := o.hours.Extract(ctx, accessor)
	if hoursResult.Success() {
		dealer.Hours = hoursResult.Value
		dealer.Evidence.HoursPage = hoursResult.Evidence
	} else {
		note("hours", hoursResult.Err)
	}

	dealer.URLs = o.urls.Discover(ctx, accessor)
	if dealer.URLs.ServiceScheduler != "" {
		dealer.Evidence.ServiceVerifiedOn = dealer.URLs.ServiceScheduler
	}
	if dealer.URLs.CreditApp != "" {
		dealer.Evidence.CreditAppVerified = dealer.URLs.CreditApp
	}
	if dealer.URLs.FacebookSource != "" {
		start, final, ok := strings.Cut(dealer.URLs.FacebookSource, " → ")
		if ok {
			dealer.Evidence.FacebookStart = start
			dealer.Evidence.FacebookFinal = final
		} else {
			dealer.Evidence.FacebookFinal = dealer.URLs.Facebook
		}
	}

	providerResult := o.provider.Detect(ctx, accessor)
	dealer.WebsiteProvider = providerResult.Value
	if providerResult.Success() {
		dealer.Evidence.ProviderVerified = providerResult.Value.VerificationURL
		if dealer.Evidence.ProviderVerified == "" {
			dealer.Evidence.ProviderVerified = providerResult.Evidence
		}
	} else {
		note("provider", providerResult.Err)
	}

	creditResult := o.credit.Detect(ctx, accessor, dealer.URLs.CreditApp)
	dealer.CreditAppProvider = creditResult.Value
	if creditResult.Success() {
		dealer.Evidence.CreditAppEmbedded = creditResult.Evidence
	}
}

// dealerNameFromTitle derives the dealership name from the homepage <title>,
// keeping only the segment before the first separator.
func dealerNameFromTitle(html string) string {
	lower := strings.ToLower(html)
	start := strings.Index(lower, "<title")
	if start < 0 {
		return ""
	}
	open := strings.Index(lower[start:], ">")
	if open < 0 {
		return ""
	}
	rest := html[start+open+1:]
	end := strings.Index(strings.ToLower(rest), "</title>")
	if end < 0 {
		return ""
	}

	title := patterns.CleanWhitespace(rest[:end])
	for _, sep := range []string{" | ", " – ", " — ", " - ", " :: "} {
		if before, _, ok := strings.Cut(title, sep); ok {
			title = strings.TrimSpace(before)
			break
		}
	}
	return title
}
