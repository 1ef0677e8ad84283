package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/browser"
	"github.com/sells-group/dealer-scout/internal/checkpoint"
	"github.com/sells-group/dealer-scout/internal/config"
	"github.com/sells-group/dealer-scout/internal/extract"
	"github.com/sells-group/dealer-scout/internal/report"
)

const dealerHomepage = `<html>
<head><title>Acme Motors | New &amp; Used Cars</title></head>
<body>
<header>Call us: (312) 555-0147</header>
<p>Open Mon-Fri: 9:00 AM - 6:00 PM</p>
<a href="/service-appointment">Schedule Service</a>
<a href="/finance/apply">Apply for Financing</a>
<footer>123 Main St, Springfield, IL 62701. Website powered by Dealer.com</footer>
</body>
</html>`

func testConfig(dir string) *config.Config {
	cfg := &config.Config{}
	cfg.Scrape.MaxConcurrent = 2
	cfg.Scrape.PageTimeoutMs = 5000
	cfg.Scrape.RetryAttempts = 1
	cfg.Scrape.RespectRobotsTxt = false
	cfg.Output.Timezone = "America/Chicago"
	cfg.Checkpoint.Dir = filepath.Join(dir, "checkpoints")
	cfg.Checkpoint.Retention = 5
	return cfg
}

func testOrchestrator(t *testing.T, cfg *config.Config, reportPath string, transport http.RoundTripper) *Orchestrator {
	t.Helper()
	log := zap.NewNop()

	writer, err := report.NewWriter(reportPath, cfg.Output.Timezone, log)
	require.NoError(t, err)
	fingerprints, err := extract.DefaultFingerprints()
	require.NoError(t, err)
	checkpoints := checkpoint.NewManager(cfg.Checkpoint.Dir, "", log)

	o := New(cfg, checkpoints, writer, nil, fingerprints, log)
	if transport != nil {
		o.pool = browser.NewPool(cfg.Scrape.MaxConcurrent, browser.AccessorOptions{
			PageTimeout:   time.Duration(cfg.Scrape.PageTimeoutMs) * time.Millisecond,
			RetryAttempts: cfg.Scrape.RetryAttempts,
			Transport:     transport,
		}, log)
	}
	return o
}

func TestOrchestratorRun(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/", "/service-appointment", "/finance/apply":
			_, _ = w.Write([]byte(dealerHomepage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := testConfig(dir)
	reportPath := filepath.Join(dir, "dealers.md")

	o := testOrchestrator(t, cfg, reportPath, srv.Client().Transport)
	summary, err := o.Run(context.Background(), []string{srv.URL, srv.URL + "/nonexistent-dealer"})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 1, summary.Failed, "404 homepage becomes a failed entry")
	assert.NotEmpty(t, summary.RunID)

	stats := o.checkpoints.Stats()
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Pending)

	body, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "# Dealership Data + URL Discovery")
	assert.Contains(t, out, "```markdown\nAcme Motors\n")
	assert.Contains(t, out, "Phone: (312) 555-0147")
	assert.Contains(t, out, "Phone (no dashes): 3125550147")
	assert.Contains(t, out, "Monday: 9:00 AM – 6:00 PM")
	assert.Contains(t, out, "Schedule Service: "+srv.URL+"/service-appointment")
	assert.Contains(t, out, "Credit App: "+srv.URL+"/finance/apply")
	assert.Contains(t, out, "Provider: Dealer.com")
	assert.Contains(t, out, "- Captured: ")
}

func TestOrchestratorUnreachableDealer(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(dir)
	reportPath := filepath.Join(dir, "dealers.md")

	o := testOrchestrator(t, cfg, reportPath, nil)
	summary, err := o.Run(context.Background(), []string{"https://127.0.0.1:1/"})
	require.NoError(t, err, "per-dealer faults never abort the run")

	assert.Equal(t, 1, summary.Total)
	assert.Zero(t, summary.Completed)
	assert.Equal(t, 1, summary.Failed)

	stats := o.checkpoints.Stats()
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Pending)
}

func TestDealerNameFromTitle(t *testing.T) {
	t.Parallel()

	tests := []struct{ name, html, want string }{
		{"pipe separator", "<html><head><title>Acme Motors | Springfield IL</title></head></html>", "Acme Motors"},
		{"en-dash separator", "<title>Acme Motors – Home</title>", "Acme Motors"},
		{"hyphen separator", "<title>Acme Motors - Springfield IL</title>", "Acme Motors"},
		{"no separator", "<title>Acme Motors</title>", "Acme Motors"},
		{"whitespace collapsed", "<title>  Acme\n  Motors  </title>", "Acme Motors"},
		{"no title tag", "<html><body>plain</body></html>", ""},
		{"unterminated title", "<title>Acme Motors", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dealerNameFromTitle(tt.html))
		})
	}
}
