package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scrape        ScrapeConfig        `yaml:"scrape" mapstructure:"scrape"`
	Input         InputConfig         `yaml:"input" mapstructure:"input"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Normalize     NormalizeConfig     `yaml:"normalize" mapstructure:"normalize"`
	Evidence      EvidenceConfig      `yaml:"evidence" mapstructure:"evidence"`
	Census        CensusConfig        `yaml:"census" mapstructure:"census"`
	MultiLocation MultiLocationConfig `yaml:"multi_location" mapstructure:"multi_location"`
	Checkpoint    CheckpointConfig    `yaml:"checkpoint" mapstructure:"checkpoint"`
	Fingerprints  FingerprintConfig   `yaml:"fingerprints" mapstructure:"fingerprints"`
	Debug         DebugConfig         `yaml:"debug" mapstructure:"debug"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// ScrapeConfig configures fetching behavior and politeness.
type ScrapeConfig struct {
	MaxConcurrent        int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	PageTimeoutMs        int     `yaml:"page_timeout_ms" mapstructure:"page_timeout_ms"`
	DelayBetweenPagesSec float64 `yaml:"delay_between_pages_sec" mapstructure:"delay_between_pages_sec"`
	RetryAttempts        int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RespectRobotsTxt     bool    `yaml:"respect_robots_txt" mapstructure:"respect_robots_txt"`
	Headless             bool    `yaml:"headless" mapstructure:"headless"`
	UserAgent            string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// InputConfig supplies target URLs when no CLI source is given.
type InputConfig struct {
	URLs      []string `yaml:"urls" mapstructure:"urls"`
	URLFile   string   `yaml:"url_file" mapstructure:"url_file"`
	CSVFile   string   `yaml:"csv_file" mapstructure:"csv_file"`
	CSVColumn string   `yaml:"csv_column" mapstructure:"csv_column"`
}

// OutputConfig configures the report file.
type OutputConfig struct {
	File     string `yaml:"output_file" mapstructure:"output_file"`
	Timezone string `yaml:"timezone" mapstructure:"timezone"`
	Locale   string `yaml:"locale" mapstructure:"locale"`
}

// NormalizeConfig toggles the individual normalizers.
type NormalizeConfig struct {
	Phone bool `yaml:"phone" mapstructure:"phone"`
	Hours bool `yaml:"hours" mapstructure:"hours"`
	URLs  bool `yaml:"urls" mapstructure:"urls"`
}

// EvidenceConfig configures evidence capture.
type EvidenceConfig struct {
	LinksRequired           bool `yaml:"links_required" mapstructure:"links_required"`
	CaptureConfidenceScores bool `yaml:"capture_confidence_scores" mapstructure:"capture_confidence_scores"`
}

// CensusConfig configures the county lookup.
type CensusConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	APIURL  string `yaml:"api_url" mapstructure:"api_url"`
}

// MultiLocationConfig configures multi-location dealer handling.
type MultiLocationConfig struct {
	Enabled                 bool `yaml:"enabled" mapstructure:"enabled"`
	MaxLocationsPerSite     int  `yaml:"max_locations_per_site" mapstructure:"max_locations_per_site"`
	UseRegionalCountyLabels bool `yaml:"use_regional_county_labels" mapstructure:"use_regional_county_labels"`
}

// CheckpointConfig configures session persistence.
type CheckpointConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Retention int    `yaml:"retention" mapstructure:"retention"`
}

// FingerprintConfig points at external fingerprint tables. Empty paths use
// the embedded defaults.
type FingerprintConfig struct {
	ProviderFile string `yaml:"provider_file" mapstructure:"provider_file"`
	CreditFile   string `yaml:"credit_file" mapstructure:"credit_file"`
}

// DebugConfig configures debug capture.
type DebugConfig struct {
	Mode            bool   `yaml:"mode" mapstructure:"mode"`
	SaveScreenshots bool   `yaml:"save_screenshots" mapstructure:"save_screenshots"`
	SaveHTML        bool   `yaml:"save_html" mapstructure:"save_html"`
	HTMLDir         string `yaml:"html_dir" mapstructure:"html_dir"`
	LogFile         string `yaml:"log_file" mapstructure:"log_file"`
	LogNetwork      bool   `yaml:"log_network" mapstructure:"log_network"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEALERSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scrape.max_concurrent", 3)
	v.SetDefault("scrape.page_timeout_ms", 30000)
	v.SetDefault("scrape.delay_between_pages_sec", 1.0)
	v.SetDefault("scrape.retry_attempts", 3)
	v.SetDefault("scrape.respect_robots_txt", true)
	v.SetDefault("scrape.headless", true)
	v.SetDefault("scrape.user_agent", "")
	v.SetDefault("input.csv_column", "website")
	v.SetDefault("output.output_file", "dealers.md")
	v.SetDefault("output.timezone", "America/Chicago")
	v.SetDefault("output.locale", "en-US")
	v.SetDefault("normalize.phone", true)
	v.SetDefault("normalize.hours", true)
	v.SetDefault("normalize.urls", true)
	v.SetDefault("evidence.links_required", true)
	v.SetDefault("evidence.capture_confidence_scores", true)
	v.SetDefault("census.enabled", true)
	v.SetDefault("census.api_url", "https://geocoding.geo.census.gov/geocoder")
	v.SetDefault("multi_location.enabled", false)
	v.SetDefault("multi_location.max_locations_per_site", 5)
	v.SetDefault("multi_location.use_regional_county_labels", true)
	v.SetDefault("checkpoint.dir", ".checkpoints")
	v.SetDefault("checkpoint.retention", 5)
	v.SetDefault("debug.html_dir", "debug_html")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
