// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Storage StorageConfig `mapstructure:"storage"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CrawlerConfig governs the portal client and the crawl pipeline.
type CrawlerConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	PDFBaseURL       string        `mapstructure:"pdf_base_url"`
	UserAgent        string        `mapstructure:"user_agent"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	RequestsPerSec   float64       `mapstructure:"requests_per_second"`
	PageDelay        time.Duration `mapstructure:"page_delay"`
	CombinationDelay time.Duration `mapstructure:"combination_delay"`
	DownloadWorkers  int           `mapstructure:"download_workers"`
	QueueDepth       int           `mapstructure:"queue_depth"`
	CombinationsFile string        `mapstructure:"combinations_file"`
}

// StorageConfig selects and parameterizes the blob sink.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
}

// NotifyConfig parameterizes the optional upload notification queue.
type NotifyConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicID   string `mapstructure:"topic_id"`
}

// ArchiveConfig sets where raw bodies of malformed pages are dumped.
type ArchiveConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COURTCRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.base_url", "https://dhcbkp.nic.in/FreeText/Casecatsearch.do?scode=31&fflag=1")
	v.SetDefault("crawler.pdf_base_url", "https://dhccaseinfo.nic.in/")
	v.SetDefault("crawler.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	v.SetDefault("crawler.request_timeout", "10s")
	v.SetDefault("crawler.requests_per_second", 0.0)
	v.SetDefault("crawler.page_delay", "1s")
	v.SetDefault("crawler.combination_delay", "2s")
	v.SetDefault("crawler.download_workers", 4)
	v.SetDefault("crawler.queue_depth", 64)
	v.SetDefault("crawler.combinations_file", "combinations.csv")
	v.SetDefault("storage.provider", "noop")
	v.SetDefault("storage.prefix", "judgements")
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("archive.dir", "debug_html")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawler.BaseURL == "" {
		return fmt.Errorf("crawler.base_url must be set")
	}
	if c.Crawler.PDFBaseURL == "" {
		return fmt.Errorf("crawler.pdf_base_url must be set")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.Crawler.RequestsPerSec < 0 {
		return fmt.Errorf("crawler.requests_per_second must be >= 0")
	}
	if c.Crawler.PageDelay < 0 {
		return fmt.Errorf("crawler.page_delay must be >= 0")
	}
	if c.Crawler.CombinationDelay < 0 {
		return fmt.Errorf("crawler.combination_delay must be >= 0")
	}
	if c.Crawler.DownloadWorkers <= 0 {
		return fmt.Errorf("crawler.download_workers must be > 0")
	}
	if c.Crawler.QueueDepth <= 0 {
		return fmt.Errorf("crawler.queue_depth must be > 0")
	}
	if c.Crawler.CombinationsFile == "" {
		return fmt.Errorf("crawler.combinations_file must be set")
	}
	if c.Storage.Provider == "gcs" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket must be set when storage.provider is gcs")
	}
	if c.Notify.Provider == "pubsub" && (c.Notify.ProjectID == "" || c.Notify.TopicID == "") {
		return fmt.Errorf("notify.project_id and notify.topic_id must be set when notify.provider is pubsub")
	}
	return nil
}
