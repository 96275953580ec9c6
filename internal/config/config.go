package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	BarcodeAPIURL      string `env:"BARCODE_API_URL,required=true"`
	RequestTimeoutMS   int    `env:"REQUEST_TIMEOUT_MS,default=10000"`
	BatchIntervalMS    int    `env:"BATCH_INTERVAL_MS,default=300"`
	DownloadIntervalMS int    `env:"DOWNLOAD_INTERVAL_MS,default=500"`
	OutputDir          string `env:"OUTPUT_DIR,default=barcodes"`
	APIPort            int    `env:"API_PORT,default=8080"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.BarcodeAPIURL = strings.TrimSpace(c.BarcodeAPIURL)
	if c.BarcodeAPIURL == "" {
		return fmt.Errorf("BARCODE_API_URL is required")
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be positive, got %d", c.RequestTimeoutMS)
	}
	if c.BatchIntervalMS < 0 {
		return fmt.Errorf("BATCH_INTERVAL_MS must not be negative, got %d", c.BatchIntervalMS)
	}
	if c.DownloadIntervalMS < 0 {
		return fmt.Errorf("DOWNLOAD_INTERVAL_MS must not be negative, got %d", c.DownloadIntervalMS)
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// BatchInterval is the pause between generate requests in a batch.
func (c *Config) BatchInterval() time.Duration {
	return time.Duration(c.BatchIntervalMS) * time.Millisecond
}

// DownloadInterval is the pause between downloads in a bulk download.
func (c *Config) DownloadInterval() time.Duration {
	return time.Duration(c.DownloadIntervalMS) * time.Millisecond
}
