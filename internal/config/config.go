package config

import (
	"fmt"
	"time"

	"github.com/veranemoloko/channel-covers/internal/validation"
)

// Config holds all application configuration settings.
type Config struct {
	APIKey string `envconfig:"YOUTUBE_API_KEY" required:"true" validate:"required"`

	APIBaseURL   string        `envconfig:"CC_API_BASE_URL" default:"https://www.googleapis.com/youtube/v3" validate:"required,url"`
	ImageBaseURL string        `envconfig:"CC_IMAGE_BASE_URL" default:"https://img.youtube.com" validate:"required,url"`
	HTTPTimeout  time.Duration `envconfig:"CC_HTTP_TIMEOUT" default:"0s"`

	Concurrency   int   `envconfig:"CC_CONCURRENCY" default:"0" validate:"gte=0"`
	MaxPages      int   `envconfig:"CC_MAX_PAGES" default:"0" validate:"gte=0"`
	MaxImageBytes int64 `envconfig:"CC_MAX_IMAGE_BYTES" default:"0" validate:"gte=0"`

	ReportFile  string `envconfig:"CC_REPORT_FILE"`
	MetricsFile string `envconfig:"CC_METRICS_FILE"`

	LogLevel  string `envconfig:"CC_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"CC_LOG_FORMAT" default:"text"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("HTTP timeout cannot be negative: %s", c.HTTPTimeout)
	}

	if err := validation.Struct(c); err != nil {
		return err
	}

	return nil
}
