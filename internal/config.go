package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rm-hull/image-enhancer/internal/imageio"
)

type Config struct {
	MaxUploadBytes int64
	MaxPixels      int64
	SessionTTL     time.Duration
	PreviewMax     int
	CompareDelay   float64
	LogLevel       string
	LogFormat      string
}

func DefaultConfig() *Config {
	return &Config{
		MaxUploadBytes: 32 << 20,
		MaxPixels:      40_000_000,
		SessionTTL:     30 * time.Minute,
		PreviewMax:     512,
		CompareDelay:   1.0,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// LoadConfig overlays any ENHANCER_* environment variables onto the
// defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("ENHANCER_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ENHANCER_MAX_UPLOAD_BYTES %q", v)
		}
		cfg.MaxUploadBytes = n
	}

	if v := os.Getenv("ENHANCER_MAX_PIXELS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ENHANCER_MAX_PIXELS %q", v)
		}
		cfg.MaxPixels = n
	}

	if v := os.Getenv("ENHANCER_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ENHANCER_SESSION_TTL %q: %w", v, err)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("ENHANCER_PREVIEW_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ENHANCER_PREVIEW_MAX %q", v)
		}
		cfg.PreviewMax = n
	}

	if v := os.Getenv("ENHANCER_COMPARE_DELAY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > imageio.MaxFrameDelay {
			return nil, fmt.Errorf("invalid ENHANCER_COMPARE_DELAY %q", v)
		}
		cfg.CompareDelay = f
	}

	if v := os.Getenv("ENHANCER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ENHANCER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg, nil
}
