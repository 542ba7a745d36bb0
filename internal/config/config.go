package config

import (
	"os"
	"strconv"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/taxonomy"
)

// Config holds all tweetcode configuration.
type Config struct {
	Data    DataConfig
	Logging LoggingConfig
}

// DataConfig holds file locations and table settings.
type DataConfig struct {
	Source        string
	Taxonomy      string
	Export        string
	Sheet         string
	PreviewLength int
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Data: DataConfig{
			Source:        getenv("TWEETCODE_SOURCE", tweetcode.DefaultSource),
			Taxonomy:      getenv("TWEETCODE_TAXONOMY", taxonomy.DefaultPath),
			Export:        getenv("TWEETCODE_EXPORT", tweetcode.DefaultExportName),
			Sheet:         os.Getenv("TWEETCODE_SHEET"),
			PreviewLength: getenvInt("TWEETCODE_PREVIEW_LENGTH", tweetcode.DefaultPreviewLength),
		},
		Logging: LoggingConfig{
			Level:  getenv("TWEETCODE_LOG_LEVEL", "info"),
			Format: getenv("TWEETCODE_LOG_FORMAT", "text"),
		},
	}
}

// Options converts the data settings into library options.
func (c Config) Options() tweetcode.Options {
	opts := tweetcode.DefaultOptions()
	opts.DefaultSource = c.Data.Source
	opts.SheetName = c.Data.Sheet
	opts.PreviewLength = c.Data.PreviewLength
	return opts
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
