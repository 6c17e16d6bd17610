// Package config loads cardgen settings from an optional config file, a
// .env file and BIZCARD_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	bizcard "github.com/porticus-lab/go-bizcard"
)

// EnvPrefix prefixes every environment variable, e.g. BIZCARD_API_BASE_URL.
const EnvPrefix = "BIZCARD"

// Capture modes.
const (
	CaptureChrome = "chrome"
	CaptureRaster = "raster"
	CaptureNone   = "none"
)

// Config is the complete runtime configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Chrome  ChromeConfig  `mapstructure:"chrome"`
	Capture CaptureConfig `mapstructure:"capture"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Theme   ThemeConfig   `mapstructure:"theme"`
}

// APIConfig locates the staff API.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChromeConfig controls the headless browser.
type ChromeConfig struct {
	Path         string        `mapstructure:"path"`
	NoSandbox    bool          `mapstructure:"no_sandbox"`
	AutoDownload bool          `mapstructure:"auto_download"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CaptureConfig selects how faces are rasterized before printing.
type CaptureConfig struct {
	Mode       string  `mapstructure:"mode"`
	PixelRatio float64 `mapstructure:"pixel_ratio"`
	Background string  `mapstructure:"background"`
}

// Options converts the capture settings.
func (c CaptureConfig) Options() bizcard.CaptureOptions {
	return bizcard.CaptureOptions{PixelRatio: c.PixelRatio, BackgroundColor: c.Background}
}

// ServerConfig is the preview server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig controls logging. An empty Dir logs to stdout only.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ThemeConfig holds the default card theme.
type ThemeConfig struct {
	Color string `mapstructure:"color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 15*time.Second)

	v.SetDefault("chrome.path", "")
	v.SetDefault("chrome.no_sandbox", false)
	v.SetDefault("chrome.auto_download", false)
	v.SetDefault("chrome.timeout", 30*time.Second)

	v.SetDefault("capture.mode", CaptureChrome)
	v.SetDefault("capture.pixel_ratio", bizcard.DefaultPixelRatio)
	v.SetDefault("capture.background", bizcard.DefaultCaptureBackdrop)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", true)

	v.SetDefault("theme.color", bizcard.DefaultThemeColor)
}

// Load reads the configuration. A .env file in the working directory is
// applied first when present; variables already set in the environment
// win over it. file is an optional YAML, JSON or TOML config file.
func Load(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error
	if _, err := bizcard.ParseHex(c.Theme.Color); err != nil {
		errs = append(errs, fmt.Errorf("theme.color: %w", err))
	}
	if _, err := bizcard.ParseHex(c.Capture.Background); err != nil {
		errs = append(errs, fmt.Errorf("capture.background: %w", err))
	}
	if c.Capture.PixelRatio <= 0 || c.Capture.PixelRatio > bizcard.MaxPixelRatio {
		errs = append(errs, fmt.Errorf("capture.pixel_ratio: %v out of range (0, %v]", c.Capture.PixelRatio, bizcard.MaxPixelRatio))
	}
	switch c.Capture.Mode {
	case CaptureChrome, CaptureRaster, CaptureNone:
	default:
		errs = append(errs, fmt.Errorf("capture.mode: unknown mode %q", c.Capture.Mode))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout: must be positive"))
	}
	if c.Log.Dir != "" && (c.Log.MaxSizeMB <= 0 || c.Log.MaxBackups <= 0 || c.Log.MaxAgeDays <= 0) {
		errs = append(errs, fmt.Errorf("log: invalid rotation size=%d backups=%d age_days=%d",
			c.Log.MaxSizeMB, c.Log.MaxBackups, c.Log.MaxAgeDays))
	}
	return errors.Join(errs...)
}
