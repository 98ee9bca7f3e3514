package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/working-day-service/pkg/dateutil"
	"github.com/username/working-day-service/pkg/workingday/dayofweek"
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid config")

// Source types
const (
	SourceDayOfWeek    = "day_of_week"
	SourceFile         = "file"
	SourceHTTP         = "http"
	SourceBankHolidays = "bank_holidays"
	SourceUSHolidays   = "us_holidays"
	SourceIsDayOff     = "isdayoff"
)

// Document formats for file and http sources
const (
	FormatDates    = "dates"
	FormatDayTable = "day_table"
)

// Modes select how listed dates are interpreted
const (
	ModeListed    = "listed"     // listed dates are working days
	ModeNotListed = "not_listed" // listed dates are non-working days
)

// Config represents application configuration
type Config struct {
	Log     LogConfig      `mapstructure:"log"`
	Daemon  DaemonConfig   `mapstructure:"daemon"`
	Sources []SourceConfig `mapstructure:"sources"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DaemonConfig represents watch mode configuration
type DaemonConfig struct {
	ReportInterval string `mapstructure:"report_interval"`
}

// SourceConfig describes one working day source
type SourceConfig struct {
	Type string `mapstructure:"type"`

	// day_of_week
	Days []string `mapstructure:"days"`

	// file
	Path string `mapstructure:"path"`

	// file and http
	Format string `mapstructure:"format"` // "dates" or "day_table"
	Mode   string `mapstructure:"mode"`   // "listed" or "not_listed"

	// http and bank_holidays
	URL             string            `mapstructure:"url"`
	Method          string            `mapstructure:"method"`
	Headers         map[string]string `mapstructure:"headers"`
	Body            string            `mapstructure:"body"`
	RefreshInterval string            `mapstructure:"refresh_interval"`
	Timeout         string            `mapstructure:"timeout"`
	Retries         *int              `mapstructure:"retries"`

	// bank_holidays
	Division string `mapstructure:"division"`

	// isdayoff
	Year    int    `mapstructure:"year"`
	Country string `mapstructure:"country"`
}

// Load loads configuration from configPath, or searches the default
// locations when configPath is empty. A missing file is only an error
// when configPath is given.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("daemon.report_interval", "1h")

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.workingday")
		v.AddConfigPath("/etc/workingday")
	}

	// Read environment variables, e.g. WORKINGDAY_LOG_LEVEL
	v.SetEnvPrefix("WORKINGDAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if len(c.Sources) == 0 {
		c.Sources = []SourceConfig{{Type: SourceDayOfWeek}}
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		switch s.Type {
		case SourceFile, SourceHTTP:
			if s.Format == "" {
				s.Format = FormatDates
			}
			if s.Mode == "" {
				s.Mode = ModeNotListed
			}
		}
		if s.Type == SourceHTTP && s.Method == "" {
			s.Method = "GET"
		}
	}
}

// Validate returns the first problem found in the configuration
func (c *Config) Validate() error {
	if c.Daemon.ReportInterval != "" {
		if d, err := time.ParseDuration(c.Daemon.ReportInterval); err != nil || d <= 0 {
			return fmt.Errorf("%w: daemon.report_interval must be a positive duration, got %q", ErrInvalidConfig, c.Daemon.ReportInterval)
		}
	}

	for i, s := range c.Sources {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: sources[%d]: %s", ErrInvalidConfig, i, err)
		}
	}

	return nil
}

func (s *SourceConfig) validate() error {
	switch s.Type {
	case SourceDayOfWeek:
		for _, day := range s.Days {
			if _, err := dateutil.ParseWeekday(day); err != nil {
				return err
			}
		}

	case SourceFile:
		if s.Path == "" {
			return fmt.Errorf("path is required for %s source", s.Type)
		}
		if err := s.validateDocument(); err != nil {
			return err
		}

	case SourceHTTP:
		if s.URL == "" {
			return fmt.Errorf("url is required for %s source", s.Type)
		}
		if err := s.validateDocument(); err != nil {
			return err
		}
		if err := s.validateNetwork(); err != nil {
			return err
		}

	case SourceBankHolidays:
		if err := s.validateNetwork(); err != nil {
			return err
		}

	case SourceIsDayOff:
		if s.Year < 0 {
			return fmt.Errorf("year must not be negative")
		}
		if err := s.validateNetwork(); err != nil {
			return err
		}

	case SourceUSHolidays:

	case "":
		return fmt.Errorf("type is required")

	default:
		return fmt.Errorf("unknown source type %q", s.Type)
	}

	return nil
}

func (s *SourceConfig) validateDocument() error {
	if s.Format != FormatDates && s.Format != FormatDayTable {
		return fmt.Errorf("format must be '%s' or '%s', got '%s'", FormatDates, FormatDayTable, s.Format)
	}
	if s.Mode != ModeListed && s.Mode != ModeNotListed {
		return fmt.Errorf("mode must be '%s' or '%s', got '%s'", ModeListed, ModeNotListed, s.Mode)
	}
	return nil
}

func (s *SourceConfig) validateNetwork() error {
	durations := []struct{ name, value string }{
		{"refresh_interval", s.RefreshInterval},
		{"timeout", s.Timeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		if parsed, err := time.ParseDuration(d.value); err != nil || parsed <= 0 {
			return fmt.Errorf("%s must be a positive duration, got %q", d.name, d.value)
		}
	}
	if s.Retries != nil && *s.Retries < 0 {
		return fmt.Errorf("retries must not be negative")
	}
	return nil
}

// GetReportInterval returns the watch mode report interval. Default: 1h
func (c *DaemonConfig) GetReportInterval() time.Duration {
	return parseDuration(c.ReportInterval, time.Hour)
}

// GetRefreshInterval returns the refresh interval of a network source.
// Default: 24h for holiday feeds, 1h otherwise.
func (s *SourceConfig) GetRefreshInterval() time.Duration {
	if s.Type == SourceBankHolidays || s.Type == SourceIsDayOff {
		return parseDuration(s.RefreshInterval, 24*time.Hour)
	}
	return parseDuration(s.RefreshInterval, time.Hour)
}

// GetTimeout returns the per-request timeout. Default: 30s
func (s *SourceConfig) GetTimeout() time.Duration {
	return parseDuration(s.Timeout, 30*time.Second)
}

// GetRetries returns the retry count. Default: 3
func (s *SourceConfig) GetRetries() int {
	if s.Retries == nil {
		return 3
	}
	return *s.Retries
}

// GetDays returns the configured weekdays. Default: Monday to Friday
func (s *SourceConfig) GetDays() []time.Weekday {
	if len(s.Days) == 0 {
		return append([]time.Weekday(nil), dayofweek.MondayToFriday...)
	}
	days := make([]time.Weekday, 0, len(s.Days))
	for _, name := range s.Days {
		if day, err := dateutil.ParseWeekday(name); err == nil {
			days = append(days, day)
		}
	}
	return days
}

// ExpandEnvVars expands environment variables in paths, URLs and headers
func (c *Config) ExpandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
	for i := range c.Sources {
		s := &c.Sources[i]
		s.Path = os.ExpandEnv(s.Path)
		s.URL = os.ExpandEnv(s.URL)
		for k, v := range s.Headers {
			s.Headers[k] = os.ExpandEnv(v)
		}
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
