// Package config loads LearnTrack settings from flags, environment
// variables, an optional config file, and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/form"
	"github.com/abhisek/learntrack/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. LEARNTRACK_BASE_URL.
const EnvPrefix = "LEARNTRACK"

// Keys understood by Load.
const (
	KeyBaseURL     = "base_url"
	KeyUserID      = "user_id"
	KeyTimeout     = "timeout"
	KeyLogFile     = "log_file"
	KeyLogMode     = "log_mode"
	KeyJournal     = "journal"
	KeyJournalPath = "journal_path"
)

// Config is the resolved application configuration.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserID      string        `mapstructure:"user_id"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogFile     string        `mapstructure:"log_file"`
	LogMode     string        `mapstructure:"log_mode"`
	Journal     bool          `mapstructure:"journal"`
	JournalPath string        `mapstructure:"journal_path"`

	// ConfigFile is the file that was read, "" when none was.
	ConfigFile string `mapstructure:"-"`
}

// Default returns the built-in configuration. Empty paths are resolved to
// their XDG locations by the logger and store packages.
func Default() Config {
	return Config{
		BaseURL: api.DefaultBaseURL,
		UserID:  form.DefaultUserID,
		LogMode: logger.ModeDevelopment,
	}
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	switch c.LogMode {
	case logger.ModeDevelopment, logger.ModeProduction:
	default:
		return fmt.Errorf("invalid log_mode %q: want %q or %q", c.LogMode, logger.ModeDevelopment, logger.ModeProduction)
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be empty")
	}
	return nil
}

// FlagName returns the command-line flag for a config key, e.g. "base-url".
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagName(KeyBaseURL), d.BaseURL, "backend origin")
	fs.String(FlagName(KeyUserID), d.UserID, "default user id for submissions")
	fs.Duration(FlagName(KeyTimeout), 0, "per-call HTTP timeout (0 = none)")
	fs.String(FlagName(KeyLogFile), "", "log file path (default $XDG_STATE_HOME/learntrack/learntrack.log)")
	fs.String(FlagName(KeyLogMode), d.LogMode, "log preset: development or production")
	fs.Bool(FlagName(KeyJournal), false, "record every backend call in the local journal")
	fs.String(FlagName(KeyJournalPath), "", "journal database path (default $XDG_DATA_HOME/learntrack/journal.db)")
}

// Load resolves the configuration. configFile may be empty, in which case
// only flags, environment, and defaults apply. fs may be nil.
func Load(configFile string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyUserID, d.UserID)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyLogMode, d.LogMode)
	v.SetDefault(KeyJournal, d.Journal)
	v.SetDefault(KeyJournalPath, d.JournalPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range []string{KeyBaseURL, KeyUserID, KeyTimeout, KeyLogFile, KeyLogMode, KeyJournal, KeyJournalPath} {
			if f := fs.Lookup(FlagName(key)); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", key, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
