package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{KeyBaseURL, KeyUserID, KeyTimeout, KeyLogFile, KeyLogMode, KeyJournal, KeyJournalPath} {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(key), "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, "default_user", cfg.UserID)
	assert.Zero(t, cfg.Timeout)
	assert.Equal(t, "development", cfg.LogMode)
	assert.False(t, cfg.Journal)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "learntrack.yaml", `
base_url: https://predict.example.com
user_id: learner-9
timeout: 15s
journal: true
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://predict.example.com", cfg.BaseURL)
	assert.Equal(t, "learner-9", cfg.UserID)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.True(t, cfg.Journal)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "learntrack.json", `{"base_url":"http://file:1","user_id":"from-file","log_mode":"production"}`)
	t.Setenv("LEARNTRACK_BASE_URL", "http://env:2")
	t.Setenv("LEARNTRACK_USER_ID", "from-env")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--base-url", "http://flag:3"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:3", cfg.BaseURL, "flag beats env and file")
	assert.Equal(t, "from-env", cfg.UserID, "env beats file")
	assert.Equal(t, "production", cfg.LogMode, "file beats default")
}

func TestLoad_UnchangedFlagsKeepDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", newFlags())
	require.NoError(t, err)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
	assert.Equal(t, Default().UserID, cfg.UserID)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEARNTRACK_BASE_URL", "ftp://nowhere")
	_, err := Load("", nil)
	assert.ErrorContains(t, err, "scheme")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"https", func(c *Config) { c.BaseURL = "https://x.example" }, false},
		{"unparseable url", func(c *Config) { c.BaseURL = "http://[::1" }, true},
		{"no scheme", func(c *Config) { c.BaseURL = "localhost:8000" }, true},
		{"no host", func(c *Config) { c.BaseURL = "http://" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"bad log mode", func(c *Config) { c.LogMode = "verbose" }, true},
		{"blank user", func(c *Config) { c.UserID = "  " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
