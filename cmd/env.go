package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/config"
	"github.com/abhisek/learntrack/internal/dashboard"
	"github.com/abhisek/learntrack/internal/logger"
	"github.com/abhisek/learntrack/internal/store"
)

// env holds the dependencies shared by the commands.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
	orch  *dashboard.Orchestrator
}

// loadConfig resolves the configuration from the command's flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newEnv builds the logger, the optional journal and the backend client.
// The TUI owns the terminal, so it logs to a file; other commands log to stderr.
func newEnv(cmd *cobra.Command, logToFile bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logPath := ""
	if logToFile {
		logPath = cfg.LogFile
		if logPath == "" {
			if logPath, err = logger.DefaultPath(); err != nil {
				return nil, fmt.Errorf("resolve log path: %w", err)
			}
		}
	}
	log, err := logger.New(logger.Options{Mode: cfg.LogMode, Path: logPath})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	e := &env{cfg: cfg, log: log}

	// A nil interface, not a typed nil, keeps the journal off.
	var journal store.CallRepo
	if cfg.Journal {
		st, err := openJournal(cfg)
		if err != nil {
			return nil, err
		}
		e.store = st
		journal = st.CallRepo()
	}

	httpClient := &http.Client{Transport: api.WithLogging(nil, log, journal)}
	client, err := api.NewHTTPClient(cfg.BaseURL,
		api.WithHTTPClient(httpClient),
		api.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("create client: %w", err)
	}
	e.orch = dashboard.NewOrchestrator(client, log)

	log.Debug("environment ready",
		"base_url", cfg.BaseURL,
		"config_file", cfg.ConfigFile,
		"journal", cfg.Journal,
		"timeout", cfg.Timeout.String(),
	)
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
	e.log.Sync()
}

// openJournal opens the call journal at the configured or default path.
func openJournal(cfg config.Config) (*store.Store, error) {
	path := cfg.JournalPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve journal path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}
