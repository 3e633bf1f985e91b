package main

import (
	"database/sql"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hpungsan/linkbot/internal/config"
	"github.com/hpungsan/linkbot/internal/db"
)

// appState carries what subcommands share: the resolved config, the logger
// and, once opened, the database.
type appState struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	ownsDB bool
	getenv func(string) string
}

// load resolves configuration: defaults, then the config file, then
// environment variables, then an explicit --db flag.
func (s *appState) load(configPath, dbPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(defaultBaseDir())
	}
	if err != nil {
		return err
	}

	if s.getenv != nil {
		cfg = config.ApplyEnv(cfg, s.getenv)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(defaultBaseDir(), config.DBFileName)
	}

	s.cfg = cfg
	return nil
}

// openDB opens the configured database. It never creates the file; a missing
// database is DATABASE_MISSING so a wrong path fails at startup.
func (s *appState) openDB() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	database, err := db.Open(s.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	db.ConfigurePool(database, s.cfg)
	s.db = database
	s.ownsDB = true
	return database, nil
}

func (s *appState) close() {
	if s.ownsDB && s.db != nil {
		s.db.Close()
		s.db = nil
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// defaultBaseDir returns ~/.linkbot, or .linkbot when the home directory is unknown.
func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linkbot"
	}
	return filepath.Join(home, ".linkbot")
}

// newLogger builds the production logger. Output goes to stderr so stdout
// stays clean for JSON results and the MCP stdio transport.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
