package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scoutline/scoutline/internal/config"
	"github.com/scoutline/scoutline/internal/engine"
	"github.com/scoutline/scoutline/internal/source"
	"github.com/scoutline/scoutline/internal/storage"
	"github.com/scoutline/scoutline/internal/storage/postgres"
	"github.com/scoutline/scoutline/internal/storage/sqlite"
)

var version = "0.1.0"

var (
	// Global flags available to all commands
	flagSession   string
	flagStorage   string
	flagDataPath  string
	flagEphemeral bool
	flagJSON      bool

	// Candidate source flags shared by the session REPL and the agent loop
	seedPath string
	watchDir string
)

// rootCmd is the base command. Called bare it drops into the session REPL.
var rootCmd = &cobra.Command{
	Use:   "scoutline",
	Short: "Scoutline - terminal deal-sourcing copilot",
	Long: `Scoutline watches a stream of sourcing candidates (people, companies,
raw market signals), learns your taste from explicit feedback, and scores
every new candidate 0-100 with human-readable reasons. The learning loop
is purely local; state persists to SQLite by default.

Running scoutline with no subcommand opens the interactive session REPL.

Core Commands:
  session      Interactive triage REPL (the default)
  agent        Rate-limited scoring loop over a seed file or drop directory
  serve        Local HTTP API + websocket activity feed
  score        Score one candidate from a file
  rank         Rank a batch of candidates from a seed file
  stats        Session statistics
  prefs        Learned preference weights
  export       Write the preference-pairs training document
  clear        Wipe all learned history`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runSession,
}

// Execute runs the root command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSession, "session", "", "Session ID (overrides SCOUTLINE_SESSION_ID)")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "Storage engine: memory, sqlite, or postgres (overrides SCOUTLINE_STORAGE_ENGINE)")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data-path", "", "Data directory for the SQLite store (overrides SCOUTLINE_DATA_PATH)")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Use the in-memory store; nothing persists")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Emit JSON instead of human-readable output")

	addSourceFlags(rootCmd)
}

// addSourceFlags registers --seed/--watch on a command, binding the shared
// destinations so the root command and the session subcommand stay in sync.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&seedPath, "seed", "", "Seed file of candidate envelopes (.json, .yaml, .yml)")
	cmd.Flags().StringVar(&watchDir, "watch", "", "Drop directory to watch for candidate .json files")
}

// loadCLIConfig loads the environment configuration and applies flag
// overrides before validating.
func loadCLIConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flagSession != "" {
		cfg.Session.SessionID = flagSession
	}
	if flagStorage != "" {
		cfg.Storage.StorageEngine = flagStorage
	}
	if flagDataPath != "" {
		cfg.Storage.DataPath = flagDataPath
	}
	if flagEphemeral {
		cfg.Storage.StorageEngine = "memory"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openStore builds the configured session store, wrapped in the circuit
// breaker so a failing backend cannot stall the session.
func openStore(cfg *config.Config) (storage.SessionStore, error) {
	var inner storage.SessionStore

	switch cfg.Storage.StorageEngine {
	case "memory":
		inner = storage.NewMemoryStore()

	case "sqlite":
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o700); err != nil {
			return nil, fmt.Errorf("create data path: %w", err)
		}
		s, err := sqlite.NewSessionStore(sqlite.DefaultPath(cfg.Storage.DataPath))
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		inner = s

	case "postgres":
		s, err := postgres.NewSessionStore(cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if !s.PgvectorAvailable() {
			log.Printf("scoutline: postgres vector extension unavailable, liked embeddings stored as bytes only")
		}
		inner = s

	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Storage.StorageEngine)
	}

	return storage.NewBreakerStore(inner), nil
}

// startEngine opens the store and starts a session engine over it. The
// engine owns the store from here on: Shutdown closes it.
func startEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	engCfg := engine.DefaultConfig()
	engCfg.SessionID = cfg.Session.SessionID
	engCfg.LedgerCap = cfg.Session.LedgerCap

	eng, err := engine.New(store, engCfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := eng.Start(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return eng, nil
}

// shutdownEngine flushes pending state and closes the store, logging rather
// than failing: by this point the command's work is already done.
func shutdownEngine(eng *engine.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eng.Shutdown(ctx); err != nil {
		log.Printf("scoutline: engine shutdown: %v", err)
	}
}

// openSource builds the candidate source selected by --seed/--watch.
// Returns (nil, nil) when neither flag is set.
func openSource(seed, watch string) (source.Source, error) {
	switch {
	case seed != "" && watch != "":
		return nil, fmt.Errorf("--seed and --watch are mutually exclusive")
	case seed != "":
		return source.NewFileSource(seed)
	case watch != "":
		ws := source.NewWatchSource(watch)
		if err := ws.Start(); err != nil {
			return nil, fmt.Errorf("watch %s: %w", watch, err)
		}
		return ws, nil
	default:
		return nil, nil
	}
}

// readInput reads a file argument, treating "-" as stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
