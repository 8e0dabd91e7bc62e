package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/trivial-reminder/internal/config"
	"github.com/Tiliavir/trivial-reminder/internal/definitions"
	"github.com/Tiliavir/trivial-reminder/internal/matcher"
	"github.com/Tiliavir/trivial-reminder/internal/storage"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "trm",
	Short: "Trivial Reminder – turn plain sentences into reminders",
	Long: `trm reads reminders written as plain text, e.g.

  trm add in 3 days at 14:00 call mom

and stores them with an absolute due date. Phrasings are defined by
templates and dictionaries; see ~/.trm/config.json.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.trm/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log template matching details to stderr")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(definitionsCmd)
}

// exit prints err and terminates with code: 1 for rejected input,
// 2 for configuration or storage failures.
func exit(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func loadConfig() config.Config {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			exit(2, err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		exit(2, err)
	}
	return cfg
}

// now returns the current time in the configured timezone.
func now(cfg config.Config) time.Time {
	loc, err := cfg.Location()
	if err != nil {
		exit(2, err)
	}
	return time.Now().In(loc)
}

func loadDefinitions(cfg config.Config) *definitions.Set {
	set, err := definitions.Load(cfg.DefinitionPaths())
	if err != nil {
		exit(2, err)
	}
	return set
}

func loadEngine(cfg config.Config, log *zap.Logger) *matcher.Engine {
	return loadDefinitions(cfg).Engine(
		matcher.WithFillerWords(cfg.Parser.FillerWords...),
		matcher.WithLogger(log),
	)
}

func openStore(cfg config.Config) storage.Store {
	base, err := storage.BaseDir()
	if err != nil {
		exit(2, err)
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		return storage.NewFileStore(base)
	}

	path := cfg.Storage.SQLitePath
	if path == "" {
		path = filepath.Join(base, "reminders.db")
	}
	loc, err := cfg.Location()
	if err != nil {
		exit(2, err)
	}
	store, err := storage.OpenSQL(path, loc)
	if err != nil {
		exit(2, err)
	}
	return store
}
