// main is the entry point of the course registration program.
//
// STARTUP SEQUENCE:
//  1. Parse command-line flags
//  2. Load configuration (file, environment, defaults)
//  3. Initialise the logger
//  4. Pick the storage backend for the data file
//  5. Load the data file into a fresh session (fatal if corrupt)
//  6. Run the menu loop until the user exits
//
// RUNNING THE PROGRAM:
//
//	go run ./cmd/registrar
//	go run ./cmd/registrar --file=spring.json
//	go run ./cmd/registrar --driver=sqlite --file=enrollments.db
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/course-registration/internal/config"
	"github.com/aanand-mishra/course-registration/internal/registrar"
	"github.com/aanand-mishra/course-registration/internal/storage"
	"github.com/aanand-mishra/course-registration/internal/storage/jsonfile"
	"github.com/aanand-mishra/course-registration/internal/storage/sqlite"
)

var (
	cfgFile  string
	dataFile string
	driver   string
)

var rootCmd = &cobra.Command{
	Use:   "registrar",
	Short: "Register students for courses",
	Long: `An interactive menu for recording student course registrations
and saving them to a local JSON (or SQLite) file.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "",
		"path to the configuration YAML file (or CONFIG_PATH)")
	rootCmd.Flags().StringVarP(&dataFile, "file", "f", "",
		"registrations file (default: Enrollments.json)")
	rootCmd.Flags().StringVar(&driver, "driver", "",
		"storage backend: json or sqlite (default: json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad(cfgFile)
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if driver != "" {
		cfg.Storage = driver
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	logOut, closeLog, err := openLog(cfg.LogPath)
	if err != nil {
		return err
	}
	defer closeLog()

	log := setupLogger(cfg.Env, logOut)
	log.Info("starting registrar",
		slog.String("env", cfg.Env),
		slog.String("data_file", cfg.DataFile),
		slog.String("storage", cfg.Storage),
	)

	// ── 3. Pick the Storage Backend ───────────────────────────────────────
	// Stored as the storage.Storage INTERFACE; nothing past this point
	// knows which format is on disk.
	var st storage.Storage
	switch cfg.Storage {
	case config.DriverSQLite:
		st = sqlite.New()
	default:
		st = jsonfile.New()
	}

	// ── 4. Load and Run ───────────────────────────────────────────────────
	sess := registrar.New(cfg.DataFile, st, cmd.InOrStdin(), cmd.OutOrStdout(), log)
	sess.Start()

	if err := sess.Run(); err != nil {
		if errors.Is(err, registrar.ErrInputClosed) {
			log.Warn("input closed before exit", slog.Bool("unsaved", sess.Unsaved))
		}
		return err
	}
	return nil
}

// openLog returns the writer structured logs go to. Stdout belongs to the
// menu, so logs go to a file when configured and to stderr otherwise.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): JSON output at INFO level, or WARN when sharing the
// terminal with the menu.
func setupLogger(env string, w io.Writer) *slog.Logger {
	prodLevel := slog.LevelInfo
	if w == io.Writer(os.Stderr) {
		prodLevel = slog.LevelWarn
	}

	switch env {
	case "dev":
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "prod" and anything unrecognised
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: prodLevel,
			}),
		)
	}
}
