// Package cli wires configuration, logging and the catalog into the
// nutricalc cobra commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/nutricalc/internal/catalog"
	"github.com/hammamikhairi/nutricalc/internal/config"
	"github.com/hammamikhairi/nutricalc/internal/db"
	"github.com/hammamikhairi/nutricalc/internal/display"
	"github.com/hammamikhairi/nutricalc/internal/logger"
	"github.com/hammamikhairi/nutricalc/internal/nutrition"
)

// flags holds the global command-line flags.
type flags struct {
	configFile  string
	catalogFile string
	databaseURL string
	logFile     string
	verbose     bool
	quiet       bool
	noColor     bool
	exactUnits  bool
}

// app is the state shared by every command once the root pre-run is done.
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	render *display.Renderer
	out    io.Writer
	close  []func()
}

// newRoot builds the command tree and the state its commands share.
func newRoot() (*cobra.Command, *app) {
	var f flags
	a := &app{}

	root := &cobra.Command{
		Use:   "nutricalc",
		Short: "nutricalc computes nutritional values of recipes and menus",
		Long: `nutricalc computes nutritional values of recipes and menus.

Recipes report calories, proteins, carbs and fat per 100 g; menus report
totals for the whole meal. The catalog comes from a YAML file, PostgreSQL,
or the built-in sample set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, &f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "path to config file (nutricalc.yaml)")
	pf.StringVar(&f.catalogFile, "catalog", "", "YAML catalog file")
	pf.StringVar(&f.databaseURL, "database-url", "", "PostgreSQL connection string to load the catalog from")
	pf.StringVar(&f.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.BoolVar(&f.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&f.quiet, "quiet", false, "disable all logging")
	pf.BoolVar(&f.noColor, "no-color", false, "disable ANSI color output")
	pf.BoolVar(&f.exactUnits, "exact-units", false, "count product values once per unit instead of per 100")

	root.AddCommand(
		newListCommand(a),
		newShowCommand(a),
		newShellCommand(a),
		newExportCommand(a),
		newInitDBCommand(a),
	)
	return root, a
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root, a := newRoot()
	if err := run(root, a); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run executes root and releases what setup opened, whether or not the
// command failed.
func run(root *cobra.Command, a *app) error {
	defer a.shutdown()
	return root.Execute()
}

func (a *app) setup(cmd *cobra.Command, f *flags) error {
	cfg, err := config.Resolve(f.configFile)
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}

	// Flags override config and environment.
	pf := cmd.Flags()
	if pf.Changed("catalog") {
		cfg.Catalog = f.catalogFile
	}
	if pf.Changed("database-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if pf.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if f.verbose {
		cfg.LogLevel = logger.LevelVerbose.String()
	}
	if f.quiet {
		cfg.LogLevel = logger.LevelOff.String()
	}
	if f.noColor {
		cfg.NoColor = true
	}
	if f.exactUnits {
		cfg.ProductUnitsExact = true
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	plain := cfg.NoColor || !isatty.IsTerminal(os.Stdout.Fd())
	if plain {
		color.NoColor = true
	}
	a.render = display.NewRenderer(plain)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logger.New(level, a.openLog(cfg.LogFile))
	a.log.Debug("config: catalog=%q database=%t exact_units=%t", cfg.Catalog, cfg.DatabaseURL != "", cfg.ProductUnitsExact)
	return nil
}

// openLog directs logs to a file so command output stays clean.
func (a *app) openLog(path string) io.Writer {
	if path == "" || path == "stderr" {
		return os.Stderr
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr
	}
	a.close = append(a.close, func() { f.Close() })
	return f
}

func (a *app) shutdown() {
	for i := len(a.close) - 1; i >= 0; i-- {
		a.close[i]()
	}
	a.close = nil
}

func (a *app) catalogOptions() []catalog.Option {
	if a.cfg.ProductUnitsExact {
		return []catalog.Option{catalog.WithMenuOptions(nutrition.WithProductUnitsExact())}
	}
	return nil
}

// loadCatalog builds the catalog from the configured source: PostgreSQL
// first, then a YAML file, then the built-in sample set.
func (a *app) loadCatalog(ctx context.Context) (*catalog.MemoryCatalog, error) {
	if a.cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, a.cfg.DatabaseURL, a.log)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		c := catalog.New(a.log, a.catalogOptions()...)
		if err := c.LoadPostgres(ctx, pool); err != nil {
			return nil, fmt.Errorf("loading catalog from postgres: %w", err)
		}
		return c, nil
	}
	return a.loadLocalCatalog()
}

// loadLocalCatalog ignores the database and reads the YAML file or the
// built-in sample set.
func (a *app) loadLocalCatalog() (*catalog.MemoryCatalog, error) {
	c := catalog.New(a.log, a.catalogOptions()...)
	if a.cfg.Catalog != "" {
		if err := c.LoadFile(a.cfg.Catalog); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := c.Seed(); err != nil {
		return nil, err
	}
	a.log.Info("using built-in catalog (%d elements)", c.Size())
	return c, nil
}
