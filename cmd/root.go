package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/surveydash/internal/ai"
	cfgpkg "github.com/KaramelBytes/surveydash/internal/config"
	"github.com/KaramelBytes/surveydash/internal/dashboard"
	"github.com/KaramelBytes/surveydash/internal/log"
	"github.com/KaramelBytes/surveydash/internal/schema"
	"github.com/KaramelBytes/surveydash/internal/survey"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	quiet     bool
	flagData  string
	flagSheet string
	flagTheme string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global

	// Tables are parsed once per process and shared by every command.
	loader = survey.NewLoader(survey.DefaultOptions())
)

var rootCmd = &cobra.Command{
	Use:   "surveydash",
	Short: "surveydash: summaries, charts and reports for the partner survey",
	Long: `surveydash loads the partner survey workbook, classifies its questions and
summarises yes/no, rating, collaboration and graduate outcome data per country.
Summaries print to the terminal or export as Markdown/JSON reports with charts,
and an optional AI assistant answers free-form questions about the data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.surveydash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "d", "", "survey workbook or CSV (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX worksheet name (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "chart theme: light|dark (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	log.Setup(nil, debug, quiet)

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	overrideString(f, "data", &cfg.DataPath, flagData)
	overrideString(f, "sheet", &cfg.SheetName, flagSheet)
	overrideString(f, "theme", &cfg.Theme, flagTheme)
	overrideInt(f, "http-timeout", &cfg.HTTPTimeoutSec, flagHTTPTimeoutSec)
	overrideInt(f, "retry-max", &cfg.RetryMaxAttempts, flagRetryMaxAttempts)
	overrideInt(f, "retry-base-ms", &cfg.RetryBaseDelayMs, flagRetryBaseDelayMs)
	overrideInt(f, "retry-max-ms", &cfg.RetryMaxDelayMs, flagRetryMaxDelayMs)

	// Optional extra model metadata
	if cfg.ModelsCatalog != "" {
		m, err := ai.LoadCatalogFromJSON(cfg.ModelsCatalog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: models catalog not loaded: %v\n", err)
			return
		}
		ai.MergeCatalog(m)
	}
}

func overrideString(f *pflag.FlagSet, name string, dst *string, val string) {
	if f.Changed(name) {
		*dst = val
	}
}

func overrideInt(f *pflag.FlagSet, name string, dst *int, val int) {
	if f.Changed(name) && val > 0 {
		*dst = val
	}
}

// schemaOptions layers configured keywords and limits over the classifier defaults.
func schemaOptions(c *cfgpkg.Global) schema.Options {
	opt := schema.DefaultOptions()
	if len(c.ExcludeKeywords) > 0 {
		opt.ExcludeKeywords = c.ExcludeKeywords
	}
	if len(c.CollabKeywords) > 0 {
		opt.CollabKeywords = c.CollabKeywords
	}
	if c.PackedSampleRows > 0 {
		opt.PackedSampleRows = c.PackedSampleRows
	}
	if c.PackedTopTokens > 0 {
		opt.PackedTopTokens = c.PackedTopTokens
	}
	return opt
}

// openSession loads and classifies the configured survey.
func openSession() (*dashboard.Session, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("no survey data: pass --data or set data_path")
	}
	return dashboard.Open(loader, cfg.DataPath, cfg.SheetName, schemaOptions(cfg))
}
