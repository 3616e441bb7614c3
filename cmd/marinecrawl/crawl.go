package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/marinecrawl/internal/config"
	"github.com/nao1215/marinecrawl/internal/database"
	"github.com/nao1215/marinecrawl/internal/dataset"
	"github.com/nao1215/marinecrawl/internal/fetch"
	"github.com/nao1215/marinecrawl/internal/log"
	"github.com/nao1215/marinecrawl/internal/model"
	"github.com/nao1215/marinecrawl/internal/pipeline"
	"github.com/nao1215/marinecrawl/internal/report"
	"github.com/nao1215/marinecrawl/internal/tor"
)

// crawlOptions holds the crawl flags that are not part of config.Config.
type crawlOptions struct {
	passes     []string
	format     string
	reportFile string
}

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [pass...]",
		Short: "Run the crawl passes and write the datasets",
		Long: `Crawl runs the passes and writes one dataset per pass to the output directory.

Passes:
  ports               every Brazilian port               -> portos.csv
  ships-in-port       tankers in the ports of interest   -> navios_em_portos.csv
  expected-arrivals   tankers expected at those ports    -> chegadas_esperadas.csv
  ships-of-interest   particulars of every vessel above  -> navios_de_interesse.csv

Without arguments every pass runs. Named passes always run in the order above.
Pages that cannot be fetched are recorded in navios_erro.csv.

Examples:
  # Run every pass through a local proxy
  marinecrawl crawl --proxy socks5://127.0.0.1:9050

  # Refresh only the ship lists, keeping portos.csv from a previous run
  marinecrawl crawl ships-in-port expected-arrivals

  # Quick sample run
  marinecrawl crawl --max-ports 10 --max-ships 5

  # Markdown run report written to a file
  marinecrawl crawl --format markdown --report report.md`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Network flags
	cmd.Flags().StringP("proxy", "p", "",
		"Egress proxy URL (http://, https:// or socks5://). Empty connects directly")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and crawl through it (needs the tor binary)")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for the embedded Tor daemon to bootstrap")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout of a single page fetch")
	cmd.Flags().Float64("rate", config.DefaultRequestsPerSecond,
		"Maximum requests per second (0 disables rate limiting)")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of seeds crawled at the same time")

	// Scope flags
	cmd.Flags().Int("max-ports", 0, "Maximum number of ports collected (0 = no cap)")
	cmd.Flags().Int("max-ships", 0, "Maximum number of vessel pages fetched (0 = no cap)")
	cmd.Flags().Int("max-pages", config.DefaultMaxPages, "Maximum pages followed per seed (0 = no cap)")

	// File flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir, "Directory of the dataset files")
	cmd.Flags().StringP("interest-file", "i", config.DefaultInterestFile, "Ports-of-interest file")
	cmd.Flags().String("log-file", "", "Also write the log to this file")
	cmd.Flags().String("history-dir", "", "Directory of the run history database (default: XDG data directory)")
	cmd.Flags().Bool("no-history", false, "Do not record the run in the history database")

	// Report flags
	cmd.Flags().StringP("format", "f", report.FormatText,
		"Run report format ("+strings.Join(report.Formats(), ", ")+")")
	cmd.Flags().StringP("report", "r", "",
		"Write the run report to this file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts := crawlOptions{passes: args}
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return err
	}
	if opts.reportFile, err = cmd.Flags().GetString("report"); err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	defer closeLog() //nolint:errcheck // Nothing useful to do on close failure
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, opts, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// loadConfig returns the defaults overlaid with the configuration file.
// An explicit --config path must exist. Without one, a missing file is fine.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	explicitPath := getConfigFlag(cmd)
	cfg.ConfigFilePath = explicitPath

	configPath := config.FindConfigFile(explicitPath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case explicitPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
	}
	return cfg, nil
}

// buildConfig creates a Config from defaults, the configuration file and the
// crawl flags, in increasing precedence. Only flags set on the command line
// override file values.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"proxy":         &cfg.Route,
		"output-dir":    &cfg.OutputDir,
		"interest-file": &cfg.InterestFile,
		"log-file":      &cfg.LogFile,
		"history-dir":   &cfg.HistoryDir,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	intFlags := map[string]*int{
		"concurrency": &cfg.Concurrency,
		"max-ports":   &cfg.MaxPorts,
		"max-ships":   &cfg.MaxShips,
		"max-pages":   &cfg.MaxPages,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetInt(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tor") {
		if cfg.EmbeddedTor, err = flags.GetBool("tor"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("tor-timeout") {
		if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("rate") {
		if cfg.RequestsPerSecond, err = flags.GetFloat64("rate"); err != nil {
			return nil, err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	if noHistory {
		cfg.HistoryDir = ""
	}

	return cfg, nil
}

// setupLogger creates the run logger. With a log file the output goes to
// both console and file. The returned function closes the file.
func setupLogger(console io.Writer, cfg *config.Config) (*slog.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return log.NewSecureLogger(console, cfg.Verbose), func() error { return nil }, nil
	}
	logger, closeFn, err := log.NewFileLogger(console, cfg.LogFile, cfg.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return logger, closeFn, nil
}

// runCrawl executes the passes, writes the error dataset, records the run
// and prints the run report.
func runCrawl(ctx context.Context, cfg *config.Config, opts crawlOptions, stdout io.Writer, logger *slog.Logger) error {
	route := cfg.Route
	if cfg.EmbeddedTor {
		daemon := tor.NewDaemon(
			tor.WithStartupTimeout(cfg.TorStartupTimeout),
			tor.WithLogger(logger),
		)
		if err := daemon.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := daemon.Stop(); err != nil {
				logger.Error("failed to stop embedded Tor", "error", err)
			}
		}()
		var err error
		if route, err = daemon.Route(); err != nil {
			return err
		}
	}

	client, err := fetch.NewClient(route, cfg.Timeout,
		fetch.WithRateLimit(cfg.RequestsPerSecond),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create fetch client: %w", err)
	}

	store := dataset.NewStore(cfg.OutputDir, logger)
	env := pipeline.NewEnv(client, store, cfg, pipeline.WithEnvLogger(logger))

	p, err := pipeline.DefaultPipeline(env, opts.passes, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("starting crawl",
		"passes", p.PassNames(),
		"route", client.Route(),
		"outputDir", cfg.OutputDir,
		"concurrency", cfg.Concurrency,
	)

	runReport := model.NewRunReport(time.Now())
	execErr := p.Execute(ctx, runReport)

	if err := pipeline.SaveErrors(store, cfg.ErrorPath(), runReport); err != nil {
		logger.Error("failed to write error dataset", "path", cfg.ErrorPath(), "error", err)
	}

	// The run is recorded even when interrupted.
	if err := recordRun(context.WithoutCancel(ctx), cfg.HistoryDir, runReport, logger); err != nil {
		logger.Error("failed to record run history", "error", err)
	}

	if err := outputReport(opts, runReport, stdout); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			return errors.New("crawl interrupted")
		}
		return execErr
	}
	return nil
}

// recordRun stores the report in the history database. An empty dir
// disables history.
func recordRun(ctx context.Context, dir string, runReport *model.RunReport, logger *slog.Logger) error {
	if dir == "" {
		return nil
	}

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := db.RecordRun(ctx, runReport)
	if err != nil {
		return err
	}
	logger.Info("run recorded", "id", runID, "db", db.Path())
	return nil
}

// outputReport writes the run report in the requested format, to the report
// file when one is given and to stdout otherwise.
func outputReport(opts crawlOptions, runReport *model.RunReport, stdout io.Writer) error {
	output := stdout
	if opts.reportFile != "" {
		dir := filepath.Dir(opts.reportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.reportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w, err := report.NewWriter(opts.format, output)
	if err != nil {
		return err
	}
	_, err = w.Write(runReport)
	return err
}
