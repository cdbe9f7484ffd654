package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"page_objects/application/scenarios"
	"page_objects/demo/pypi"
	"page_objects/domain/entities"
	"page_objects/domain/interfaces"
	"page_objects/infrastructure/browser"
	"page_objects/infrastructure/config"
	"page_objects/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SessionOpener starts browser session of configured backend
type SessionOpener func(backend browser.Backend, opts browser.Options, logger *logrus.Logger) (interfaces.Session, error)

type TerminalInterface struct {
	config *config.Config
	opener SessionOpener
	store  interfaces.ReportStore
	logger *logrus.Logger
	out    io.Writer
}

// NewTerminalInterface - wires configuration, logger and report storage.
// Logs go to stderr and, when log_file is set, to a rotated file.
func NewTerminalInterface(cfg *config.Config, opener SessionOpener, out io.Writer) *TerminalInterface {
	logger := logrus.New()
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stderr)
	if cfg.LogFile != "" {
		logger.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}))
	}

	return &TerminalInterface{
		config: cfg,
		opener: opener,
		store:  storage.Open(cfg.ReportPath),
		logger: logger,
		out:    out,
	}
}

// Run - opens session, runs selected demo scenarios and prints results
func (t *TerminalInterface) Run(ctx context.Context, names []string) error {
	selected, err := scenarios.Select(pypi.Scenarios(), names)
	if err != nil {
		return err
	}

	session, err := t.opener(t.config.BrowserBackend(), t.config.BrowserOptions(), t.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			t.logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	runner := scenarios.NewRunner(session, t.config.ViewConfig(t.logger), t.store, t.logger)
	results, runErr := runner.Run(ctx, selected)
	t.printResults(results)
	return runErr
}

// Report - prints results saved by the last run
func (t *TerminalInterface) Report() error {
	results, err := t.store.LoadResults()
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(t.out, "No saved results")
		return nil
	}
	t.printResults(results)
	return nil
}

// List - prints available scenarios
func (t *TerminalInterface) List() {
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	for _, s := range pypi.Scenarios() {
		fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}
	_ = w.Flush()
}

func (t *TerminalInterface) printResults(results []entities.ScenarioResult) {
	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	if len(results) > 0 {
		fmt.Fprintf(w, "Run %s\n", results[0].RunID)
	}
	fmt.Fprintln(w, "SCENARIO\tSTATUS\tDURATION\tURL\tERROR")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, r.Status, r.Duration.Round(time.Millisecond), r.FinalURL, r.Error)
	}
	_ = w.Flush()
}

type rootFlags struct {
	configPath string
	backend    string
	appRoot    string
	scenarios  []string
}

// NewRootCommand - `page_objects` command with run, list and report subcommands
func NewRootCommand(opener SessionOpener, out io.Writer) *cobra.Command {
	flags := &rootFlags{}

	load := func() (*TerminalInterface, error) {
		cfg, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		if flags.backend != "" {
			cfg.Backend = flags.backend
		}
		if flags.appRoot != "" {
			cfg.AppRoot = flags.appRoot
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return NewTerminalInterface(cfg, opener, out), nil
	}

	root := &cobra.Command{
		Use:           "page_objects",
		Short:         "Page objects for browser UI tests with PyPI demo scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default is ./pom.yaml)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run demo scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := load()
			if err != nil {
				return err
			}
			return term.Run(cmd.Context(), flags.scenarios)
		},
	}
	run.Flags().StringVarP(&flags.backend, "backend", "b", "", "browser backend: static, playwright, selenium or rod")
	run.Flags().StringVar(&flags.appRoot, "app-root", "", "application root url")
	run.Flags().StringSliceVarP(&flags.scenarios, "scenario", "s", nil, "scenarios to run (default all)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List demo scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := load()
			if err != nil {
				return err
			}
			term.List()
			return nil
		},
	}

	report := &cobra.Command{
		Use:   "report",
		Short: "Show results of the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := load()
			if err != nil {
				return err
			}
			return term.Report()
		},
	}

	root.AddCommand(run, list, report)
	return root
}
