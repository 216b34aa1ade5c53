package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/config"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "payplan",
		Short:         "Payment plan schedule and arrears projection",
		Long:          "Computes arrears, completion dates and forward cash projections for customer payment plans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging for calculations")
	root.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	root.AddCommand(analyzeCmd())
	root.AddCommand(projectCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(collectionsCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payplan %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// addRunFlags registers the flags shared by every command that runs an analysis
func addRunFlags(cmd *cobra.Command) {
	defaults := config.DefaultRunFlags()
	cmd.Flags().IntP("months", "m", defaults.MonthsAhead, fmt.Sprintf("Months to project (1-%d)", calculation.MaxMonthsAhead))
	cmd.Flags().StringP("scenario", "s", defaults.Scenario, "Scenario for behind customers (current, restart, renegotiate)")
	cmd.Flags().String("class", "", "Only include plans with this class")
	cmd.Flags().String("as-of", "", "Reference date YYYY-MM-DD (default: $"+config.AsOfEnvVar+" or today)")
	cmd.Flags().Int("limit", defaults.CollectionsLimit, "Maximum collections entries (0 for all)")
	cmd.Flags().Int("workers", 0, "Customers projected concurrently (0 for unbounded)")
}

func runOptionsFromFlags(cmd *cobra.Command) (domain.RunOptions, error) {
	flags := config.DefaultRunFlags()
	flags.MonthsAhead, _ = cmd.Flags().GetInt("months")
	flags.Scenario, _ = cmd.Flags().GetString("scenario")
	flags.ClassFilter, _ = cmd.Flags().GetString("class")
	flags.AsOf, _ = cmd.Flags().GetString("as-of")
	flags.CollectionsLimit, _ = cmd.Flags().GetInt("limit")
	return config.BuildRunOptions(flags)
}

// newLogger builds the CLI logger: level from LOG_LEVEL unless --debug is set
func newLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	if format, _ := cmd.Flags().GetString("log-format"); strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.WarnLevel
	}
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// newEngine wires a calculation engine to the command's logger and flags
func newEngine(cmd *cobra.Command, logger *logrus.Logger) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(logger)
	engine.Debug, _ = cmd.Flags().GetBool("debug")
	if workers, err := cmd.Flags().GetInt("workers"); err == nil {
		engine.SetWorkers(workers)
	}
	return engine
}

func loadPortfolio(path string) (*domain.Portfolio, error) {
	return config.NewInputParser().LoadFromFile(path)
}

// writeOutput writes data to the named file, or to the command's stdout when path is empty
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func run(args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		logrus.New().Fatal(err)
	}
}
