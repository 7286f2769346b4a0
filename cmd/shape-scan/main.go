// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Command shape-scan finds emails, URLs, phone numbers, payment cards, times, markup
// tags, hashtags and dollar amounts in text and prints a sorted catalog per category.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"shape-scan/internal/config"
	"shape-scan/internal/observability"
	"shape-scan/internal/precommit"
	"shape-scan/internal/version"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Exit codes
const (
	exitOK       = 0
	exitFindings = 1
	exitError    = 2
)

// errFindings signals --fail-on-findings; it carries no message of its own
var errFindings = errors.New("findings present")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to an exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFindings):
		return exitFindings
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

// app holds the flags and collaborators shared by all commands
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configFile      string
	profile         string
	debug           bool
	noColor         bool
	suppressionFile string
	precommitMode   bool
	quiet           bool

	cfg      *config.Config
	settings config.Defaults
	logger   *zap.Logger
	observer *observability.StandardObserver
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shape-scan",
		Short: "Find well-known data shapes in text",
		Long: `shape-scan scans text for email addresses, URLs, phone numbers, payment card
numbers, clock times, markup tags, hashtags and dollar amounts, and reports the
distinct matches of each category in sorted order.

Examples:
  # Scan a file and print the JSON catalog
  shape-scan scan notes.txt

  # Scan stdin, only cards and emails, as a colored summary
  cat mail.log | shape-scan scan --checks credit_cards,emails --format text

  # List the available checks
  shape-scan checks

  # As a git pre-commit hook (the precommit profile is picked automatically)
  shape-scan scan --precommit-mode $(git diff --cached --name-only)`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to configuration file (YAML)")
	flags.StringVar(&a.profile, "profile", "", "Profile name to use from config file")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging on stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&a.suppressionFile, "suppression-file", "", "Path to suppression rules file (default: .shape-scan-suppressions.yaml)")
	flags.BoolVar(&a.precommitMode, "precommit-mode", false, "Run with pre-commit settings even when no hook environment is detected")

	root.AddCommand(a.scanCmd())
	root.AddCommand(a.redactCmd())
	root.AddCommand(a.checksCmd())
	root.AddCommand(a.suppressCmd())
	root.AddCommand(a.versionCmd())
	return root
}

// setup loads the configuration, resolves the profile and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	if a.configFile != "" {
		cfg, err := config.LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.cfg = cfg
	} else {
		a.cfg = config.LoadConfigOrDefault("")
	}

	pd := precommit.NewPrecommitDetectorWithEnv(os.Getenv, a.precommitMode)
	if a.profile == "" && a.cfg.GetProfile(pd.GetSuggestedProfile()) != nil {
		a.profile = pd.GetSuggestedProfile()
	}

	settings, err := a.cfg.Effective(a.profile)
	if err != nil {
		return err
	}
	if pd.IsPrecommitEnvironment() {
		pc := pd.GetOptimizedConfig()
		settings.NoColor = settings.NoColor || pc.NoColor
		settings.FailOnFindings = pc.FailOnFindings
		if a.profile == "" {
			settings.Format = pc.Format
		}
		a.quiet = pc.QuietMode
	}
	if cmd.Flags().Changed("debug") {
		settings.Debug = a.debug
	}
	if cmd.Flags().Changed("no-color") {
		settings.NoColor = a.noColor
	}
	if !isTerminal(a.stdout) || os.Getenv("CI") != "" {
		settings.NoColor = true
	}
	color.NoColor = settings.NoColor
	a.settings = settings

	level := "warn"
	observerLevel := observability.ObservabilityMetrics
	if settings.Debug {
		level = "debug"
		observerLevel = observability.ObservabilityDebug
	}
	logger, err := observability.NewLogger(observability.LoggerConfig{
		Level:  level,
		Format: settings.LogFormat,
		Output: a.stderr,
	})
	if err != nil {
		return err
	}
	a.logger = logger
	a.observer = observability.NewStandardObserver(observerLevel, logger)

	logger.Debug("configuration loaded",
		zap.String("config", a.configFile),
		zap.String("profile", a.profile),
		zap.String("format", settings.Format),
		zap.String("checks", settings.Checks),
		zap.Int("parallelism", settings.Parallelism))
	return nil
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
