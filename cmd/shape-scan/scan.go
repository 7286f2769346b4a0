// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"shape-scan/internal/core"
	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"
	"shape-scan/internal/preprocessors"
	"shape-scan/internal/suppressions"

	// Import formatters to register them
	_ "shape-scan/internal/formatters/csv"
	_ "shape-scan/internal/formatters/json"
	_ "shape-scan/internal/formatters/text"
	_ "shape-scan/internal/formatters/yaml"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// scanFlags holds the scan command's own flags
type scanFlags struct {
	format               string
	output               string
	checks               string
	parallel             int
	verbose              bool
	showSuppressed       bool
	failOnFindings       bool
	generateSuppressions bool
}

func (a *app) scanCmd() *cobra.Command {
	var flags scanFlags
	cmd := &cobra.Command{
		Use:   "scan [file|-]...",
		Short: "Scan files or stdin and print the findings per category",
		Long: `Scan files or stdin and print the distinct findings of every category, sorted.
Findings from several files are merged into one catalog.

Plain text files are read directly. PDF and Excel documents have their text extracted
first, and JPEG/TIFF images contribute their EXIF text fields. With no argument, or
with "-", the text is read from stdin.

Examples:
  # JSON catalog of everything found in a file
  shape-scan scan report.pdf

  # Only phones and times, as YAML, written to a file
  shape-scan scan notes.txt --checks phones,times --format yaml --output found.yaml

  # Pre-commit style: fail when anything is found
  git diff | shape-scan scan --profile precommit`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{preprocessors.StdinPath}
			}
			return a.runScan(cmd, paths, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.format, "format", "f", "", "Output format: "+strings.Join(formatters.List(), ", ")+" (default from config: json)")
	f.StringVarP(&flags.output, "output", "o", "", "Write output to this file instead of stdout")
	f.StringVar(&flags.checks, "checks", "", "Comma-separated checks to run, or all")
	f.IntVar(&flags.parallel, "parallel", 0, "Number of rules to evaluate concurrently")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Include source, first occurrences and run statistics")
	f.BoolVar(&flags.showSuppressed, "show-suppressed", false, "Include suppressed findings in the output")
	f.BoolVar(&flags.failOnFindings, "fail-on-findings", false, "Exit with status 1 when anything is found")
	f.BoolVar(&flags.generateSuppressions, "generate-suppressions", false, "Write a disabled suppression rule for every finding, for later review")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, paths []string, flags scanFlags) error {
	settings := a.settings
	if cmd.Flags().Changed("format") {
		settings.Format = flags.format
	}
	if cmd.Flags().Changed("checks") {
		settings.Checks = flags.checks
	}
	if cmd.Flags().Changed("parallel") {
		settings.Parallelism = flags.parallel
	}
	if cmd.Flags().Changed("fail-on-findings") {
		settings.FailOnFindings = flags.failOnFindings
	}

	if _, ok := formatters.Get(settings.Format); !ok {
		return fmt.Errorf("unsupported format '%s'. Available formats: %s", settings.Format, strings.Join(formatters.List(), ", "))
	}

	manager, err := suppressions.NewSuppressionManager(a.suppressionFile)
	if err != nil {
		return err
	}

	report, err := core.ScanFiles(paths, core.ScanConfig{
		Stdin:              a.stdin,
		Checks:             core.SplitChecks(settings.Checks),
		Verbose:            flags.verbose,
		Parallelism:        settings.Parallelism,
		Config:             a.cfg,
		Profile:            a.cfg.GetProfile(a.profile),
		SuppressionManager: manager,
		Observer:           a.observer,
	})
	if err != nil {
		return err
	}

	a.logger.Debug("scan completed",
		zap.String("source", report.Source),
		zap.Int("findings", report.Results.Total()),
		zap.Int("suppressed", len(report.Suppressed)),
		zap.Int("bytes", report.Stats.BytesScanned),
		zap.Duration("duration", report.Stats.Duration))

	if len(report.Suppressed) > 0 && !flags.showSuppressed && !a.quiet {
		fmt.Fprintf(a.stderr, "Suppressed %d findings based on suppression rules (use --show-suppressed to see them)\n", len(report.Suppressed))
	}

	if flags.generateSuppressions {
		all := allFindings(report)
		if all.Total() == 0 {
			fmt.Fprintln(a.stderr, "No findings to generate suppression rules for")
		} else {
			added, err := manager.GenerateSuppressionRules(all, "Auto-generated suppression rule, review before enabling", false)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stderr, "Generated %d suppression rules in %s (disabled, enable them after review)\n", added, manager.GetConfigPath())
		}
	}

	out, err := formatters.Export(settings.Format, report, formatters.FormatterOptions{
		Verbose:        flags.verbose,
		NoColor:        settings.NoColor || flags.output != "",
		ShowSuppressed: flags.showSuppressed,
	})
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if flags.output != "" {
		if err := os.WriteFile(flags.output, []byte(out), 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else if _, err := fmt.Fprint(a.stdout, out); err != nil {
		return err
	}

	if settings.FailOnFindings && report.HasFindings() {
		return errFindings
	}
	return nil
}

// allFindings merges the kept and the suppressed findings of a report
func allFindings(report *detector.Report) detector.ResultSet {
	all := report.Results.Clone()
	for _, s := range report.Suppressed {
		all[s.Category] = append(all[s.Category], s.Value)
	}
	return all
}
