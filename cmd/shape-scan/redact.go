// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"shape-scan/internal/core"
	"shape-scan/internal/preprocessors"
	"shape-scan/internal/redactors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) redactCmd() *cobra.Command {
	var (
		strategy string
		output   string
		checks   string
	)
	cmd := &cobra.Command{
		Use:   "redact [file|-]",
		Short: "Print the input text with every finding replaced",
		Long: `Print the text of a file or stdin with every finding of the selected checks
replaced. PDF, Excel and image inputs are redacted as their extracted text.

Strategies:
  simple              [EMAIL-REDACTED], [CREDIT-CARD-REDACTED], ...
  format_preserving   letters become x/X and digits 0; cards keep their last four digits
  hash                [EMAIL:<first 16 hex digits of the finding hash>]

Examples:
  shape-scan redact app.log --output app.redacted.log
  cat dump.txt | shape-scan redact --checks emails,phones --strategy hash`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := preprocessors.StdinPath
			if len(args) == 1 {
				path = args[0]
			}

			s, err := redactors.ParseRedactionStrategy(strategy)
			if err != nil {
				return err
			}

			selected := a.settings.Checks
			if cmd.Flags().Changed("checks") {
				selected = checks
			}

			result, err := core.RedactFile(core.ScanConfig{
				FilePath:    path,
				Stdin:       a.stdin,
				Checks:      core.SplitChecks(selected),
				Parallelism: a.settings.Parallelism,
				Config:      a.cfg,
				Profile:     a.cfg.GetProfile(a.profile),
				Observer:    a.observer,
			}, s)
			if err != nil {
				return err
			}

			a.logger.Debug("redaction completed",
				zap.String("source", path),
				zap.String("strategy", s.String()),
				zap.Int("redactions", len(result.Redactions)),
				zap.Int("skipped", result.Skipped))

			if output != "" {
				if err := os.WriteFile(output, []byte(result.Text), 0600); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
			} else if _, err := fmt.Fprint(a.stdout, result.Text); err != nil {
				return err
			}

			if !a.quiet {
				fmt.Fprintf(a.stderr, "Redacted %d findings\n", len(result.Redactions))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&strategy, "strategy", "simple", "Redaction strategy: simple, format_preserving, hash")
	f.StringVarP(&output, "output", "o", "", "Write the redacted text to this file instead of stdout")
	f.StringVar(&checks, "checks", "", "Comma-separated checks to redact, or all")
	return cmd
}
