// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"blue":   color.New(color.FgBlue),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable summary grouped by category"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

// Format lists the findings of each non-empty category. Verbose output also lists
// empty categories, the first occurrence of each finding and run statistics.
func (f *Formatter) Format(report *detector.Report, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder

	total := report.Results.Total()
	nonEmpty := 0

	for _, category := range report.Results.Categories() {
		values := report.Results[category]
		if len(values) == 0 && !options.Verbose {
			continue
		}
		if len(values) > 0 {
			nonEmpty++
		}

		header := fmt.Sprintf("%s (%d)", category, len(values))
		b.WriteString(f.paint(options, "cyan", header))
		b.WriteByte('\n')

		for _, value := range values {
			b.WriteString("  ")
			b.WriteString(f.paint(options, "white", value))
			if options.Verbose {
				if m, ok := report.FirstSeen[category][value]; ok {
					fmt.Fprintf(&b, "  %s", f.paint(options, "blue", fmt.Sprintf("(rule %s, offset %d)", m.Rule, m.Offset)))
				}
			}
			b.WriteByte('\n')
		}
	}

	if options.ShowSuppressed && len(report.Suppressed) > 0 {
		b.WriteString(f.paint(options, "yellow", fmt.Sprintf("suppressed (%d)", len(report.Suppressed))))
		b.WriteByte('\n')
		for _, s := range report.Suppressed {
			fmt.Fprintf(&b, "  %s %s  [%s] %s", s.Category, s.Value, s.SuppressedBy, s.RuleReason)
			if s.ExpiresAt != nil {
				fmt.Fprintf(&b, " (expires %s)", s.ExpiresAt.Format(time.DateOnly))
			}
			b.WriteByte('\n')
		}
	}

	if total == 0 {
		b.WriteString(f.paint(options, "green", "No findings."))
		b.WriteByte('\n')
	} else {
		summary := fmt.Sprintf("%d finding(s) in %d of %d categories", total, nonEmpty, len(report.Results))
		b.WriteString(f.paint(options, "red", summary))
		b.WriteByte('\n')
	}

	if len(report.Suppressed) > 0 && !options.ShowSuppressed {
		fmt.Fprintf(&b, "%d finding(s) suppressed\n", len(report.Suppressed))
	}

	if options.Verbose {
		fmt.Fprintf(&b, "source: %s, %d bytes, %d rules, %d raw matches, %s\n",
			report.Source, report.Stats.BytesScanned, report.Stats.RuleCount,
			report.Stats.RawMatches, report.Stats.Duration.Round(time.Microsecond))
	}

	return b.String(), nil
}

func (f *Formatter) paint(options formatters.FormatterOptions, name, s string) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func init() {
	formatters.Register(NewFormatter())
}
