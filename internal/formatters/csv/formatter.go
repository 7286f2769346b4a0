// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "One category,value row per finding for spreadsheets"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

// Format writes a header and one row per finding, categories in ascending order.
// Suppressed findings are appended with the suppressing rule ID when requested.
func (f *Formatter) Format(report *detector.Report, options formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	headers := []string{"category", "value"}
	if options.ShowSuppressed {
		headers = append(headers, "suppressed_by")
	}
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("error writing CSV: %w", err)
	}

	for _, category := range report.Results.Categories() {
		for _, value := range report.Results[category] {
			row := []string{category, value}
			if options.ShowSuppressed {
				row = append(row, "")
			}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("error writing CSV: %w", err)
			}
		}
	}

	if options.ShowSuppressed {
		for _, s := range report.Suppressed {
			if err := w.Write([]string{s.Category, s.Value, s.SuppressedBy}); err != nil {
				return "", fmt.Errorf("error writing CSV: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV: %w", err)
	}
	return b.String(), nil
}

func init() {
	formatters.Register(NewFormatter())
}
