// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"
	"shape-scan/internal/formatters/shared"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "JSON object mapping each category to its sorted findings"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// Format writes the category mapping as an indented JSON object with keys in
// ascending order. Verbose or suppressed output wraps it in an envelope.
func (f *Formatter) Format(report *detector.Report, options formatters.FormatterOptions) (string, error) {
	var v interface{} = report.Results
	if shared.WantsEnvelope(options) {
		v = shared.BuildEnvelope(report, options)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}
	return string(data), nil
}

func init() {
	formatters.Register(NewFormatter())
}
