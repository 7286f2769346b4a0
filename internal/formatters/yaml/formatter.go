// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"bytes"
	"fmt"

	"shape-scan/internal/detector"
	"shape-scan/internal/formatters"
	"shape-scan/internal/formatters/shared"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "YAML mapping of each category to its sorted findings"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(report *detector.Report, options formatters.FormatterOptions) (string, error) {
	var v interface{} = report.Results
	if shared.WantsEnvelope(options) {
		v = shared.BuildEnvelope(report, options)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("error formatting YAML: %w", err)
	}
	return buf.String(), nil
}

func init() {
	formatters.Register(NewFormatter())
}
