// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"io"
	"os"

	"shape-scan/internal/config"
	"shape-scan/internal/detector"
	"shape-scan/internal/extraction"
	"shape-scan/internal/observability"
	"shape-scan/internal/patterns"
	"shape-scan/internal/preprocessors"
	"shape-scan/internal/suppressions"
)

// ScanConfig holds configuration for scanning operations.
type ScanConfig struct {
	// FilePath is the input; preprocessors.StdinPath reads Stdin instead.
	FilePath string
	Stdin    io.Reader

	Checks      []string
	Verbose     bool
	Parallelism int
	Config      *config.Config
	Profile     *config.Profile

	// Registry, when non-nil, is used as is and Checks, Config and Profile are ignored
	// for rule building.
	Registry *patterns.Registry

	// SuppressionManager, when non-nil, is applied to the results before returning.
	SuppressionManager *suppressions.SuppressionManager

	Observer *observability.StandardObserver
}

// ScanFile reads the input through the preprocessors and scans its text.
func ScanFile(scanConfig ScanConfig) (*detector.Report, error) {
	registry, err := resolveRegistry(scanConfig)
	if err != nil {
		return nil, err
	}

	content, err := loadContent(scanConfig)
	if err != nil {
		return nil, err
	}

	scanConfig.Registry = registry
	report, err := ScanText(content.Text, scanConfig)
	if err != nil {
		return nil, err
	}
	report.Source = scanConfig.FilePath
	return report, nil
}

// ScanFiles scans every path with one registry and merges the reports. Inputs are
// scanned in order; the first failure stops the run.
func ScanFiles(paths []string, scanConfig ScanConfig) (*detector.Report, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}

	registry, err := resolveRegistry(scanConfig)
	if err != nil {
		return nil, err
	}
	scanConfig.Registry = registry

	merged := &detector.Report{}
	for _, path := range paths {
		scanConfig.FilePath = path
		report, err := ScanFile(scanConfig)
		if err != nil {
			return nil, err
		}
		merged.Merge(report)
	}
	return merged, nil
}

// ScanText extracts, then applies suppressions to one in-memory text.
func ScanText(text string, scanConfig ScanConfig) (*detector.Report, error) {
	registry, err := resolveRegistry(scanConfig)
	if err != nil {
		return nil, err
	}

	opts := []extraction.Option{extraction.WithParallelism(scanConfig.Parallelism)}
	if scanConfig.Observer != nil {
		opts = append(opts, extraction.WithObserver(scanConfig.Observer))
	}
	outcome := extraction.NewEngine(registry, opts...).Run(text)

	report := &detector.Report{
		Source:  scanConfig.FilePath,
		Results: outcome.Results,
		Stats:   outcome.Stats,
	}
	if scanConfig.Verbose {
		report.FirstSeen = outcome.FirstSeen
	}

	if scanConfig.SuppressionManager != nil {
		report.Results, report.Suppressed = scanConfig.SuppressionManager.Apply(outcome.Results)
	}

	return report, nil
}

func resolveRegistry(scanConfig ScanConfig) (*patterns.Registry, error) {
	if scanConfig.Registry != nil {
		return scanConfig.Registry, nil
	}
	registry, err := BuildRegistry(scanConfig.Checks, scanConfig.Config, scanConfig.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern registry: %w", err)
	}
	return registry, nil
}

// loadContent reads the input through the preprocessors
func loadContent(scanConfig ScanConfig) (*preprocessors.ProcessedContent, error) {
	if scanConfig.FilePath == preprocessors.StdinPath {
		stdin := scanConfig.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		return preprocessors.ProcessReader("stdin", stdin)
	}
	return preprocessors.NewDefaultManager(scanConfig.Observer).ProcessFile(scanConfig.FilePath)
}
