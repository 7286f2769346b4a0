// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"shape-scan/internal/extraction"
	"shape-scan/internal/redactors"
)

// RedactFile reads the input like ScanFile and returns its text with every match of
// the selected checks replaced. Suppression rules do not apply to redaction.
func RedactFile(scanConfig ScanConfig, strategy redactors.RedactionStrategy) (*redactors.RedactionResult, error) {
	registry, err := resolveRegistry(scanConfig)
	if err != nil {
		return nil, err
	}

	content, err := loadContent(scanConfig)
	if err != nil {
		return nil, err
	}

	var finish func(bool, map[string]interface{})
	if scanConfig.Observer != nil {
		finish = scanConfig.Observer.StartTiming("redaction", "redact", scanConfig.FilePath)
	}

	matches := extraction.NewEngine(registry, extraction.WithParallelism(scanConfig.Parallelism)).Matches(content.Text)
	result := redactors.RedactText(content.Text, matches, strategy)

	if finish != nil {
		finish(true, map[string]interface{}{
			"strategy":   strategy.String(),
			"redactions": len(result.Redactions),
			"skipped":    result.Skipped,
		})
	}
	return result, nil
}
