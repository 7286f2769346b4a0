// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"
	"strings"

	"shape-scan/internal/config"
	"shape-scan/internal/patterns"
)

// BuildDefinitions applies the config's pattern overrides to the built-in table,
// keeps the enabled checks and switches on the Luhn filter when configured.
// Pass nil for cfg or profile to skip them.
func BuildDefinitions(checks []string, cfg *config.Config, profile *config.Profile) ([]patterns.Definition, error) {
	defs := patterns.DefaultDefinitions()
	if cfg != nil {
		defs = patterns.Apply(defs, cfg.PatternOverrides())
	}

	categories := patterns.DefinitionCategories(defs)
	enabled, err := ParseChecksToRun(checks, categories)
	if err != nil {
		return nil, err
	}

	selected := make([]string, 0, len(categories))
	for _, category := range categories {
		if enabled[category] {
			selected = append(selected, category)
		}
	}
	defs = patterns.Select(defs, selected)

	if cfg != nil && cfg.ValidatorBool(profile, patterns.CategoryCreditCards, "luhn") {
		defs = patterns.RequireLuhn(defs)
	}
	return defs, nil
}

// BuildRegistry compiles the definitions from BuildDefinitions. Every invalid rule
// is reported; no registry is returned on error.
func BuildRegistry(checks []string, cfg *config.Config, profile *config.Profile) (*patterns.Registry, error) {
	defs, err := BuildDefinitions(checks, cfg, profile)
	if err != nil {
		return nil, err
	}
	return patterns.New(defs)
}

// ParseChecksToRun converts check names into an enabled-checks map over categories.
// An empty list or ["all"] enables every check. Names are matched case-insensitively;
// an unknown name is an error.
func ParseChecksToRun(checks []string, categories []string) (map[string]bool, error) {
	result := make(map[string]bool, len(categories))
	for _, category := range categories {
		result[category] = false
	}

	var named []string
	for _, check := range checks {
		if c := strings.ToLower(strings.TrimSpace(check)); c != "" {
			named = append(named, c)
		}
	}

	if len(named) == 0 || (len(named) == 1 && named[0] == "all") {
		for key := range result {
			result[key] = true
		}
		return result, nil
	}

	var unknown []string
	for _, check := range named {
		if _, exists := result[check]; !exists {
			unknown = append(unknown, check)
			continue
		}
		result[check] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown check(s) %s (available: %s)",
			strings.Join(unknown, ", "), strings.Join(categories, ", "))
	}

	return result, nil
}

// SplitChecks splits a comma-separated check list
func SplitChecks(checks string) []string {
	if strings.TrimSpace(checks) == "" {
		return nil
	}
	return strings.Split(checks, ",")
}
