// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package precommit recognizes runs started by the pre-commit framework or a git hook
// and supplies the settings such runs use.
package precommit

import (
	"os"
	"strconv"
)

// ProfileName is the configuration profile suggested for hook runs
const ProfileName = "precommit"

// PrecommitDetector handles detection of pre-commit environment
type PrecommitDetector struct {
	isPrecommitEnv bool
	config         *PrecommitConfig
}

// PrecommitConfig contains the settings applied in a pre-commit environment
type PrecommitConfig struct {
	QuietMode      bool
	NoColor        bool
	FailOnFindings bool
	Format         string
	ProfileName    string
}

// NewPrecommitDetector inspects the process environment
func NewPrecommitDetector() *PrecommitDetector {
	return NewPrecommitDetectorWithEnv(os.Getenv, false)
}

// NewPrecommitDetectorWithEnv reads variables through getenv. explicitMode forces
// pre-commit handling regardless of the environment.
func NewPrecommitDetectorWithEnv(getenv func(string) string, explicitMode bool) *PrecommitDetector {
	pd := &PrecommitDetector{isPrecommitEnv: explicitMode || detect(getenv)}

	config := &PrecommitConfig{
		QuietMode:      pd.isPrecommitEnv,
		NoColor:        pd.isPrecommitEnv,
		FailOnFindings: true,
		Format:         "text",
		ProfileName:    ProfileName,
	}
	if v := getenv("SHAPE_SCAN_PRECOMMIT_FAIL"); v != "" {
		if fail, err := strconv.ParseBool(v); err == nil {
			config.FailOnFindings = fail
		}
	}
	pd.config = config
	return pd
}

// detect checks the variables set by pre-commit and git hooks
func detect(getenv func(string) string) bool {
	for _, name := range []string{"PRE_COMMIT", "_PRE_COMMIT_RUNNING", "PRE_COMMIT_HOME", "PRE_COMMIT_HOOK"} {
		if getenv(name) != "" {
			return true
		}
	}
	return false
}

// IsPrecommitEnvironment returns true if running in a pre-commit environment
func (pd *PrecommitDetector) IsPrecommitEnvironment() bool {
	return pd.isPrecommitEnv
}

// GetOptimizedConfig returns the pre-commit settings
func (pd *PrecommitDetector) GetOptimizedConfig() *PrecommitConfig {
	return pd.config
}

// GetSuggestedProfile returns the profile to use, or "" outside pre-commit
func (pd *PrecommitDetector) GetSuggestedProfile() string {
	if !pd.isPrecommitEnv {
		return ""
	}
	return pd.config.ProfileName
}
