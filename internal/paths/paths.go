// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "SHAPE_SCAN_CONFIG_DIR"

// GetConfigDir returns the shape-scan configuration directory: $SHAPE_SCAN_CONFIG_DIR,
// then <user config dir>/shape-scan, then ~/.shape-scan. It returns "" when none
// can be determined.
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shape-scan")
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".shape-scan")
	}
	return ""
}

// GetConfigFiles returns the candidate config files in the configuration directory
func GetConfigFiles() []string {
	dir := GetConfigDir()
	if dir == "" {
		return nil
	}
	return []string{filepath.Join(dir, "config.yaml"), filepath.Join(dir, "config.yml")}
}
